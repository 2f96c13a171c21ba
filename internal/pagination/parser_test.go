package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/tablecheck/internal/models"
)

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    models.PaginationInfo
	}{
		{"all on one page", "Showing 1 to 7 of 7 entries", models.PaginationInfo{Start: 1, End: 7, Total: 7}},
		{"first of several pages", "Showing 1 to 10 of 42 entries", models.PaginationInfo{Start: 1, End: 10, Total: 42}},
		{"surrounding whitespace", "  Showing 11 to 20 of 42 entries\n", models.PaginationInfo{Start: 11, End: 20, Total: 42}},
		{"empty table", "Showing 0 to 0 of 0 entries", models.PaginationInfo{}},
		{"thousands separator", "Showing 1 to 10 of 1,234 entries", models.PaginationInfo{Start: 1, End: 10, Total: 1234}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseCounts(tt.caption)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info)
		})
	}
}

func TestParseCounts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		caption string
	}{
		{"other text", "No entries found"},
		{"empty", ""},
		{"negative counter", "Showing -1 to 7 of 7 entries"},
		{"extra prefix", "Table: Showing 1 to 7 of 7 entries"},
		{"filtered suffix", "Showing 1 to 1 of 1 entries (filtered from 7 total entries)"},
		{"start after end", "Showing 8 to 7 of 7 entries"},
		{"end after total", "Showing 1 to 10 of 7 entries"},
		{"counter overflow", "Showing 1 to 1 of 99999999999999999999999 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCounts(tt.caption)
			require.Error(t, err)
			assert.True(t, models.IsParseError(err))
		})
	}
}

func TestParseCounts_OverflowKeepsCause(t *testing.T) {
	_, err := ParseCounts("Showing 1 to 1 of 99999999999999999999999 entries")

	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, strconv.ErrRange)
	assert.Contains(t, parseErr.Error(), "out of range")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		info          models.PaginationInfo
		pageSize      int
		expectedTotal int
		wantLabel     string
	}{
		{"fewer than a page", models.PaginationInfo{Start: 1, End: 7, Total: 7}, 10, 7, ""},
		{"full page", models.PaginationInfo{Start: 1, End: 10, Total: 12}, 10, 12, ""},
		{"empty table", models.PaginationInfo{}, 10, 0, ""},
		{"total differs", models.PaginationInfo{Start: 1, End: 6, Total: 6}, 10, 7, "pagination_total"},
		{"start not first", models.PaginationInfo{Start: 11, End: 12, Total: 12}, 10, 12, "pagination_start"},
		{"end exceeds page", models.PaginationInfo{Start: 1, End: 12, Total: 12}, 10, 12, "pagination_end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.info, tt.pageSize, tt.expectedTotal)
			if tt.wantLabel == "" {
				assert.NoError(t, err)
				return
			}
			var verificationErr *models.VerificationError
			require.ErrorAs(t, err, &verificationErr)
			assert.Equal(t, tt.wantLabel, verificationErr.Label)
		})
	}
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(models.PaginationInfo{Start: 11, End: 20, Total: 25}, 2, 10, 25))
	assert.NoError(t, ValidatePage(models.PaginationInfo{Start: 21, End: 25, Total: 25}, 3, 10, 25))

	err := ValidatePage(models.PaginationInfo{Start: 1, End: 10, Total: 25}, 2, 10, 25)
	var verificationErr *models.VerificationError
	require.ErrorAs(t, err, &verificationErr)
	assert.Equal(t, "pagination_start", verificationErr.Label)
	assert.Equal(t, "11", verificationErr.Expected)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(10, 0))
	assert.Equal(t, 1, PageCount(10, 7))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 3, PageCount(10, 25))
}
