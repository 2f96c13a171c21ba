// Package pagination parses and checks the "Showing {start} to {end} of {total} entries" caption.
package pagination

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/tablecheck/internal/models"
)

// captionPattern accepts DataTables' thousands separators in each counter
var captionPattern = regexp.MustCompile(`^Showing (\d{1,3}(?:,\d{3})*|\d+) to (\d{1,3}(?:,\d{3})*|\d+) of (\d{1,3}(?:,\d{3})*|\d+) entries$`)

// ParseCounts extracts the three counters from a caption. Surrounding whitespace is ignored;
// anything else outside the template is a *models.ParseError, as is start > end or end > total.
func ParseCounts(caption string) (models.PaginationInfo, error) {
	text := strings.TrimSpace(caption)

	match := captionPattern.FindStringSubmatch(text)
	if match == nil {
		return models.PaginationInfo{}, &models.ParseError{
			Input:  caption,
			Reason: `does not match "Showing {start} to {end} of {total} entries"`,
		}
	}

	var counts [3]int
	for i, group := range match[1:] {
		n, err := strconv.Atoi(strings.ReplaceAll(group, ",", ""))
		if err != nil {
			return models.PaginationInfo{}, &models.ParseError{Input: caption, Reason: fmt.Sprintf("counter %q", group), Err: err}
		}
		counts[i] = n
	}

	info := models.PaginationInfo{Start: counts[0], End: counts[1], Total: counts[2]}
	if info.Start > info.End || info.End > info.Total {
		return models.PaginationInfo{}, &models.ParseError{
			Input:  caption,
			Reason: fmt.Sprintf("counters out of order: start=%d end=%d total=%d", info.Start, info.End, info.Total),
		}
	}

	return info, nil
}

// Validate checks the counters of the first page: start is 1, end is min(pageSize, total)
// and total equals expectedTotal. An empty table is expected to read "Showing 0 to 0 of 0 entries".
func Validate(info models.PaginationInfo, pageSize, expectedTotal int) error {
	return ValidatePage(info, 1, pageSize, expectedTotal)
}

// ValidatePage checks the counters shown on the 1-based page of a table with pageSize rows per page
func ValidatePage(info models.PaginationInfo, page, pageSize, expectedTotal int) error {
	expectedStart := (page-1)*pageSize + 1
	expectedEnd := min(page*pageSize, expectedTotal)
	if expectedTotal == 0 {
		expectedStart, expectedEnd = 0, 0
	}

	switch {
	case info.Total != expectedTotal:
		return mismatch("total", expectedTotal, info.Total)
	case info.Start != expectedStart:
		return mismatch("start", expectedStart, info.Start)
	case info.End != expectedEnd:
		return mismatch("end", expectedEnd, info.End)
	}
	return nil
}

// PageCount returns the number of pages needed to show total rows
func PageCount(pageSize, total int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func mismatch(counter string, expected, actual int) error {
	return &models.VerificationError{
		Label:    "pagination_" + counter,
		Reason:   fmt.Sprintf("caption %s counter is wrong", counter),
		Expected: strconv.Itoa(expected),
		Actual:   strconv.Itoa(actual),
	}
}
