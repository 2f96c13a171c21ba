package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDs(t *testing.T) {
	runID := NewRunID()
	resultID := NewResultID()

	require.True(t, strings.HasPrefix(runID, "run_"))
	require.True(t, strings.HasPrefix(resultID, "res_"))

	_, err := uuid.Parse(strings.TrimPrefix(runID, "run_"))
	assert.NoError(t, err)
	assert.NotEqual(t, NewRunID(), runID)
}
