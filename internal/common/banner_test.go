package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner_DefaultConfig(t *testing.T) {
	config := NewDefaultConfig()
	config.Table.Columns = nil
	assert.NotPanics(t, func() { PrintBanner(config) })
	assert.NotPanics(t, func() { PrintBanner(NewDefaultConfig()) })
}
