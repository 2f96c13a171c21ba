package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 3, config.Interaction.Attempts)
	assert.Equal(t, "Nombre", config.Verification.SortKey)
	assert.Equal(t, []string{"Nombre", "Apellidos", "Teléfono"}, config.Table.Columns)
	assert.Equal(t, "Apellidos", config.Dataset.Aliases["Apellido"])
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[browser]
url = "http://example.test/modal"

[verification]
timeout = "8s"
`)
	override := writeConfig(t, "override.toml", `
[verification]
timeout = "2s"

[table]
page_size = 25
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/modal", config.Browser.URL)
	assert.Equal(t, "2s", config.Verification.Timeout)
	assert.Equal(t, 25, config.Table.PageSize)
	// Untouched sections keep their defaults
	assert.Equal(t, "250ms", config.Verification.PollInterval)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tablecheck.toml", `
[interaction]
attempts = 5
`)
	t.Setenv("TABLECHECK_ATTEMPTS", "7")
	t.Setenv("TABLECHECK_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 7, config.Interaction.Attempts)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := writeConfig(t, "bad.toml", "[browser\nurl=")
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, "http://other.test/", "/tmp/data", true)

	assert.Equal(t, "http://other.test/", config.Browser.URL)
	assert.Equal(t, "/tmp/data", config.Dataset.Dir)
	assert.False(t, config.Browser.Headless)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero attempts", func(c *Config) { c.Interaction.Attempts = 0 }},
		{"empty columns", func(c *Config) { c.Table.Columns = nil }},
		{"bad duration", func(c *Config) { c.Verification.PollInterval = "soon" }},
		{"missing url", func(c *Config) { c.Browser.URL = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationOr("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("", time.Second))
	assert.Equal(t, time.Second, ParseDurationOr("nope", time.Second))
}
