package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Browser      BrowserConfig      `toml:"browser"`
	Interaction  InteractionConfig  `toml:"interaction"`
	Verification VerificationConfig `toml:"verification"`
	Diagnostics  DiagnosticsConfig  `toml:"diagnostics"`
	Dataset      DatasetConfig      `toml:"dataset"`
	Table        TableConfig        `toml:"table"`
	Storage      StorageConfig      `toml:"storage"`
	Logging      LoggingConfig      `toml:"logging"`
}

// BrowserConfig controls the Chrome instance driven by chromedp
type BrowserConfig struct {
	URL          string `toml:"url" validate:"required,url"` // Page hosting the data table
	Headless     bool   `toml:"headless"`
	NoSandbox    bool   `toml:"no_sandbox"`
	DisableGPU   bool   `toml:"disable_gpu"`
	WindowWidth  int    `toml:"window_width" validate:"gte=320"`
	WindowHeight int    `toml:"window_height" validate:"gte=240"`
	UserAgent    string `toml:"user_agent"`
	NavTimeout   string `toml:"nav_timeout"` // e.g. "30s" - page load budget
	ViaMenu      bool   `toml:"via_menu"`    // Reach the table through the navigation bar instead of a direct URL
}

// InteractionConfig controls retry behaviour of UI actions
type InteractionConfig struct {
	Attempts          int     `toml:"attempts" validate:"gte=1"`
	RetryPause        string  `toml:"retry_pause"`     // Initial pause between attempts, e.g. "300ms"
	MaxRetryPause     string  `toml:"max_retry_pause"` // Upper bound for backoff
	BackoffMultiplier float64 `toml:"backoff_multiplier" validate:"gte=1"`
	AttemptTimeout    string  `toml:"attempt_timeout"` // Per-attempt budget for locating + acting on an element
	SearchSettle      string  `toml:"search_settle"`   // Settle delay after typing into the search box
	SuccessMessage    string  `toml:"success_message"` // Flash text expected after each registration
	ClearForm         bool    `toml:"clear_form"`      // Press the form's clear button before filling each record
}

// VerificationConfig controls table polling
type VerificationConfig struct {
	Timeout      string `toml:"timeout"`       // e.g. "5s"
	PollInterval string `toml:"poll_interval"` // e.g. "250ms"
	SortKey      string `toml:"sort_key" validate:"required"`
}

// DiagnosticsConfig controls failure screenshots
type DiagnosticsConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DatasetConfig locates the source data files
type DatasetConfig struct {
	Dir         string            `toml:"dir"`
	Spreadsheet string            `toml:"spreadsheet"` // File name under Dir, e.g. MOCK_DATA.xlsx
	Sheet       string            `toml:"sheet"`
	HasHeader   bool              `toml:"has_header"`
	XML         string            `toml:"xml"` // File name under Dir, e.g. dataset.xml
	RootTag     string            `toml:"root_tag"`
	RecordTag   string            `toml:"record_tag"`
	Aliases     map[string]string `toml:"aliases"` // Source field name -> canonical field name
}

// TableConfig describes the rendered table
type TableConfig struct {
	Columns  []string `toml:"columns" validate:"min=1,dive,required"`
	PageSize int      `toml:"page_size" validate:"gte=1"`
}

// StorageConfig holds run history storage settings
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Browser: BrowserConfig{
			URL:          "http://localhost:8080/",
			Headless:     true,
			NoSandbox:    true,
			DisableGPU:   true,
			WindowWidth:  1920,
			WindowHeight: 1080,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeout:   "30s",
		},
		Interaction: InteractionConfig{
			Attempts:          3,
			RetryPause:        "300ms",
			MaxRetryPause:     "2s",
			BackoffMultiplier: 2.0,
			AttemptTimeout:    "5s",
			SearchSettle:      "500ms",
			SuccessMessage:    "Formulario enviado exitosamente",
		},
		Verification: VerificationConfig{
			Timeout:      "5s",
			PollInterval: "250ms",
			SortKey:      "Nombre",
		},
		Diagnostics: DiagnosticsConfig{
			Enabled: true,
			Dir:     "./results/screenshots",
		},
		Dataset: DatasetConfig{
			Dir:         "./data",
			Spreadsheet: "MOCK_DATA.xlsx",
			Sheet:       "data",
			HasHeader:   true,
			XML:         "dataset.xml",
			RootTag:     "",
			RecordTag:   "record",
			Aliases: map[string]string{
				"Apellido": "Apellidos",
			},
		},
		Table: TableConfig{
			Columns:  []string{"Nombre", "Apellidos", "Teléfono"},
			PageSize: 10,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./results/history",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards by the caller.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TABLECHECK_ENV"); env != "" {
		config.Environment = env
	}

	// Browser configuration
	if url := os.Getenv("TABLECHECK_URL"); url != "" {
		config.Browser.URL = url
	}
	if headless := os.Getenv("TABLECHECK_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}

	// Interaction configuration
	if attempts := os.Getenv("TABLECHECK_ATTEMPTS"); attempts != "" {
		if a, err := strconv.Atoi(attempts); err == nil {
			config.Interaction.Attempts = a
		}
	}
	if attemptTimeout := os.Getenv("TABLECHECK_ATTEMPT_TIMEOUT"); attemptTimeout != "" {
		config.Interaction.AttemptTimeout = attemptTimeout
	}

	// Verification configuration
	if timeout := os.Getenv("TABLECHECK_VERIFY_TIMEOUT"); timeout != "" {
		config.Verification.Timeout = timeout
	}
	if pollInterval := os.Getenv("TABLECHECK_POLL_INTERVAL"); pollInterval != "" {
		config.Verification.PollInterval = pollInterval
	}

	// Dataset configuration
	if dir := os.Getenv("TABLECHECK_DATA_DIR"); dir != "" {
		config.Dataset.Dir = dir
	}

	// Diagnostics configuration
	if dir := os.Getenv("TABLECHECK_SCREENSHOT_DIR"); dir != "" {
		config.Diagnostics.Dir = dir
	}

	// Storage configuration
	if badgerPath := os.Getenv("TABLECHECK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("TABLECHECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TABLECHECK_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, url string, dataDir string, headed bool) {
	if url != "" {
		config.Browser.URL = url
	}
	if dataDir != "" {
		config.Dataset.Dir = dataDir
	}
	if headed {
		config.Browser.Headless = false
	}
}

// Validate checks struct constraints and that every duration string parses
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	durations := map[string]string{
		"browser.nav_timeout":         c.Browser.NavTimeout,
		"interaction.retry_pause":     c.Interaction.RetryPause,
		"interaction.max_retry_pause": c.Interaction.MaxRetryPause,
		"interaction.attempt_timeout": c.Interaction.AttemptTimeout,
		"interaction.search_settle":   c.Interaction.SearchSettle,
		"verification.timeout":        c.Verification.Timeout,
		"verification.poll_interval":  c.Verification.PollInterval,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s (%q): %w", key, value, err)
		}
	}
	return nil
}

// IsProduction reports whether the configured environment is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ParseDurationOr parses a duration string, returning fallback when empty or malformed
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
