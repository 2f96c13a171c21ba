package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/browser"
	"github.com/ternarybob/tablecheck/internal/common"
	"github.com/ternarybob/tablecheck/internal/compare"
	"github.com/ternarybob/tablecheck/internal/datasource"
	"github.com/ternarybob/tablecheck/internal/diagnostics"
	"github.com/ternarybob/tablecheck/internal/interaction"
	"github.com/ternarybob/tablecheck/internal/pages"
	"github.com/ternarybob/tablecheck/internal/scenario"
	"github.com/ternarybob/tablecheck/internal/storage/badger"
	"github.com/ternarybob/tablecheck/internal/table"
)

// collapsedMenuWidth is the viewport width below which the navbar hides behind its toggle
const collapsedMenuWidth = 992

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	targetURL    = flag.String("url", "", "Page hosting the data table (overrides config)")
	dataDir      = flag.String("data", "", "Dataset directory (overrides config)")
	headed       = flag.Bool("headed", false, "Show the browser window")
	scenarioName = flag.String("scenario", "all", "Scenario to run: all, spreadsheet_search or xml_pagination")
	history      = flag.Int("history", 0, "Print the last N stored results and exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("TableCheck version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("tablecheck.toml"); err == nil {
			configFiles = append(configFiles, "tablecheck.toml")
		}
	}

	// Startup order: config files -> env -> CLI flags -> validate -> logger -> banner
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}
	common.ApplyFlagOverrides(config, *targetURL, *dataDir, *headed)
	if err := config.Validate(); err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Configuration rejected")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("url", config.Browser.URL).
		Bool("headless", config.Browser.Headless).
		Str("data_dir", config.Dataset.Dir).
		Str("log_level", config.Logging.Level).
		Msg("Resolved configuration")

	os.Exit(run(config, logger))
}

// run wires the components, executes the selected scenarios and returns the process exit code
func run(config *common.Config, logger arbor.ILogger) int {
	common.InstallCrashHandler(filepath.Join(filepath.Dir(filepath.Clean(config.Diagnostics.Dir)), "logs"))
	defer common.RecoverWithCrashFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open run history")
		return 1
	}
	storage := badger.NewRunStorage(db, logger)
	defer storage.Close()

	if *history > 0 {
		return printHistory(ctx, storage, *history, logger)
	}

	session, err := browser.NewSession(ctx, browser.SessionConfigFrom(config.Browser), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start browser")
		return 1
	}
	defer session.Close()
	surface := session.Surface()

	capturer := diagnostics.NewScreenshotCapturer(surface, config.Diagnostics.Dir, config.Diagnostics.Enabled, logger)
	executor := interaction.NewExecutor(surface, capturer, interaction.RetryPolicyFrom(config.Interaction), logger)
	settings := scenario.SettingsFrom(config)
	extractor := table.NewExtractor(surface, settings.Columns, logger)
	comparator := compare.NewComparator(extractor, capturer, logger, compare.WithPollInterval(settings.PollInterval))
	driver := scenario.NewDriver(executor, comparator, capturer, pages.NewModalDataTable(), settings, logger)

	reader := datasource.NewReader(datasource.Options{
		Fields:    config.Table.Columns,
		Aliases:   config.Dataset.Aliases,
		RecordTag: config.Dataset.RecordTag,
	}, logger)

	navTimeout := common.ParseDurationOr(config.Browser.NavTimeout, 30*time.Second)
	prepare := func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, navTimeout)
		defer cancel()
		if err := session.Navigate(navCtx, config.Browser.URL); err != nil {
			return err
		}
		if !config.Browser.ViaMenu {
			return nil
		}
		return scenario.OpenViaMenu(ctx, executor, pages.NewNavigationBar(), config.Browser.WindowWidth < collapsedMenuWidth)
	}

	scenarios, err := selectScenarios(*scenarioName, config, reader, driver, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid scenario selection")
		return 2
	}

	runner := scenario.NewRunner(logger, scenario.WithStorage(storage), scenario.WithPrepare(prepare))
	logger.Info().
		Str("run_id", runner.RunID()).
		Str("url", config.Browser.URL).
		Int("scenarios", len(scenarios)).
		Msg("Starting verification run")

	results := runner.RunAll(ctx, scenarios...)

	failed := 0
	for _, result := range results {
		if !result.Passed() {
			failed++
		}
	}
	logger.Info().
		Str("run_id", runner.RunID()).
		Int("passed", len(results)-failed).
		Int("failed", failed).
		Int("skipped", len(scenarios)-len(results)).
		Msg("Verification run finished")

	if failed > 0 || len(results) < len(scenarios) {
		return 1
	}
	return 0
}

func selectScenarios(name string, config *common.Config, reader *datasource.Reader, driver *scenario.Driver, logger arbor.ILogger) ([]scenario.Scenario, error) {
	spreadsheet := scenario.NewSpreadsheetSearch(reader, driver,
		filepath.Join(config.Dataset.Dir, config.Dataset.Spreadsheet),
		config.Dataset.Sheet, config.Dataset.HasHeader, logger)
	xml := scenario.NewXMLPagination(reader, driver,
		filepath.Join(config.Dataset.Dir, config.Dataset.XML),
		config.Dataset.RootTag, config.Table.PageSize, logger)

	switch name {
	case "", "all":
		return []scenario.Scenario{spreadsheet, xml}, nil
	case spreadsheet.Name():
		return []scenario.Scenario{spreadsheet}, nil
	case xml.Name():
		return []scenario.Scenario{xml}, nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
}

func printHistory(ctx context.Context, storage *badger.RunStorage, limit int, logger arbor.ILogger) int {
	results, err := storage.ListResults(ctx, "", limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list run history")
		return 1
	}
	for _, r := range results {
		fmt.Printf("%s  %-20s %-7s %4d rows  %8s  run=%s  %s\n",
			r.StartedAt.Format(time.RFC3339), r.Scenario, r.Status, r.Registered,
			r.Duration().Round(time.Millisecond), r.RunID, r.Error)
	}
	return 0
}
