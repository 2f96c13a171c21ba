package common

import (
	"strconv"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner prints the startup box with the version and the target the run will drive
func PrintBanner(config *Config) {
	b := banner.New().SetStyle(banner.StyleDouble).SetWidth(72)

	b.PrintTopLine()
	b.PrintCenteredText("TableCheck")
	b.PrintCenteredText("data table verification")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", GetFullVersion(), 10)
	b.PrintKeyValue("Target", config.Browser.URL, 10)
	b.PrintKeyValue("Headless", strconv.FormatBool(config.Browser.Headless), 10)
	b.PrintKeyValue("Dataset", config.Dataset.Dir, 10)
	b.PrintKeyValue("Columns", strings.Join(config.Table.Columns, ", "), 10)
	b.PrintBottomLine()
}
