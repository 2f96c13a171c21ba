// Package scenario drives end-to-end table verification scenarios: register dataset records
// through the modal form, then check search, reset and pagination behaviour of the table.
package scenario

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/common"
	"github.com/ternarybob/tablecheck/internal/compare"
	"github.com/ternarybob/tablecheck/internal/interaction"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
	"github.com/ternarybob/tablecheck/internal/pagination"
	"golang.org/x/time/rate"
)

// PickFunc chooses the record and the field whose value is typed into the search box
type PickFunc func(records []models.Record, fields []string) (models.Record, string)

// RandomPick picks a random record and a random field of it
func RandomPick(records []models.Record, fields []string) (models.Record, string) {
	record := records[rand.IntN(len(records))]
	return record, fields[rand.IntN(len(fields))]
}

// Settings carries the table and timing parameters a Driver needs
type Settings struct {
	Columns        []string
	SortKey        string
	PageSize       int
	SearchSettle   time.Duration
	VerifyTimeout  time.Duration
	PollInterval   time.Duration
	SuccessMessage string
	ClearForm      bool
}

// SettingsFrom extracts driver settings from the application config
func SettingsFrom(config *common.Config) Settings {
	return Settings{
		Columns:        append([]string(nil), config.Table.Columns...),
		SortKey:        config.Verification.SortKey,
		PageSize:       config.Table.PageSize,
		SearchSettle:   common.ParseDurationOr(config.Interaction.SearchSettle, 500*time.Millisecond),
		VerifyTimeout:  common.ParseDurationOr(config.Verification.Timeout, compare.DefaultTimeout),
		PollInterval:   common.ParseDurationOr(config.Verification.PollInterval, compare.DefaultPollInterval),
		SuccessMessage: config.Interaction.SuccessMessage,
		ClearForm:      config.Interaction.ClearForm,
	}
}

// Driver composes interaction, comparison and pagination steps against one page
type Driver struct {
	executor   *interaction.Executor
	comparator *compare.Comparator
	capturer   interfaces.Capturer
	locator    interfaces.Locator
	settings   Settings
	pick       PickFunc
	logger     arbor.ILogger
}

// DriverOption configures a Driver
type DriverOption func(*Driver)

// WithPick replaces the random search pick, e.g. for reproducible runs
func WithPick(pick PickFunc) DriverOption {
	return func(d *Driver) {
		if pick != nil {
			d.pick = pick
		}
	}
}

// NewDriver creates a scenario driver
func NewDriver(
	executor *interaction.Executor,
	comparator *compare.Comparator,
	capturer interfaces.Capturer,
	locator interfaces.Locator,
	settings Settings,
	logger arbor.ILogger,
	opts ...DriverOption,
) *Driver {
	if settings.PollInterval <= 0 {
		settings.PollInterval = compare.DefaultPollInterval
	}
	if settings.VerifyTimeout <= 0 {
		settings.VerifyTimeout = compare.DefaultTimeout
	}
	d := &Driver{
		executor:   executor,
		comparator: comparator,
		capturer:   capturer,
		locator:    locator,
		settings:   settings,
		pick:       RandomPick,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Columns returns the table columns in display order
func (d *Driver) Columns() []string {
	return append([]string(nil), d.settings.Columns...)
}

// formFields returns the modal inputs in table column order
func (d *Driver) formFields() []interfaces.Target {
	return []interfaces.Target{d.locator.NameField(), d.locator.SurnameField(), d.locator.PhoneField()}
}

// RegisterRecords submits every record of dataset through the add-record form and returns the
// records as they should appear in the table. On failure the records registered so far are returned
// with the error.
func (d *Driver) RegisterRecords(ctx context.Context, dataset *models.DataSet, labelSuffix string) ([]models.Record, error) {
	fields := d.formFields()
	if len(d.settings.Columns) > len(fields) {
		return nil, fmt.Errorf("form has %d fields but the table declares %d columns", len(fields), len(d.settings.Columns))
	}

	registered := make([]models.Record, 0, dataset.Len())
	for i := 0; i < dataset.Len(); i++ {
		source := dataset.At(i)
		record := make(models.Record, len(d.settings.Columns))
		for _, column := range d.settings.Columns {
			record[column] = source[column]
		}

		if err := d.registerOne(ctx, fields, record, i+1, labelSuffix); err != nil {
			return registered, fmt.Errorf("failed to register record %d %s: %w", i+1, record, err)
		}
		registered = append(registered, record)
	}

	d.logger.Info().
		Int("registered", len(registered)).
		Str("source", dataset.Source()).
		Msg("Records registered")
	return registered, nil
}

func (d *Driver) registerOne(ctx context.Context, fields []interfaces.Target, record models.Record, n int, suffix string) error {
	label := func(action string) string {
		if suffix == "" {
			return fmt.Sprintf("%s_%d", action, n)
		}
		return fmt.Sprintf("%s_%d_%s", action, n, suffix)
	}

	d.logger.Debug().Int("row", n).Str("record", record.String()).Msg("Registering record")

	if err := d.executor.Click(ctx, d.locator.AddRecordButton(), label("add_record")); err != nil {
		return err
	}
	if d.settings.ClearForm {
		if err := d.executor.Click(ctx, d.locator.ClearButton(), label("clear_form")); err != nil {
			return err
		}
	}
	for i, column := range d.settings.Columns {
		if err := d.executor.Fill(ctx, fields[i], record[column], label("fill_"+column), 0); err != nil {
			return err
		}
	}
	if err := d.executor.Click(ctx, d.locator.SubmitButton(), label("submit")); err != nil {
		return err
	}
	if err := d.executor.Click(ctx, d.locator.CloseButton(), label("close_modal")); err != nil {
		return err
	}
	return d.executor.VerifyContains(ctx, d.locator.SuccessMessage(), d.settings.SuccessMessage, label("verify_success"))
}

// VerifySearch types one value of a registered record into the search box and checks that the
// table shows exactly the registered rows the filter matches. A nil pick uses the driver's pick.
func (d *Driver) VerifySearch(ctx context.Context, registered []models.Record, pick PickFunc) error {
	if len(registered) == 0 {
		return &models.VerificationError{Label: "search", Reason: "no registered records to search for"}
	}
	if pick == nil {
		pick = d.pick
	}

	record, field := pick(registered, d.settings.Columns)
	term := record[field]

	d.logger.Info().
		Str("field", field).
		Str("term", term).
		Str("record", record.String()).
		Msg("Searching table")

	if err := d.executor.Fill(ctx, d.locator.SearchBox(), term, "search_box", d.settings.SearchSettle); err != nil {
		return err
	}

	expected := d.firstPage(FilterRecords(registered, d.settings.Columns, term))
	label := fmt.Sprintf("search_%s_%s", field, term)
	return d.comparator.VerifyRows(ctx, d.locator.Table(), models.ExpectRows(expected...), label, d.settings.VerifyTimeout)
}

// VerifyClearResets empties the search box and checks that the table lists every registered
// record in sort key order
func (d *Driver) VerifyClearResets(ctx context.Context, registered []models.Record) error {
	if err := d.executor.Fill(ctx, d.locator.SearchBox(), "", "clear_search", d.settings.SearchSettle); err != nil {
		return err
	}

	expected := d.firstPage(registered)
	return d.comparator.VerifyRows(ctx, d.locator.Table(), models.ExpectSequence(expected), "clear_search_resets", d.settings.VerifyTimeout)
}

// firstPage orders rows by the sort key and keeps those shown on the first page
func (d *Driver) firstPage(rows []models.Record) []models.Record {
	sorted := models.SortRecords(rows, d.settings.SortKey)
	if d.settings.PageSize > 0 && len(sorted) > d.settings.PageSize {
		sorted = sorted[:d.settings.PageSize]
	}
	return sorted
}

// VerifyPagination selects pageSize entries per page and checks the caption counters. When the
// rows span several pages it also steps to the second page and back.
func (d *Driver) VerifyPagination(ctx context.Context, pageSize, expectedTotal int) error {
	value := strconv.Itoa(pageSize)
	if err := d.executor.SelectByValue(ctx, d.locator.EntriesSelect(), value, "select_entries_"+value,
		interaction.WithSettle(d.settings.SearchSettle)); err != nil {
		return err
	}

	info, err := d.waitForCaption(ctx, 1, pageSize, expectedTotal)
	if err != nil {
		return err
	}
	d.logger.Info().
		Int("start", info.Start).
		Int("end", info.End).
		Int("total", info.Total).
		Msg("Pagination caption verified")

	if pagination.PageCount(pageSize, expectedTotal) < 2 {
		return nil
	}

	if err := d.executor.Click(ctx, d.locator.NextPage(), "next_page"); err != nil {
		return err
	}
	if _, err := d.waitForCaption(ctx, 2, pageSize, expectedTotal); err != nil {
		return err
	}
	if err := d.executor.Click(ctx, d.locator.PreviousPage(), "previous_page"); err != nil {
		return err
	}
	_, err = d.waitForCaption(ctx, 1, pageSize, expectedTotal)
	return err
}

// waitForCaption re-reads the caption until its counters fit the page or the verify timeout
// elapses. The last parse or counter error is returned on timeout.
func (d *Driver) waitForCaption(ctx context.Context, page, pageSize, total int) (models.PaginationInfo, error) {
	label := fmt.Sprintf("pagination_page_%d", page)

	waitCtx, cancel := context.WithTimeout(ctx, d.settings.VerifyTimeout)
	defer cancel()
	limiter := rate.NewLimiter(rate.Every(d.settings.PollInterval), 1)

	var lastErr error
	for limiter.Wait(waitCtx) == nil {
		caption, err := d.executor.ReadText(ctx, d.locator.PaginationCaption(), label)
		if err != nil {
			return models.PaginationInfo{}, err
		}

		info, err := pagination.ParseCounts(caption)
		if err == nil {
			err = pagination.ValidatePage(info, page, pageSize, total)
		}
		if err == nil {
			return info, nil
		}
		lastErr = err
	}

	if ctx.Err() != nil {
		return models.PaginationInfo{}, ctx.Err()
	}
	if lastErr == nil {
		lastErr = waitCtx.Err()
	}

	d.capturer.Capture(ctx, label)
	d.logger.Error().Str("label", label).Err(lastErr).Msg("Pagination caption verification failed")
	return models.PaginationInfo{}, lastErr
}

// FilterRecords returns the records a DataTables smart search for term keeps: every
// whitespace-separated word must occur, case-insensitively, somewhere in the row.
func FilterRecords(records []models.Record, columns []string, term string) []models.Record {
	words := strings.Fields(strings.ToLower(term))

	var out []models.Record
	for _, record := range records {
		values := make([]string, len(columns))
		for i, column := range columns {
			values[i] = record[column]
		}
		row := strings.ToLower(strings.Join(values, " "))

		matched := true
		for _, word := range words {
			if !strings.Contains(row, word) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, record.Clone())
		}
	}
	return out
}
