// Package compare waits for a rendered table to hold exactly the expected rows.
package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultPollInterval paces snapshot extraction while waiting for a match
	DefaultPollInterval = 250 * time.Millisecond
	// DefaultTimeout bounds one verification when the caller passes zero
	DefaultTimeout = 5 * time.Second
)

// Snapshotter extracts table snapshots; implemented by table.Extractor
type Snapshotter interface {
	Columns() []string
	ExtractSnapshot(ctx context.Context, target interfaces.Target) (models.TableSnapshot, error)
}

// Comparator polls a Snapshotter until the table matches an Expectation or the timeout elapses
type Comparator struct {
	extractor    Snapshotter
	capturer     interfaces.Capturer
	logger       arbor.ILogger
	pollInterval time.Duration
}

// Option configures a Comparator
type Option func(*Comparator)

// WithPollInterval sets the pause between snapshot extractions
func WithPollInterval(d time.Duration) Option {
	return func(c *Comparator) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewComparator creates a comparator over the given extractor
func NewComparator(extractor Snapshotter, capturer interfaces.Capturer, logger arbor.ILogger, opts ...Option) *Comparator {
	c := &Comparator{
		extractor:    extractor,
		capturer:     capturer,
		logger:       logger,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VerifyRows returns nil once a snapshot of target matches expectation. When the timeout
// elapses first it captures diagnostics and returns a *models.VerificationError. A field set
// that differs from the table columns fails immediately with models.ErrFieldSetMismatch.
func (c *Comparator) VerifyRows(ctx context.Context, target interfaces.Target, expectation models.Expectation, label string, timeout time.Duration) error {
	if err := checkFieldSet(expectation, c.extractor.Columns()); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	startTime := time.Now()
	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	var last *models.TableSnapshot
	var lastErr error
	polls := 0

	for {
		if err := limiter.Wait(verifyCtx); err != nil {
			break
		}
		polls++

		snapshot, err := c.extractor.ExtractSnapshot(verifyCtx, target)
		if err != nil {
			lastErr = err
			continue
		}
		last = &snapshot
		lastErr = nil

		if Matches(snapshot, expectation) {
			c.logger.Debug().
				Str("label", label).
				Str("mode", expectation.Mode.String()).
				Int("rows", snapshot.Len()).
				Int("polls", polls).
				Dur("elapsed", time.Since(startTime)).
				Msg("Table matches expectation")
			return nil
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("verification %q cancelled: %w", label, ctx.Err())
	}

	c.capturer.Capture(ctx, label)

	verr := &models.VerificationError{
		Label:    label,
		Expected: fmt.Sprintf("%d row(s)", len(expectation.Rows)),
		Err:      lastErr,
	}
	if last == nil {
		verr.Reason = fmt.Sprintf("no table snapshot could be extracted within %s", timeout)
		verr.Actual = "no snapshot"
		if lastErr != nil {
			verr.Reason += ": " + lastErr.Error()
		}
	} else {
		verr.Reason = fmt.Sprintf("table did not match in %s mode within %s: %s", expectation.Mode, timeout, FirstDifference(*last, expectation))
		verr.Actual = fmt.Sprintf("%d row(s)", last.Len())
	}

	logEvent := c.logger.Error().
		Str("label", label).
		Str("mode", expectation.Mode.String()).
		Int("expected_rows", len(expectation.Rows)).
		Int("polls", polls).
		Dur("timeout", timeout)
	if last != nil {
		logEvent.Int("actual_rows", last.Len()).Strs("actual", rowStrings(last.Rows))
	}
	logEvent.Msg("Table verification timed out")

	return verr
}

// Matches reports whether snapshot satisfies expectation. Both modes require equal lengths;
// set mode compares multisets and sequence mode compares position by position.
func Matches(snapshot models.TableSnapshot, expectation models.Expectation) bool {
	if len(snapshot.Rows) != len(expectation.Rows) {
		return false
	}

	switch expectation.Mode {
	case models.MatchSequence:
		for i := range expectation.Rows {
			if !snapshot.Rows[i].Equal(expectation.Rows[i]) {
				return false
			}
		}
		return true
	default:
		counts := make(map[string]int, len(expectation.Rows))
		for _, row := range expectation.Rows {
			counts[row.Key()]++
		}
		for _, row := range snapshot.Rows {
			key := row.Key()
			if counts[key] == 0 {
				return false
			}
			counts[key]--
		}
		return true
	}
}

// FirstDifference describes the first row that keeps snapshot from matching expectation
func FirstDifference(snapshot models.TableSnapshot, expectation models.Expectation) string {
	if expectation.Mode == models.MatchSequence {
		n := min(len(snapshot.Rows), len(expectation.Rows))
		for i := 0; i < n; i++ {
			if !snapshot.Rows[i].Equal(expectation.Rows[i]) {
				return fmt.Sprintf("row %d expected %s, got %s", i+1, expectation.Rows[i], snapshot.Rows[i])
			}
		}
	} else {
		counts := make(map[string]int, len(snapshot.Rows))
		for _, row := range snapshot.Rows {
			counts[row.Key()]++
		}
		for _, row := range expectation.Rows {
			key := row.Key()
			if counts[key] == 0 {
				return fmt.Sprintf("missing row %s", row)
			}
			counts[key]--
		}
		for _, row := range snapshot.Rows {
			key := row.Key()
			if counts[key] > 0 {
				return fmt.Sprintf("unexpected row %s", row)
			}
		}
	}

	switch {
	case len(snapshot.Rows) > len(expectation.Rows):
		return fmt.Sprintf("unexpected row %s", snapshot.Rows[len(expectation.Rows)])
	case len(snapshot.Rows) < len(expectation.Rows):
		return fmt.Sprintf("missing row %s", expectation.Rows[len(snapshot.Rows)])
	default:
		return "no difference"
	}
}

// checkFieldSet rejects expectations whose rows do not carry exactly the table columns
func checkFieldSet(expectation models.Expectation, columns []string) error {
	for i, row := range expectation.Rows {
		if !models.SameFieldSet(row.Fields(), columns) {
			return fmt.Errorf("%w: expected row %d has fields %v, table columns are %v",
				models.ErrFieldSetMismatch, i+1, row.Fields(), columns)
		}
	}
	return nil
}

func rowStrings(rows []models.Record) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.String()
	}
	return out
}

// IsFieldSetMismatch reports whether err is a caller field set error
func IsFieldSetMismatch(err error) bool {
	return errors.Is(err, models.ErrFieldSetMismatch)
}
