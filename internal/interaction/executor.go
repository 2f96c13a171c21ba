// Package interaction performs UI actions against named targets with bounded retry and diagnostics.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
)

var errTextMismatch = errors.New("text does not contain expected substring")

// actionOptions tunes a single action
type actionOptions struct {
	attempts int
	settle   time.Duration
}

// Option configures one action call
type Option func(*actionOptions)

// WithAttempts overrides the policy's attempt count for this action
func WithAttempts(n int) Option {
	return func(o *actionOptions) {
		o.attempts = n
	}
}

// WithSettle waits d after the action succeeds, letting debounced UI logic run
func WithSettle(d time.Duration) Option {
	return func(o *actionOptions) {
		o.settle = d
	}
}

// Executor performs actions on a Surface. On exhausted retries it captures diagnostics
// once and returns an *models.InteractionError.
type Executor struct {
	surface  interfaces.Surface
	capturer interfaces.Capturer
	policy   *RetryPolicy
	logger   arbor.ILogger
}

// NewExecutor creates an interaction executor
func NewExecutor(surface interfaces.Surface, capturer interfaces.Capturer, policy *RetryPolicy, logger arbor.ILogger) *Executor {
	if policy == nil {
		policy = NewRetryPolicy()
	}
	return &Executor{
		surface:  surface,
		capturer: capturer,
		policy:   policy,
		logger:   logger,
	}
}

// Click clicks the target
func (e *Executor) Click(ctx context.Context, target interfaces.Target, label string, opts ...Option) error {
	o := e.options(opts)
	err := e.do(ctx, label, o.attempts, func(actx context.Context) error {
		return e.surface.Click(actx, target)
	})
	if err != nil {
		return err
	}
	return settle(ctx, o.settle)
}

// Fill replaces the value of the target, then waits settle before the value is considered committed.
// A zero settle proceeds immediately.
func (e *Executor) Fill(ctx context.Context, target interfaces.Target, value, label string, settleDelay time.Duration) error {
	o := e.options(nil)
	err := e.do(ctx, label, o.attempts, func(actx context.Context) error {
		return e.surface.Fill(actx, target, value)
	})
	if err != nil {
		return err
	}
	return settle(ctx, settleDelay)
}

// SelectByValue picks the option whose value attribute equals value
func (e *Executor) SelectByValue(ctx context.Context, target interfaces.Target, value, label string, opts ...Option) error {
	o := e.options(opts)
	err := e.do(ctx, label, o.attempts, func(actx context.Context) error {
		return e.surface.SelectByValue(actx, target, value)
	})
	if err != nil {
		return err
	}
	return settle(ctx, o.settle)
}

// ReadText returns the trimmed visible text of the target
func (e *Executor) ReadText(ctx context.Context, target interfaces.Target, label string) (string, error) {
	var text string
	err := e.do(ctx, label, 0, func(actx context.Context) error {
		t, err := e.surface.Text(actx, target)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(t)
		return nil
	})
	return text, err
}

// VerifyContains checks that the target's text contains expected. The text is re-read within
// the attempt budget so late-rendered messages are tolerated. A found element with the wrong
// text yields *models.VerificationError; an element that cannot be read yields *models.InteractionError.
func (e *Executor) VerifyContains(ctx context.Context, target interfaces.Target, expected, label string) error {
	var lastText string
	mismatch := false

	attempts, err := e.policy.Execute(ctx, e.logger, 0, func(actx context.Context) error {
		text, err := e.surface.Text(actx, target)
		if err != nil {
			mismatch = false
			return err
		}
		lastText = strings.TrimSpace(text)
		if !strings.Contains(lastText, expected) {
			mismatch = true
			return errTextMismatch
		}
		mismatch = false
		return nil
	})
	if err == nil {
		e.logger.Debug().Str("label", label).Str("text", lastText).Msg("Text verified")
		return nil
	}

	e.capturer.Capture(ctx, label)

	if mismatch {
		e.logger.Error().
			Str("label", label).
			Str("expected", expected).
			Str("actual", lastText).
			Msg("Text verification failed")
		return &models.VerificationError{
			Label:    label,
			Reason:   "text does not contain expected substring",
			Expected: fmt.Sprintf("%q", expected),
			Actual:   fmt.Sprintf("%q", lastText),
		}
	}

	e.logger.Error().Str("label", label).Str("target", target.String()).Err(err).Msg("Interaction failed")
	return &models.InteractionError{Label: label, Attempts: attempts, Err: err}
}

// do runs one action under the retry policy and converts exhaustion into an InteractionError
func (e *Executor) do(ctx context.Context, label string, attempts int, fn func(ctx context.Context) error) error {
	e.logger.Debug().Str("label", label).Msg("Performing action")

	made, err := e.policy.Execute(ctx, e.logger, attempts, fn)
	if err == nil {
		return nil
	}

	e.logger.Error().Str("label", label).Int("attempts", made).Err(err).Msg("Interaction failed")
	e.capturer.Capture(ctx, label)
	return &models.InteractionError{Label: label, Attempts: made, Err: err}
}

func (e *Executor) options(opts []Option) actionOptions {
	o := actionOptions{attempts: e.policy.MaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// settle pauses for d unless ctx ends first
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
