package interaction

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/common"
)

// RetryPolicy defines bounded retry with exponential backoff for UI actions
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	// AttemptTimeout bounds one attempt (locate + act); zero means only the caller's context applies
	AttemptTimeout time.Duration
}

// NewRetryPolicy creates a default retry policy
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:       3,
		InitialBackoff:    300 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
		AttemptTimeout:    5 * time.Second,
	}
}

// RetryPolicyFrom builds a policy from the interaction configuration
func RetryPolicyFrom(config common.InteractionConfig) *RetryPolicy {
	defaults := NewRetryPolicy()
	policy := &RetryPolicy{
		MaxAttempts:       config.Attempts,
		InitialBackoff:    common.ParseDurationOr(config.RetryPause, defaults.InitialBackoff),
		MaxBackoff:        common.ParseDurationOr(config.MaxRetryPause, defaults.MaxBackoff),
		BackoffMultiplier: config.BackoffMultiplier,
		AttemptTimeout:    common.ParseDurationOr(config.AttemptTimeout, defaults.AttemptTimeout),
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if policy.BackoffMultiplier < 1 {
		policy.BackoffMultiplier = defaults.BackoffMultiplier
	}
	return policy
}

// CalculateBackoff returns the pause after the given zero-based attempt, with ±25% jitter
func (p *RetryPolicy) CalculateBackoff(attempt int) time.Duration {
	backoff := float64(p.InitialBackoff) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if backoff > float64(p.MaxBackoff) {
		backoff = float64(p.MaxBackoff)
	}

	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoff += jitter

	if backoff < 0 {
		backoff = float64(p.InitialBackoff)
	}

	return time.Duration(backoff)
}

// Execute runs fn until it succeeds, attempts are exhausted, or ctx is done.
// attempts <= 0 uses MaxAttempts. It returns the number of attempts made and the last error.
func (p *RetryPolicy) Execute(ctx context.Context, logger arbor.ILogger, attempts int, fn func(ctx context.Context) error) (int, error) {
	if attempts <= 0 {
		attempts = p.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = p.attempt(ctx, fn)
		if lastErr == nil {
			return attempt + 1, nil
		}

		// Cancellation of the scenario is not transient
		if ctx.Err() != nil {
			return attempt + 1, lastErr
		}

		if attempt < attempts-1 {
			backoff := p.CalculateBackoff(attempt)
			logger.Debug().
				Int("attempt", attempt+1).
				Int("max_attempts", attempts).
				Err(lastErr).
				Dur("backoff", backoff).
				Msg("Retrying after backoff")

			select {
			case <-ctx.Done():
				return attempt + 1, lastErr
			case <-time.After(backoff):
			}
		}
	}

	logger.Warn().
		Int("max_attempts", attempts).
		Err(lastErr).
		Msg("All retry attempts exhausted")

	return attempts, lastErr
}

func (p *RetryPolicy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx)
}
