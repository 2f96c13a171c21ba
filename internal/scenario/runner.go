package scenario

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/common"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
)

// Recorder times the steps of one scenario into its result
type Recorder struct {
	result *models.ScenarioResult
	logger arbor.ILogger
}

// Step runs fn and records its duration under name, whether or not it fails
func (r *Recorder) Step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	r.result.AddStep(name, elapsed)
	r.logger.Info().
		Str("scenario", r.result.Scenario).
		Str("step", name).
		Dur("duration", elapsed).
		Bool("ok", err == nil).
		Msg("Step finished")
	return err
}

// SetRegistered records how many rows were registered through the form
func (r *Recorder) SetRegistered(n int) {
	r.result.Registered = n
}

// PrepareFunc brings the page to a clean state before a scenario
type PrepareFunc func(ctx context.Context) error

// Runner executes scenarios and converts their terminal errors into results exactly once
type Runner struct {
	runID   string
	storage interfaces.RunStorage
	prepare PrepareFunc
	logger  arbor.ILogger
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithStorage persists every result in the run history
func WithStorage(storage interfaces.RunStorage) RunnerOption {
	return func(r *Runner) {
		r.storage = storage
	}
}

// WithPrepare runs fn before each scenario, e.g. to reload the page
func WithPrepare(fn PrepareFunc) RunnerOption {
	return func(r *Runner) {
		r.prepare = fn
	}
}

// NewRunner creates a runner with a fresh run ID
func NewRunner(logger arbor.ILogger, opts ...RunnerOption) *Runner {
	r := &Runner{
		runID:  common.NewRunID(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies all results produced by this runner
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes one scenario and returns its result
func (r *Runner) Run(ctx context.Context, scenario Scenario) *models.ScenarioResult {
	result := &models.ScenarioResult{
		ID:        common.NewResultID(),
		RunID:     r.runID,
		Scenario:  scenario.Name(),
		Source:    scenario.Source(),
		StartedAt: time.Now(),
	}
	steps := &Recorder{result: result, logger: r.logger}

	r.logger.Info().
		Str("scenario", result.Scenario).
		Str("run_id", r.runID).
		Str("source", result.Source).
		Msg("Scenario started")

	var err error
	if r.prepare != nil {
		err = steps.Step("prepare", func() error { return r.prepare(ctx) })
	}
	if err == nil {
		err = scenario.Run(ctx, steps)
	}
	result.FinishedAt = time.Now()

	if err != nil {
		result.Status = models.ScenarioFailed
		result.Error = err.Error()
		result.ErrorKind = models.ErrorKindOf(err)
		r.logger.Error().
			Str("scenario", result.Scenario).
			Str("kind", result.ErrorKind).
			Int("registered", result.Registered).
			Dur("duration", result.Duration()).
			Err(err).
			Msg("Scenario failed")
	} else {
		result.Status = models.ScenarioPassed
		r.logger.Info().
			Str("scenario", result.Scenario).
			Int("registered", result.Registered).
			Dur("duration", result.Duration()).
			Msg("Scenario passed")
	}

	if r.storage != nil {
		if err := r.storage.SaveResult(context.WithoutCancel(ctx), result); err != nil {
			r.logger.Warn().Str("id", result.ID).Err(err).Msg("Failed to save scenario result")
		}
	}

	return result
}

// RunAll runs scenarios in order. A failed scenario does not stop the others.
func (r *Runner) RunAll(ctx context.Context, scenarios ...Scenario) []*models.ScenarioResult {
	results := make([]*models.ScenarioResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		if ctx.Err() != nil {
			break
		}
		results = append(results, r.Run(ctx, scenario))
	}
	return results
}
