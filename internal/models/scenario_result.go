package models

import "time"

// ScenarioStatus is the terminal outcome of a scenario run
type ScenarioStatus string

const (
	ScenarioPassed ScenarioStatus = "passed"
	ScenarioFailed ScenarioStatus = "failed"
)

// StepTiming records how long one scenario step took
type StepTiming struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
}

// ScenarioResult is persisted in the run history after every scenario
type ScenarioResult struct {
	ID         string         `json:"id" badgerhold:"key"`
	RunID      string         `json:"run_id" badgerhold:"index"`
	Scenario   string         `json:"scenario" badgerhold:"index"`
	Status     ScenarioStatus `json:"status"`
	Source     string         `json:"source,omitempty"` // Dataset path
	Registered int            `json:"registered"`
	Steps      []StepTiming   `json:"steps,omitempty"`
	Error      string         `json:"error,omitempty"`
	ErrorKind  string         `json:"error_kind,omitempty"` // data_format, interaction, verification, parse, other
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Passed reports whether the scenario succeeded
func (r *ScenarioResult) Passed() bool {
	return r.Status == ScenarioPassed
}

// Duration returns the wall time of the run
func (r *ScenarioResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// AddStep appends a step timing
func (r *ScenarioResult) AddStep(name string, d time.Duration) {
	r.Steps = append(r.Steps, StepTiming{Name: name, DurationMs: d.Milliseconds()})
}

// ErrorKindOf classifies err into the scenario error taxonomy
func ErrorKindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDataFormatError(err):
		return "data_format"
	case IsInteractionError(err):
		return "interaction"
	case IsVerificationError(err):
		return "verification"
	case IsParseError(err):
		return "parse"
	default:
		return "other"
	}
}
