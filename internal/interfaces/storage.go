package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/tablecheck/internal/models"
)

// ErrResultNotFound is returned when a scenario result is not in the run history
var ErrResultNotFound = errors.New("scenario result not found")

// RunStorage persists scenario results
type RunStorage interface {
	// SaveResult inserts or replaces a result by ID
	SaveResult(ctx context.Context, result *models.ScenarioResult) error

	// GetResult returns a result by ID, or ErrResultNotFound
	GetResult(ctx context.Context, id string) (*models.ScenarioResult, error)

	// ListResults returns results newest first; empty scenario lists all, limit <= 0 means no limit
	ListResults(ctx context.Context, scenario string, limit int) ([]*models.ScenarioResult, error)

	// ListRun returns every result recorded under one run ID
	ListRun(ctx context.Context, runID string) ([]*models.ScenarioResult, error)

	Close() error
}
