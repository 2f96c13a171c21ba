package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RunStorage implements interfaces.RunStorage on badgerhold
type RunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.RunStorage = (*RunStorage)(nil)

// NewRunStorage creates a run history store over an open database
func NewRunStorage(db *BadgerDB, logger arbor.ILogger) *RunStorage {
	return &RunStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RunStorage) SaveResult(ctx context.Context, result *models.ScenarioResult) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	if result.ID == "" {
		return fmt.Errorf("result ID is required")
	}

	if err := s.db.Store().Upsert(result.ID, result); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	s.logger.Debug().
		Str("id", result.ID).
		Str("scenario", result.Scenario).
		Str("status", string(result.Status)).
		Msg("Scenario result saved")
	return nil
}

func (s *RunStorage) GetResult(ctx context.Context, id string) (*models.ScenarioResult, error) {
	var result models.ScenarioResult
	if err := s.db.Store().Get(id, &result); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrResultNotFound, id)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

func (s *RunStorage) ListResults(ctx context.Context, scenario string, limit int) ([]*models.ScenarioResult, error) {
	query := badgerhold.Where("ID").Ne("")
	if scenario != "" {
		query = badgerhold.Where("Scenario").Eq(scenario)
	}
	query = query.SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []models.ScenarioResult
	if err := s.db.Store().Find(&results, query); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return toPointers(results), nil
}

func (s *RunStorage) ListRun(ctx context.Context, runID string) ([]*models.ScenarioResult, error) {
	var results []models.ScenarioResult
	query := badgerhold.Where("RunID").Eq(runID).SortBy("StartedAt")
	if err := s.db.Store().Find(&results, query); err != nil {
		return nil, fmt.Errorf("failed to list run %s: %w", runID, err)
	}
	return toPointers(results), nil
}

func (s *RunStorage) Close() error {
	return s.db.Close()
}

func toPointers(results []models.ScenarioResult) []*models.ScenarioResult {
	out := make([]*models.ScenarioResult, len(results))
	for i := range results {
		out[i] = &results[i]
	}
	return out
}
