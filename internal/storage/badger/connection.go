// Package badger keeps the run history: one ScenarioResult per scenario execution,
// stored through badgerhold so results can be listed by run or by scenario.
package badger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB is the open run history directory
type BadgerDB struct {
	store  *badgerhold.Store
	path   string
	logger arbor.ILogger
}

// NewBadgerDB opens the run history at config.Path. With reset_on_startup the previous
// history is discarded, so a run only lists its own results.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("run history path is required (storage.badger.path)")
	}

	if config.ResetOnStartup {
		if err := os.RemoveAll(config.Path); err != nil {
			logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to discard previous run history")
		} else {
			logger.Debug().Str("path", config.Path).Msg("Previous run history discarded")
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run history parent directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history at %s: %w", config.Path, err)
	}

	logger.Debug().Str("path", config.Path).Msg("Run history opened")
	return &BadgerDB{store: store, path: config.Path, logger: logger}, nil
}

// Store exposes the badgerhold store to the result storage
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close flushes and closes the run history
func (b *BadgerDB) Close() error {
	if b.store == nil {
		return nil
	}
	if err := b.store.Close(); err != nil {
		return fmt.Errorf("failed to close run history at %s: %w", b.path, err)
	}
	b.store = nil
	return nil
}
