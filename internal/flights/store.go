// Package flights runs the route aggregate queries over the flight-records dataset.
package flights

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/pkg/config"
)

// ErrDatasetNotFound is returned when none of the configured dataset locations exist
var ErrDatasetNotFound = errors.New("flight dataset not found")

// Store answers count queries against a flight-records dataset
type Store interface {
	// Count returns the number of flights of q matching outcome o
	Count(ctx context.Context, q Query, o Outcome) (int64, error)
	// ArrivalDelays returns the arrival delay, in minutes, of every completed flight of q
	ArrivalDelays(ctx context.Context, q Query) ([]float64, error)
	Close() error
}

// NewStore creates the store selected by the dataset configuration
func NewStore(cfg config.DatasetData, logger *zap.SugaredLogger) (Store, error) {
	switch cfg.Backend {
	case "", config.DatasetBackendSQLite:
		return NewSQLiteStore(cfg.Paths, logger)
	case config.DatasetBackendTimescaleDB:
		return NewTimescaleStore(cfg.ConnectionString, logger)
	default:
		return nil, fmt.Errorf("unsupported dataset backend: %s", cfg.Backend)
	}
}
