package managers

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/flights"
	"github.com/chrissnell/routedelay/internal/metar"
	"github.com/chrissnell/routedelay/pkg/config"
)

// DatasetManager owns the flight store and the weather source shared by every analysis
type DatasetManager struct {
	Store   flights.Store
	Weather metar.Lookup
}

// NewDatasetManager opens the configured flight dataset and weather client. The store is
// closed when ctx is cancelled.
func NewDatasetManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*DatasetManager, error) {
	dc, err := configProvider.GetDatasetConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading dataset configuration: %v", err)
	}

	store, err := flights.NewStore(*dc, logger)
	if err != nil {
		return nil, fmt.Errorf("could not open %s flight dataset: %w", dc.Backend, err)
	}

	weather, err := newWeatherLookup(configProvider, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("closing flight dataset...")
		if err := store.Close(); err != nil {
			logger.Errorf("error closing flight dataset: %v", err)
		}
	}()

	return &DatasetManager{Store: store, Weather: weather}, nil
}

func newWeatherLookup(configProvider config.ConfigProvider, logger *zap.SugaredLogger) (metar.Lookup, error) {
	wc, err := configProvider.GetWeatherConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading weather configuration: %v", err)
	}

	if !wc.IsEnabled() {
		logger.Info("weather lookups disabled by configuration")
		return metar.Disabled{}, nil
	}

	timeout, err := wc.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	return metar.NewClient(wc.APIEndpoint, timeout, logger), nil
}
