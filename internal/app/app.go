package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/analysis"
	"github.com/chrissnell/routedelay/internal/constants"
	"github.com/chrissnell/routedelay/internal/horizon"
	"github.com/chrissnell/routedelay/internal/log"
	"github.com/chrissnell/routedelay/internal/managers"
	"github.com/chrissnell/routedelay/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Flight dataset and weather source are shared by every analysis
	dm, err := managers.NewDatasetManager(ctx, &wg, a.configProvider, a.logger)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(dm.Store, dm.Weather, a.logger)

	// Initialize the controller manager
	cm, err := managers.NewControllerManager(ctx, &wg, a.configProvider, analyzer, a.logger)
	if err != nil {
		cancel()
		wg.Wait()
		return err
	}
	err = cm.StartControllers()
	if err != nil {
		cancel()
		wg.Wait()
		return err
	}

	log.Infow("routedelay started", "version", constants.Version, "dataset_end", horizon.DatasetEnd.Format(horizon.DateLayout))

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
