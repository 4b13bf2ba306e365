package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/routedelay/internal/analysis"
	"github.com/chrissnell/routedelay/internal/log"
	"github.com/chrissnell/routedelay/pkg/config"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	analyzer   *analysis.Analyzer
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, analyzer *analysis.Analyzer, logger *zap.SugaredLogger) (*Controller, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("REST server requires an analyzer")
	}

	ctrl := &Controller{
		ctx:      ctx,
		wg:       wg,
		analyzer: analyzer,
		logger:   logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}
	ctrl.restConfig = rc

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server controller on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(log.HTTPMiddleware)

	router.HandleFunc("/airports", c.handlers.GetAirports).Methods(http.MethodGet)
	router.HandleFunc("/horizons", c.handlers.GetHorizons).Methods(http.MethodGet)
	router.HandleFunc("/analyze", c.handlers.GetAnalysis).Methods(http.MethodGet)
	router.HandleFunc("/weather", c.handlers.GetWeather).Methods(http.MethodGet)

	// Exports
	router.HandleFunc("/diagram.png", c.handlers.GetDiagramPNG).Methods(http.MethodGet)
	router.HandleFunc("/diagram.pdf", c.handlers.GetDiagramPDF).Methods(http.MethodGet)
	router.HandleFunc("/report.xlsx", c.handlers.GetReport).Methods(http.MethodGet)

	router.HandleFunc("/debug/requests", c.handlers.GetRequestLog).Methods(http.MethodGet)

	return router
}
