package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"histcli/internal/config"
	"histcli/internal/dataset"
	apierrors "histcli/internal/errors"
	"histcli/internal/infrastructure"
	"histcli/internal/middleware"
	"histcli/internal/services"
	httptransport "histcli/internal/transport/http"
	"histcli/internal/websocket"
)

// Version is stamped at build time.
var Version = "dev"

// App is the composition root of the web server: configuration, logging,
// metrics, the data service, the websocket hub and the HTTP router.
type App struct {
	config  *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	hub     *websocket.Hub
	service *services.DataService
	router  chi.Router
	server  *http.Server
}

// New loads configuration from the environment and builds the application.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an explicit configuration.
func NewWithConfig(cfg *config.Config) (*App, error) {
	paths := config.PathsFromConfig(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := infrastructure.GetMetrics()
	hub := websocket.NewHub(logger)

	builder := dataset.NewBuilder(logger,
		dataset.WithWorkers(cfg.Dataset.Workers()),
		dataset.WithProgress(hub.BroadcastProgress))

	service := services.NewDataService(paths.PricesDir, logger,
		services.WithBuilder(builder),
		services.WithMetrics(metrics))

	a := &App{
		config:  cfg,
		paths:   paths,
		logger:  logger.With(slog.String("component", "app")),
		metrics: metrics,
		hub:     hub,
		service: service,
	}
	a.router = a.setupRouter(logger)
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

func (a *App) setupRouter(logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.Compress(5))

	limiter := middleware.NewRateLimiter(
		a.config.Server.RateLimitRPS, a.config.Server.RateLimitBurst, logger)
	r.Use(limiter.Handler)

	errorHandler := apierrors.NewErrorHandler(logger)
	dataHandler := httptransport.NewDataHandler(a.service, logger, errorHandler)
	healthHandler := httptransport.NewHealthHandler(a.service, logger, Version)

	r.Mount("/api", dataHandler.Routes())
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/healthz/ready", healthHandler.ReadinessCheck)
	r.Handle("/metrics", a.metrics.Handler())
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWS(a.hub, logger, w, req)
	})

	return r
}

// Router exposes the HTTP handler, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Service exposes the data service, mainly for tests.
func (a *App) Service() *services.DataService {
	return a.service
}

// Run starts the hub and the HTTP server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.hub.Start()
	defer a.hub.Stop()

	// Build the initial dataset. A failure is logged but does not prevent
	// startup; the dataset can be rebuilt through the API once the source
	// files are fixed.
	if _, err := a.service.Reload(ctx); err != nil {
		a.logger.WarnContext(ctx, "initial dataset build failed, serving without data",
			slog.String("error", err.Error()))
		a.hub.BroadcastBuildError(err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}
	return nil
}
