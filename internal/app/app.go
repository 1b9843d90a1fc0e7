package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"ecotrack/internal/config"
	"ecotrack/internal/dashboard"
	"ecotrack/internal/dataset"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
	customMiddleware "ecotrack/internal/middleware"
	"ecotrack/internal/services"
	transport "ecotrack/internal/transport/http"
	"ecotrack/internal/validation"
	ws "ecotrack/internal/websocket"
	"ecotrack/pkg/contracts"
)

// Application wires the dataset, services and HTTP server of the dashboard
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	DataPath      string
	Table         *dataset.Table
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
}

// ServiceContainer holds the services used by the handlers
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Dataset   *services.DatasetService
	Health    *services.HealthService
}

// Options configure NewApplication. DataPath defaults to the cleaned file
// of the configuration. A non-nil Table is served as is instead of loading
// DataPath. A nil OTel uses providers built from the telemetry config.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	DataPath string
	Table    *dataset.Table
	OTel     *infrastructure.OTelProviders
}

// NewApplication loads the dataset and builds the router and server. A
// missing dataset file is not fatal: the dashboard answers 503 and the
// readiness check reports not_ready until the server is restarted with data.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths.LogPathResolution(logger)

	dataPath := opts.DataPath
	if dataPath == "" {
		dataPath = paths.CleanedFile
	}

	providers := opts.OTel
	if providers == nil {
		providers, err = infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
		}
	}
	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		DataPath:      dataPath,
		Table:         opts.Table,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
	}

	if a.Table == nil {
		if err := a.loadDataset(ctx); err != nil {
			return nil, err
		}
	}

	a.initializeServices()
	if err := a.setupRouter(); err != nil {
		return nil, err
	}
	a.createServer()

	return a, nil
}

func (a *Application) loadDataset(ctx context.Context) error {
	validator := validation.NewFileValidator(a.Logger)
	if err := validator.ValidateDataFile(a.DataPath); err != nil {
		if apierrors.IsType(err, apierrors.ErrTypeNotFound) {
			a.Logger.WarnContext(ctx, "Dataset not found, serving without data",
				slog.String("path", a.DataPath),
				slog.String("hint", "run `ecotrack clean` first"))
			return nil
		}
		return fmt.Errorf("invalid dataset %s: %w", a.DataPath, err)
	}

	table, err := dataset.Load(ctx, a.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", a.DataPath, err)
	}
	a.Table = table

	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", a.DataPath),
		slog.Int("rows", table.Len()),
		slog.Int("columns", table.Width()))
	return nil
}

// initializeServices creates the services over the loaded table
func (a *Application) initializeServices() {
	hub := ws.NewHub(a.Logger, a.Metrics)
	dispatcher := dashboard.NewDispatcher(a.Logger, a.Metrics)
	dashboardService := services.NewDashboardService(a.Table, dispatcher, a.Logger)

	a.WebSocketHub = hub
	a.Services = &ServiceContainer{
		Dashboard: dashboardService,
		Dataset:   services.NewDatasetService(a.Table, a.Logger),
		Health: services.NewHealthService(services.HealthDeps{
			Version:   config.AppVersion,
			BuildTime: contracts.BuildTime,
			DataPath:  a.DataPath,
			Dataset:   dashboardService,
			Hub:       hub,
		}, a.Logger),
	}
}

// setupRouter applies the middleware chain and mounts every route.
// /ws and /metrics sit outside the timeout and compression group: the
// upgrade needs the raw connection and the exporter streams its own body.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug")
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Services.Dashboard,
		a.Config.Security.AllowedOrigins, ws.OptionsFrom(a.Config.WebSocket),
		a.Config.WebSocket.ReadBufferSize, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)
	r.Handle("/metrics", transport.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	page, err := transport.NewPageHandler(a.Services.Dashboard.Tabs(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create dashboard page: %w", err)
	}
	health := transport.NewHealthHandler(a.Services.Health, a.Logger)
	clientLogs := transport.NewClientLogHandler(a.Logger, errorHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.NewCompressionMiddleware(customMiddleware.DefaultCompressionConfig()))

		r.Method(http.MethodGet, "/", page)
		r.Route("/api", func(r chi.Router) {
			r.Mount("/dashboard", transport.NewDashboardHandler(a.Services.Dashboard, a.Logger, errorHandler).Routes())
			r.Mount("/dataset", transport.NewDatasetHandler(a.Services.Dataset, a.Logger, errorHandler).Routes())
			r.Mount("/health", health.Routes())
			r.Get("/version", health.Version)
			r.With(customMiddleware.ContentTypeValidator("application/json")).Post("/logs", clientLogs.Handle)
		})
	})

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Serve runs the hub and serves on l until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (a *Application) Serve(ctx context.Context, l net.Listener) error {
	a.WebSocketHub.Start()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", l.Addr().String()),
		slog.Bool("dataset_loaded", a.Table != nil))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})
	return g.Wait()
}

// Run listens on the configured port and serves until SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, l)
}

// Stop gracefully stops the server, the hub and the telemetry providers
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if err := a.WebSocketHub.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("websocket hub shutdown error: %w", err))
	}
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Duration("shutdown_timeout", a.Config.Server.ShutdownTimeout))
	return errors.Join(errs...)
}
