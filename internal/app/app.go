package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"drillcli/internal/config"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/infrastructure"
	customMiddleware "drillcli/internal/middleware"
	"drillcli/internal/services"
	handlers "drillcli/internal/transport/http"
	"drillcli/pkg/contracts"
)

// AppName is reported in startup logs
const AppName = "drillcli desurvey service"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DesurveyMetrics
	ErrorHandler  *apperrors.ErrorHandler

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Desurvey *services.DesurveyService
	Planner  *services.PlannerService
	Health   *services.HealthService
}

// NewApplication wires services, router and server from cfg.
// paths may be nil; readiness then skips the output directory check.
func NewApplication(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	if paths != nil {
		if err := paths.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("failed to ensure directories: %w", err)
		}
	}

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDesurveyMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	tracer := a.OTelProviders.Tracer
	a.Services = &ServiceContainer{
		Desurvey: services.NewDesurveyService(tracer, a.Metrics, a.Logger),
		Planner:  services.NewPlannerService(tracer, a.Metrics, a.Logger),
		Health:   services.NewHealthService(a.Paths, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes.
// Order: RequestID → RealIP → OTel → Logger → Recovery → headers → CORS.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apperrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	r.Get("/health", healthHandler.HealthCheck)
	r.Get("/ready", healthHandler.ReadinessCheck)
	r.Get("/live", healthHandler.LivenessCheck)
	r.Get("/version", healthHandler.Version)

	a.setupAPIRoutes(r)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes mounts the desurvey API under /api/v1
func (a *Application) setupAPIRoutes(r chi.Router) {
	server := a.Config.Server
	desurveyHandler := handlers.NewDesurveyHandler(a.Services.Desurvey, a.Services.Planner, a.Config, a.ErrorHandler, a.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(server.RateLimit.RPS, server.RateLimit.Burst, a.Logger).Handler)
		}
		r.Use(customMiddleware.Timeout(server.RequestTimeout))
		r.Use(customMiddleware.MaxBodySize(server.MaxBodyBytes))
		r.Use(customMiddleware.ContentTypeValidator("application/json"))

		r.Mount("/", desurveyHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, handlers.RunIDHeader},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start binds the listener and serves in the background. A serve failure
// after startup is logged and cancels the application context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	a.mu.Lock()
	a.listener = ln
	a.serveErr = make(chan error, 1)
	a.mu.Unlock()

	go func() {
		err := a.Server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
			cancel()
		}
		close(a.serveErr)
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", ln.Addr().String()),
		slog.Int("workers", a.Config.Options.Workers),
		slog.Bool("rate_limit", a.Config.Server.RateLimit.Enabled))
	return nil
}

// Addr returns the bound listener address, or "" before Start
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Stop drains in-flight requests and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run starts the server and blocks until ctx ends, SIGINT or SIGTERM
// arrives, or the server fails.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	if err := a.Stop(context.Background()); err != nil {
		return err
	}

	a.mu.Lock()
	serveErr := a.serveErr
	a.mu.Unlock()
	return <-serveErr
}

// performStartupHealthCheck reports services that are not ready yet
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	status := a.Services.Health.ReadinessCheck(ctx)
	if status.Status == "ready" {
		return nil
	}

	var problems []error
	for name, svc := range status.Services {
		if sh, ok := svc.(services.ServiceHealth); ok && sh.Status != "ready" {
			problems = append(problems, fmt.Errorf("%s: %s", name, sh.Message))
		}
	}
	return errors.Join(problems...)
}
