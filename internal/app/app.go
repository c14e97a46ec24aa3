package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/neo-insight/internal/cache"
	"github.com/vadim/neo-insight/internal/config"
	httpcontroller "github.com/vadim/neo-insight/internal/controller/http"
	"github.com/vadim/neo-insight/internal/database"
	"github.com/vadim/neo-insight/internal/domain/report/dao"
	"github.com/vadim/neo-insight/internal/domain/report/entity"
	"github.com/vadim/neo-insight/internal/domain/report/policy"
	"github.com/vadim/neo-insight/internal/domain/report/scheduler"
	"github.com/vadim/neo-insight/internal/domain/report/service"
	"github.com/vadim/neo-insight/internal/httpx/upstream/instagram"
	"github.com/vadim/neo-insight/internal/httpx/upstream/twitter"
	"github.com/vadim/neo-insight/internal/httpx/upstream/youtube"
	"github.com/vadim/neo-insight/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	// Infrastructure
	store cache.Store
	redis *cache.Redis
	pg    *pgxpool.Pool

	// Domain policies (interfaces for HTTP handlers)
	reportPolicy *policy.Policy

	// Scheduler for refreshing recently requested reports
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(2 * time.Minute))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	app.initDomains()

	// Register routes
	app.registerRoutes()

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(app.reportPolicy, cfg.Scheduler.Interval, logger)
	}

	return app, nil
}

// initInfrastructure initializes the cache store and database pool. Redis is
// required; PostgreSQL is optional and its absence disables run history.
func (a *App) initInfrastructure(ctx context.Context) error {
	redisStore, err := cache.Connect(ctx, cache.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	a.redis = redisStore
	a.store = redisStore

	if a.cfg.Database.PostgresDSN != "" {
		pool, err := database.NewPostgresPool(ctx, a.cfg.Database.PostgresDSN, database.PoolSettings{
			MaxConns:     a.cfg.Database.MaxOpenConns,
			MinConns:     a.cfg.Database.MaxIdleConns,
			ConnLifetime: a.cfg.Database.ConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		a.pg = pool
	} else {
		a.logger.Warn("no database configured, run history disabled")
	}

	return nil
}

// initDomains initializes domain layers (upstream clients, service, policy)
func (a *App) initDomains() {
	providers := map[entity.Platform]service.ProviderClient{
		entity.PlatformInstagram: &instagramProviderAdapter{instagram.New(
			instagram.WithBaseURL(a.cfg.Providers.InstagramBaseURL),
			instagram.WithCredentials(a.cfg.Providers.RapidAPIKey, a.cfg.Providers.InstagramHost),
		)},
		entity.PlatformTwitter: &twitterProviderAdapter{twitter.New(
			twitter.WithBaseURL(a.cfg.Providers.TwitterBaseURL),
			twitter.WithCredentials(a.cfg.Providers.RapidAPIKey, a.cfg.Providers.TwitterHost),
		)},
		entity.PlatformYouTube: newYouTubeProviderAdapter(youtube.New(
			youtube.WithBaseURL(a.cfg.Providers.YouTubeBaseURL),
			youtube.WithCredentials(a.cfg.Providers.RapidAPIKey, a.cfg.Providers.YouTubeHost),
		)),
	}

	engine := service.NewEngine(a.cfg.Report.GrowthWindow, service.NewToneClassifier(), service.NewThemeClassifier())
	builder := service.NewBuilder(providers, engine, service.Config{
		DefaultMaxItems:    a.cfg.Report.DefaultMaxItems,
		DetailConcurrency:  a.cfg.Report.DetailConcurrency,
		EarlyStopFollowers: a.cfg.Report.EarlyStopFollowers,
	}, a.logger)

	var runs dao.RunRepository
	if a.pg != nil {
		runs = dao.NewRunPostgres(a.pg)
	}

	var archive policy.Archiver
	if a.cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3Storage(storage.S3Config{
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
		})
		if err != nil {
			a.logger.Warn("s3 archive disabled", "error", err)
		} else {
			archive = s3Store
		}
	}

	a.reportPolicy = policy.New(builder, a.store, runs, archive, policy.Config{
		CacheTTL:        a.cfg.Report.CacheTTL,
		DefaultMaxItems: a.cfg.Report.DefaultMaxItems,
		HistoryLimit:    a.cfg.Report.HistoryLimit,
	}, a.logger)
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	// Swagger UI documentation
	swaggerHandler := httpcontroller.NewSwaggerHandler("Neo-Insight Analytics API", OpenAPISpec)
	swaggerHandler.RegisterRoutes(a.router)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		reportHandler := httpcontroller.NewReportHandler(a.reportPolicy)
		reportHandler.RegisterRoutes(r)
	})
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// readyHandler reports readiness based on cache and database connectivity
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := a.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable","reason":"cache"}`))
		return
	}
	if a.pg != nil {
		if err := a.pg.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable","reason":"database"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	if a.pg != nil {
		a.pg.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", "error", err)
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
