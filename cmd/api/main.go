// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkraiem/facture-saas/internal/admin"
	"github.com/mkraiem/facture-saas/internal/analytics"
	"github.com/mkraiem/facture-saas/internal/audit"
	"github.com/mkraiem/facture-saas/internal/auth"
	"github.com/mkraiem/facture-saas/internal/company"
	"github.com/mkraiem/facture-saas/internal/config"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/health"
	"github.com/mkraiem/facture-saas/internal/ingest"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/middleware"
	"github.com/mkraiem/facture-saas/internal/ocr"
	"github.com/mkraiem/facture-saas/internal/plan"
	"github.com/mkraiem/facture-saas/internal/server"
	"github.com/mkraiem/facture-saas/internal/subscription"
	"github.com/mkraiem/facture-saas/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if err := core.RunMigrations(cfg.Database); err != nil {
		return err
	}
	logger.Info("migrations applied", "path", cfg.Database.MigrationsPath)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	auditRecorder := audit.NewRecorder(db.DB)
	auditHandler := audit.NewHandler(audit.NewRepository(db.DB))

	planRepo := plan.NewRepository(db.DB)
	planHandler := plan.NewHandler(plan.NewService(planRepo, auditRecorder))

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(db.DB, userRepo, planRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo, jwtManager, userSvc, auditRecorder, redis.Client,
	)
	authHandler := auth.NewHandler(authSvc)

	companyHandler := company.NewHandler(company.NewRepository(db.DB))

	subRepo := subscription.NewRepository(db.DB)
	subHandler := subscription.NewHandler(
		subscription.NewService(subRepo, planRepo, auditRecorder),
	)

	invoiceHandler := invoice.NewHandler(
		invoice.NewService(invoice.NewRepository(db.DB), auditRecorder),
	)

	ingestSvc := ingest.NewService(
		ocr.NewClient(cfg.OCR),
		ingest.NewStore(db.DB),
		subRepo,
	)
	ingestHandler := ingest.NewHandler(ingestSvc, cfg.Upload)

	analyticsHandler := analytics.NewHandler(
		analytics.NewService(analytics.NewRepository(db.DB)),
	)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin

	authLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			KeyFunc: middleware.KeyByIP,
		},
	).Handler

	uploadLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.UploadRequests,
				cfg.RateLimit.UploadBurst,
			),
			KeyFunc: middleware.KeyByUser,
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		companyHandler.RegisterRoutes(r, authenticator)

		planHandler.RegisterRoutes(r, authenticator)
		planHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		subHandler.RegisterRoutes(r, authenticator)
		subHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		ingestHandler.RegisterRoutes(r, authenticator, uploadLimiter)

		invoiceHandler.RegisterRoutes(r, authenticator)
		invoiceHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		analyticsHandler.RegisterRoutes(r, authenticator)
		analyticsHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		auditHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
