// Copyright (c) 2026 Film8X. All rights reserved.

// Command api boots the Film8X HTTP API server: logger, configuration,
// PostgreSQL, Redis, migrations, domain wiring, then the server itself with
// graceful shutdown. No business logic lives here; everything is explicit
// constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/film8x/film8x/internal/api"
	"github.com/film8x/film8x/internal/core/movie"
	"github.com/film8x/film8x/internal/platform/config"
	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/migration"
	pgstore "github.com/film8x/film8x/internal/platform/postgres"
	redisstore "github.com/film8x/film8x/internal/platform/redis"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/users/auth"
)

// startupDeadline bounds dependency dialing so a bad DSN fails fast
// instead of hanging the deploy.
const startupDeadline = 30 * time.Second

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}
	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// appCtx outlives startup: the rate limiter's janitor goroutine runs on
	// it until shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	startupCtx, startupCancel := context.WithTimeout(appCtx, startupDeadline)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	cache, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if closeErr := cache.Close(); closeErr != nil {
			log.Error("redis_close_failed", slog.Any("error", closeErr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health Probes ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return pgstore.Ping(context.Background(), pool) },
		CheckCache:    func() error { return redisstore.Ping(context.Background(), cache) },
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	// The movie service doubles as the account-deletion cascade for the
	// identity domain, and the auth service doubles as the per-request
	// identity source for the middleware.
	movieService := movie.NewService(movie.NewMovieRepository(pool), movie.NewViewMarker(cache))
	authService := auth.NewService(auth.NewUserRepository(pool), tokens, movieService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, tokens, authService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cfg.SecureCookies()),
		Movie:     movie.NewHandler(movieService),
	})

	// ── 10. Run Until Signalled ───────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serverErr <- serveErr
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("server_draining", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must terminates the process on a startup wiring failure. After startup,
// every error is returned and handled explicitly instead.
func must(log *slog.Logger, err error, step string) {
	if err == nil {
		return
	}
	log.Error("startup_failed",
		slog.String("step", step),
		slog.Any("error", err),
	)
	os.Exit(1)
}
