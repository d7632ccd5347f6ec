// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package api is the composition root of the HTTP transport: it assembles the
chi router, the global middleware chain, the health probes, and every domain
handler group into one runnable [http.Server].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/film8x/film8x/internal/core/movie"
	"github.com/film8x/film8x/internal/platform/config"
	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/middleware"
	"github.com/film8x/film8x/internal/users/auth"
)

// Server owns the router and the underlying [http.Server]. It is built once
// in cmd/api with every dependency injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the domain handler sets the server mounts. A new domain
// adds a field here; nothing else in this package changes.
type Handlers struct {
	// Liveness answers /health: 200 whenever the process is up.
	Liveness http.HandlerFunc

	// Readiness answers /ready: 200 only when every dependency is healthy.
	Readiness http.HandlerFunc

	// Auth serves the session lifecycle and admin user management.
	Auth *auth.Handler

	// Movie serves the catalogue, moderation, and engagement surface.
	Movie *movie.Handler
}

/*
NewServer builds the router and returns the server ready to listen.

The Authenticate middleware is global but OPTIONAL: it resolves an identity
when a token is present and lets anonymous requests through untouched; the
route-level RequireAuth/RequireRole guards do the actual gating. The rate
limiter's janitor goroutine lives until ctx is cancelled.
*/
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, identities middleware.IdentitySource, h Handlers) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(log))
	router.Use(middleware.Authenticate(verifier, identities))
	router.Use(middleware.CORS(cfg))
	router.Use(chimw.CleanPath)

	// Unauthenticated probes for the orchestrator.
	router.Get("/health", h.Liveness)
	router.Get("/ready", h.Readiness)

	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/movies", h.Movie.Routes())
	})

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// ListenAndServe blocks until the server stops or fails.
func (server *Server) ListenAndServe() error {
	server.log.Info("server_listening", slog.String("addr", server.httpServer.Addr))
	return server.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests for at most the given timeout.
func (server *Server) Shutdown(timeout time.Duration) error {
	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.httpServer.Shutdown(drainCtx)
}
