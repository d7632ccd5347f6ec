// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package middleware provides the cross-cutting HTTP chain wrapped around every
Film8X route.

The chain gives each request a trace identity, a scoped structured logger, a
per-client token bucket, panic containment, and the CORS policy for the web
client. Domain handlers below the chain never deal with any of this.
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/ctxutil"
)

// # Request Tracing

// RequestID ensures every request carries a correlation ID, minting a
// time-sortable UUID v7 when the client did not supply one.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			traceID := request.Header.Get(constants.HeaderXRequestID)
			if traceID == "" {
				traceID = newTraceID()
			}

			writer.Header().Set(constants.HeaderXRequestID, traceID)
			ctx := ctxutil.WithRequestID(request.Context(), traceID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func newTraceID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	// NewV7 only fails if the entropy source does; fall back to v4.
	return uuid.New().String()
}

// # Activity Logging

// responseTap observes the status code and body size written downstream.
type responseTap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (tap *responseTap) WriteHeader(code int) {
	tap.status = code
	tap.ResponseWriter.WriteHeader(code)
}

func (tap *responseTap) Write(body []byte) (int, error) {
	written, err := tap.ResponseWriter.Write(body)
	tap.bytes += written
	return written, err
}

/*
StructuredLogger emits one log line per finished request and plants a
request-scoped logger (pre-tagged with request_id, method, path, ip) into the
context for downstream handlers.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			scoped := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), scoped)
			// The identity scope lets this middleware see the caller that
			// Authenticate resolves further down the chain.
			ctx = ctxutil.WithIdentityScope(ctx)
			tap := &responseTap{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(tap, request.WithContext(ctx))

			attrs := []any{
				slog.Int("status", tap.status),
				slog.Int("bytes", tap.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if identity := ctxutil.GetIdentity(ctx); identity != nil {
				attrs = append(attrs, slog.String("user_id", identity.UserID))
			}

			scoped.Log(ctx, levelFor(tap.status), "http_request_finished", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

// limiterPool holds one token bucket per client IP.
type limiterPool struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// allow reports whether the client identified by ip may proceed, creating a
// bucket on first sight.
func (pool *limiterPool) allow(ip string) bool {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	bucket, known := pool.buckets[ip]
	if !known {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(
				rate.Limit(constants.DefaultRateLimitRPS),
				constants.DefaultRateLimitBurst,
			),
		}
		pool.buckets[ip] = bucket
	}
	bucket.lastSeen = time.Now()

	return bucket.limiter.Allow()
}

// prune drops buckets that have been idle longer than the client TTL.
func (pool *limiterPool) prune() {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	for ip, bucket := range pool.buckets {
		if time.Since(bucket.lastSeen) > constants.RateLimitClientTTL {
			delete(pool.buckets, ip)
		}
	}
}

/*
RateLimit applies a per-IP token bucket to every request. The janitor
goroutine pruning idle buckets stops when the supplied context is cancelled,
which the entrypoint does on shutdown.
*/
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	pool := &limiterPool{buckets: make(map[string]*clientBucket)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				pool.prune()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !pool.allow(RealIP(request)) {
				reject(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery converts downstream panics into logged 500 responses so a
// single bad request cannot take the process down.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				cause := recover()
				if cause == nil {
					return
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"panic_recovered",
					slog.Any("error", cause),
					slog.String("stack", string(debug.Stack())),
				)
				reject(writer, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the slice of configuration the CORS policy needs.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

/*
CORS applies the browser cross-origin policy: any origin in development,
film8x.app plus the configured extra origins in production. Credentials are
always allowed because the session tokens travel in HttpOnly cookies.
*/
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if originAllowed(cfg, origin) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	if strings.HasSuffix(origin, "film8x.app") {
		return true
	}
	for _, allowed := range cfg.AllowedOrigins() {
		if origin == allowed {
			return true
		}
	}
	return false
}

// # Middleware Helpers

// RealIP extracts the client address, preferring the proxy headers set by
// the edge over the raw socket peer.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}

// reject writes a minimal JSON error in the same shape the respond package
// uses for its error envelope.
func reject(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
