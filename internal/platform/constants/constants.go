// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package constants is the single home for Film8X's cross-cutting literals:
server timeouts, rate-limit knobs, cookie and header names, Redis key
prefixes, and engagement tunables. Anything two packages must agree on
lives here instead of being repeated at each site.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "film8x-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "film8x.app"

	// AccessTokenCookieName is the cookie carrying the short-lived access token.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName is the cookie carrying the long-lived refresh token.
	RefreshTokenCookieName = "refreshToken"

	// RefreshTokenCookiePath scopes the refresh cookie to the auth endpoints,
	// so browsers never attach the long-lived token to ordinary API calls.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData       = "data"
	FieldMeta       = "meta"
	FieldError      = "error"
	FieldCode       = "code"
	FieldDetails    = "details"
	FieldItems      = "items"
	FieldTotal      = "total"
	FieldMessage    = "message"
	FieldStatus     = "status"
	FieldStatistics = "statistics"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixViewMarker marks a (movie, client) pair that was recently
	// counted, so repeated page loads do not inflate view counters.
	RedisPrefixViewMarker = "movies:view_marker:"
)

// # Engagement Limits

const (
	// ViewMarkerTTL is how long a client's view of a movie is deduplicated.
	ViewMarkerTTL = 30 * time.Minute

	// FeaturedListLimit caps the homepage featured carousel.
	FeaturedListLimit = 8
)
