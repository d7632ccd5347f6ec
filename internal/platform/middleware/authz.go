// Copyright (c) 2026 Film8X. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/respond"
	"github.com/film8x/film8x/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenStr string) (*sec.AuthClaims, error)
}

// IdentitySource resolves the CURRENT identity of a user id from storage.
//
// # Freshness Contract
//
// The returned identity must reflect the role as stored NOW, not as it was
// when any token was issued. Demotions and promotions therefore apply on the
// very next request. A nil identity with nil error means the account no
// longer exists (the token outlived the user).
type IdentitySource interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the access token, then resolves the
// caller's identity fresh from storage.
//
// # Flow
//  1. Read the access token from the 'accessToken' cookie; fall back to the
//     'Authorization: Bearer <token>' header when the cookie is absent.
//  2. If neither is present, the request proceeds as anonymous.
//  3. Verify the JWT. Expired tokens and malformed tokens fail with DISTINCT
//     error codes so clients know whether the refresh flow can help.
//  4. Look up the user id from the claims in storage. Missing accounts are
//     rejected: a valid token is worthless once its user is deleted.
//  5. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, users IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction (cookie first, bearer fallback) ───────────
			tokenStr, err := extractAccessToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				respond.Error(writer, request, mapVerifyError(err))
				return
			}

			// ── 4. Fresh Identity Resolution ──────────────────────────────────
			identity, err := users.ResolveIdentity(request.Context(), claims.UserID())
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Account no longer exists"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractAccessToken returns the raw access token from the request, or an
// empty string for anonymous requests.
//
// The cookie wins over the header so browser sessions cannot be shadowed by
// a stale Authorization header left in a client.
func extractAccessToken(request *http.Request) (string, error) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}

	return parts[1], nil
}

// mapVerifyError translates token service errors to the API error taxonomy.
func mapVerifyError(err error) error {
	switch err {
	case sec.ErrTokenExpired:
		return apperr.TokenExpired()
	default:
		return apperr.TokenMalformed()
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the target using [sec.Role.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
//
// The role checked here is the one resolved from storage during
// [Authenticate], so revoked privileges take effect immediately.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
