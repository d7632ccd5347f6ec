// Copyright (c) 2026 Film8X. All rights reserved.

// HTTP delivery layer for the identity domain.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Session cookie management (set on login, cleared on logout).
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/middleware"
	requestutil "github.com/film8x/film8x/internal/platform/request"
	"github.com/film8x/film8x/internal/platform/respond"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/platform/validate"
	"github.com/film8x/film8x/pkg/pagination"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (Registration, Login,
// Refresh, Logout, Profile) plus the admin-only user management surface.
type Handler struct {
	authService *Service

	// secureCookies controls the Secure flag on session cookies.
	// Disabled only in development so plain-HTTP testing works.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register           : Creates a new account (no session).
//   - POST /login              : Authenticates and sets the cookie pair.
//   - POST /refresh            : Mints a new access token from the refresh cookie.
//   - POST /logout             : Clears the cookie pair (idempotent).
//   - GET  /me                 : Returns the caller's fresh profile.
//   - /admin/users/*           : Admin-only account management.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.me)
	})

	router.Route("/admin/users", func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.listUsers)
		admin.Put("/{id}/role", handler.updateUserRole)
		admin.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the public profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if email/username is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	// Validation (including the password strength policy) lives in the
	// service so every caller gets the same rules.
	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	// Registration never starts a session; the client must log in explicitly.
	respond.Created(writer, user.Public())
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the profile, and sets the
//     accessToken/refreshToken cookie pair.
//   - Writes HTTP 401 Unauthorized for bad credentials (identical message
//     for unknown email and wrong password).
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Cookie Issuance ────────────────────────────────────────────────

	handler.setAccessCookie(writer, session.AccessToken)
	handler.setRefreshCookie(writer, session.RefreshToken)

	// Tokens are ALSO returned in the body for non-browser clients that
	// prefer the Authorization: Bearer transport.
	respond.OK(writer, map[string]any{
		"access_token": session.AccessToken,
		"user":         session.User.Public(),
	})
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// # Contract
//
// Reads ONLY the refreshToken cookie (never the body or headers), verifies
// it, and sets a fresh accessToken cookie. The refresh token is not rotated.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Refresh token is missing"))
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setAccessCookie(writer, accessToken)

	respond.OK(writer, map[string]any{
		"access_token": accessToken,
	})
}

// logout handles POST /api/v1/auth/logout requests.
//
// Logout is purely client-side state removal: the stateless tokens cannot be
// revoked, so clearing the cookies is all there is to do. Always succeeds,
// even without a session (idempotent).
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.clearCookie(writer, constants.AccessTokenCookieName, "/")
	handler.clearCookie(writer, constants.RefreshTokenCookieName, constants.RefreshTokenCookiePath)

	respond.OK(writer, map[string]any{
		constants.FieldMessage: "Logged out",
	})
}

// me handles GET /api/v1/auth/me requests.
//
// The profile is re-read from storage so role changes are visible
// immediately, not on next login.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// # Admin Endpoints

// listUsers handles GET /api/v1/auth/admin/users requests.
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	roleFilter := sec.Role(request.URL.Query().Get("role"))

	listing, err := handler.authService.ListUsers(request.Context(), roleFilter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing, pagination.NewMeta(page.Page, page.Limit, listing.Total))
}

// updateRoleRequest is the JSON payload for a role change.
type updateRoleRequest struct {
	Role string `json:"role"`
}

// updateUserRole handles PUT /api/v1/auth/admin/users/{id}/role requests.
func (handler *Handler) updateUserRole(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")
	user, err := handler.authService.UpdateUserRole(request.Context(), identity, targetID, sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user.Public())
}

// deleteUser handles DELETE /api/v1/auth/admin/users/{id} requests.
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")
	if err := handler.authService.DeleteUser(request.Context(), identity, targetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "User deleted"})
}

// # Cookie Helpers

// setAccessCookie sets the short-lived access token cookie on the whole API.
func (handler *Handler) setAccessCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sec.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// setRefreshCookie sets the long-lived refresh token cookie, scoped to the
// auth endpoints so browsers never attach it to ordinary API calls.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   int(sec.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie expires a cookie immediately.
func (handler *Handler) clearCookie(writer http.ResponseWriter, name, path string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
