// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package apperr is the error taxonomy of the Film8X API.

Services return [*AppError] values (usually via the constructors below) for
every failure a client can act on; anything else is treated as an internal
fault. Each AppError pairs a machine code with the HTTP status it maps to,
so the transport layer never guesses. The Cause field exists for server-side
logs only and never reaches a client.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the one error type the HTTP layer understands.
type AppError struct {
	// Code is the machine-readable identifier clients switch on.
	Code string `json:"code"`
	// Message is safe to show to end users.
	Message string `json:"error"`
	// HTTPStatus is the response status this error maps to.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, kept for logging only.
	Cause error `json:"-"`
	// Details carries per-field failures on VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError names one field that failed validation and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (appError *AppError) Error() string { return appError.Message }

// Unwrap lets errors.Is and errors.As walk into the cause chain.
func (appError *AppError) Unwrap() error { return appError.Cause }

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound builds the 404 for a named resource ("Movie", "User").
func NotFound(resource string) *AppError {
	return newError("NOT_FOUND", http.StatusNotFound, resource+" not found")
}

// Unauthorized builds the 401 for requests lacking usable credentials.
func Unauthorized(msg string) *AppError {
	return newError("UNAUTHORIZED", http.StatusUnauthorized, msg)
}

// InvalidCredentials builds the 401 for failed logins. The message is
// identical whether the email is unknown or the password wrong, so callers
// cannot probe which accounts exist.
func InvalidCredentials() *AppError {
	return newError("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid email or password")
}

// TokenExpired builds the 401 that tells a client to try the refresh flow.
// It must stay distinguishable from [TokenMalformed].
func TokenExpired() *AppError {
	return newError("TOKEN_EXPIRED", http.StatusUnauthorized, "Token has expired")
}

// TokenMalformed builds the 401 for structurally invalid or wrongly-signed
// tokens. Clients hard-reject; refreshing will not help.
func TokenMalformed() *AppError {
	return newError("TOKEN_MALFORMED", http.StatusUnauthorized, "Token is invalid")
}

// Forbidden builds the 403 for authenticated callers whose role or
// ownership is insufficient.
func Forbidden(msg string) *AppError {
	return newError("FORBIDDEN", http.StatusForbidden, msg)
}

// Conflict builds the 409 for duplicates and lost concurrent updates.
func Conflict(msg string) *AppError {
	return newError("CONFLICT", http.StatusConflict, msg)
}

// ValidationError builds the 400 carrying per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := newError("VALIDATION_ERROR", http.StatusBadRequest, msg)
	appError.Details = details
	return appError
}

// # Server Errors (5xx)

// Internal wraps an unexpected fault. The cause is logged, never shown.
func Internal(cause error) *AppError {
	appError := newError("INTERNAL_ERROR", http.StatusInternalServerError, "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// Unavailable wraps a dependency outage (database, cache).
func Unavailable(cause error) *AppError {
	appError := newError("SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "Service temporarily unavailable")
	appError.Cause = cause
	return appError
}

// # Helpers

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	var appError *AppError
	return errors.As(err, &appError)
}

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// IsCode reports whether err carries the given machine code.
func IsCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
