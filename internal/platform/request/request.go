// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package requestutil extracts typed data out of incoming HTTP requests: JSON
bodies, chi route parameters, and the authenticated caller planted by the
middleware chain.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/platform/validate"
)

/*
DecodeJSON decodes the request body into target.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the named chi route parameter ("" when absent).
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Identity returns the authenticated caller, or nil for anonymous requests.
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity returns the authenticated caller or an UNAUTHORIZED error.

The identity carries the role resolved from storage for this request, so
handlers may trust it for authorization decisions.
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	if identity := ctxutil.GetIdentity(request.Context()); identity != nil {
		return identity, nil
	}
	return nil, apperr.Unauthorized("Authentication required")
}

// RequiredUserID is RequiredIdentity narrowed to the caller's id.
func RequiredUserID(request *http.Request) (string, error) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		return "", err
	}
	return identity.UserID, nil
}
