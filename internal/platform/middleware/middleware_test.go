// Copyright (c) 2026 Film8X. All rights reserved.

package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/middleware"
	"github.com/film8x/film8x/internal/platform/sec"
)

// attachIdentity stands in for the authentication middleware: it resolves a
// fixed caller into a derived context, as Authenticate does.
func attachIdentity(identity *sec.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

type accessLogLine struct {
	Message string `json:"msg"`
	Status  int    `json:"status"`
	UserID  string `json:"user_id"`
}

/*
TestStructuredLogger_UserID verifies that the finished-request log line
carries the caller's id even though authentication resolves the identity
further down the chain, in a context the logger never sees directly.
*/
func TestStructuredLogger_UserID(t *testing.T) {
	okHandler := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	t.Run("authenticated_request", func(t *testing.T) {
		var logOutput bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logOutput, nil))

		caller := &sec.Identity{UserID: "user-1", Role: sec.RoleUser}
		handler := middleware.StructuredLogger(logger)(attachIdentity(caller)(okHandler))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/movies", nil))

		var line accessLogLine
		require.NoError(t, json.Unmarshal(logOutput.Bytes(), &line))
		assert.Equal(t, "http_request_finished", line.Message)
		assert.Equal(t, http.StatusOK, line.Status)
		assert.Equal(t, "user-1", line.UserID)
	})

	t.Run("anonymous_request", func(t *testing.T) {
		var logOutput bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logOutput, nil))

		handler := middleware.StructuredLogger(logger)(okHandler)
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/movies", nil))

		var line accessLogLine
		require.NoError(t, json.Unmarshal(logOutput.Bytes(), &line))
		assert.Equal(t, "http_request_finished", line.Message)
		assert.Empty(t, line.UserID)
	})
}
