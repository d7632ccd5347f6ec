// Copyright (c) 2026 Film8X. All rights reserved.

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/sec"
)

/*
TestRequestID verifies the round trip and the empty fallback before the
tracing middleware has run.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies that a bare context yields the default logger and a
populated one yields the scoped logger.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	scoped := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx = ctxutil.WithLogger(ctx, scoped)
	assert.Same(t, scoped, ctxutil.GetLogger(ctx))
}

/*
TestIdentity verifies that anonymous contexts yield nil and attached
identities come back intact.
*/
func TestIdentity(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetIdentity(ctx))

	ctx = ctxutil.WithIdentity(ctx, &sec.Identity{
		UserID:   "user-123",
		Username: "carol",
		Role:     sec.RoleAdmin,
	})

	identity := ctxutil.GetIdentity(ctx)
	require.NotNil(t, identity)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, sec.RoleAdmin, identity.Role)
}
