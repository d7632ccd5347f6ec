// Copyright (c) 2026 Film8X. All rights reserved.

// Package ctxutil reads and writes the per-request values Film8X keeps in
// [context.Context]: the correlation id, the request-scoped logger, and the
// authenticated caller.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/film8x/film8x/internal/platform/ctxkey"
	"github.com/film8x/film8x/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation id, or "" before the tracing
// middleware has run.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to the process
// default so callers never nil-check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// identitySlot is a mutable cell holding the authenticated caller. The
// indirection lets middleware installed AHEAD of authentication (the
// request logger) observe the identity resolved further down the chain,
// where derived contexts are invisible to it.
type identitySlot struct {
	identity *sec.Identity
}

// WithIdentityScope plants an empty identity slot. The request logger calls
// this before delegating so the eventual identity shows up in its log line.
func WithIdentityScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeyIdentity, &identitySlot{})
}

// WithIdentity attaches the authenticated caller, filling the enclosing
// slot when one exists. The identity carries the role resolved from storage
// for THIS request, not whatever role the token was issued under.
func WithIdentity(ctx context.Context, identity *sec.Identity) context.Context {
	if slot, ok := ctx.Value(ctxkey.KeyIdentity).(*identitySlot); ok {
		slot.identity = identity
		return ctx
	}
	return context.WithValue(ctx, ctxkey.KeyIdentity, &identitySlot{identity: identity})
}

// GetIdentity returns the authenticated caller, or nil for anonymous
// requests.
func GetIdentity(ctx context.Context) *sec.Identity {
	if slot, ok := ctx.Value(ctxkey.KeyIdentity).(*identitySlot); ok {
		return slot.identity
	}
	return nil
}
