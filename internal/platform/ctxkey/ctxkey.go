// Copyright (c) 2026 Film8X. All rights reserved.

// Package ctxkey holds the typed context keys shared by the middleware
// chain and the response helpers. The unexported key type guarantees these
// entries can never collide with context values set by other packages.
package ctxkey

type key string

const (
	// KeyRequestID stores the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyIdentity stores the slot holding the authenticated caller.
	KeyIdentity key = "identity"

	// KeyLogger stores the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
