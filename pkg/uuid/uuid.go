// Copyright (c) 2026 Film8X. All rights reserved.

// Package uuid mints the string identifiers used as primary keys across
// Film8X. Version 7 UUIDs are time-sortable, which keeps the PostgreSQL
// B-tree indexes append-friendly.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. Generation only fails when the
// system entropy source does, which is not a condition worth surviving.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}
	return id.String()
}
