// Copyright (c) 2026 Film8X. All rights reserved.

// Package auth implements the identity domain of the Film8X platform:
// registration, login, session refresh, and admin user management.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the identity system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"

	"github.com/film8x/film8x/internal/platform/sec"
)

// User represents a registered member of the Film8X platform.
//
// # Rules
//   - Username is unique and URL-safe.
//   - Email is unique, validated, and stored lowercase.
//   - PasswordHash is generated via Bcrypt exclusively via the Service.
//   - Role defaults to 'user'; only admins can change it afterwards.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is the client-facing projection of an account.
//
// Registration responses use this shape: it never contains credentials or a
// session, because registering does not log the user in.
type PublicProfile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     sec.Role `json:"role"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Identity returns the request-scoped identity view of the user.
func (u *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// RoleCounts aggregates how many accounts hold each role.
// Used by the admin user listing.
type RoleCounts struct {
	Admins     int `json:"admins"`
	Moderators int `json:"moderators"`
	Users      int `json:"users"`
	Total      int `json:"total"`
}
