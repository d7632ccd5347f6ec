// Copyright (c) 2026 Film8X. All rights reserved.

package auth

import (
	"context"

	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/pkg/pagination"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Film8X is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given (lowercase) email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Uniqueness of email and username is enforced by database constraints,
	// NOT by a read-then-write check: concurrent registrations with the same
	// email must race on the unique index, with exactly one winner. The loser
	// receives a wrapped unique-violation error.
	Create(ctx context.Context, user *User) error

	// List returns a page of accounts, optionally filtered by role,
	// newest first, along with the total count for that filter.
	List(ctx context.Context, role sec.Role, page pagination.Params) ([]*User, int, error)

	// CountByRole aggregates account totals per role for the admin dashboard.
	CountByRole(ctx context.Context) (*RoleCounts, error)

	// UpdateRole replaces the role of the given account.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	UpdateRole(ctx context.Context, userID string, role sec.Role) error

	// Delete permanently removes the account row.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	Delete(ctx context.Context, id string) error
}

// MoviePurger removes all catalogue entries uploaded by a user.
//
// # Why an interface?
//
// Deleting an account cascades into the movie domain. Declaring the contract
// here keeps the dependency arrow pointing outward: auth does not import the
// movie package.
type MoviePurger interface {
	// DeleteByUploader removes every movie uploaded by userID and returns
	// how many were removed.
	DeleteByUploader(ctx context.Context, userID string) (int, error)
}
