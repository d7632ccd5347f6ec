// Copyright (c) 2026 Film8X. All rights reserved.

package movie

import (
	"context"
	"errors"

	"github.com/film8x/film8x/pkg/pagination"
)

// ErrStatusConflict reports a lost compare-and-swap: the movie's status
// changed concurrently between the caller's read and the transition attempt.
var ErrStatusConflict = errors.New("movie: status changed concurrently")

// MovieRepository defines the data access contract for the movie catalogue.
//
// # Concurrency Contract
//
// Every mutating method on counters or status is ATOMIC at the database
// level: either a single UPDATE statement whose expressions all read the old
// row state, or an explicit transaction. Callers never do read-modify-write
// across statements.
//
// # Implementations
//
// The canonical implementation for Film8X is PostgreSQL (store_postgres.go).
type MovieRepository interface {
	// List returns a page of movies matching the filter, newest first,
	// along with the total count for the filter.
	//
	// viewerID (may be empty) populates the per-caller HasLiked/HasDisliked
	// flags on each returned movie.
	List(ctx context.Context, filter Filter, page pagination.Params, viewerID string) ([]*Movie, int, error)

	// ListFeatured returns up to limit active, featured movies, newest first.
	ListFeatured(ctx context.Context, limit int, viewerID string) ([]*Movie, error)

	// FindByID returns the movie with the given ID.
	// Returns a wrapped pgx.ErrNoRows if absent.
	FindByID(ctx context.Context, id string, viewerID string) (*Movie, error)

	// FindBySlug returns the movie with the given slug.
	FindBySlug(ctx context.Context, slug string, viewerID string) (*Movie, error)

	// Create persists a brand-new movie.
	//
	// Uniqueness of slug and youtube id is enforced by database constraints;
	// violations bubble up raw for the service to classify.
	Create(ctx context.Context, m *Movie) error

	// UpdateContent persists edits to the content fields AND appends one
	// history entry in the same transaction. The write compare-and-swaps on
	// from, the status the caller observed when it loaded the movie, so an
	// edit racing a moderation decision loses with [ErrStatusConflict]
	// instead of silently overwriting the verdict. The movie's Status field
	// is written as-is (the service decides whether an edit resets it to
	// pending).
	UpdateContent(ctx context.Context, m *Movie, from Status, entry *HistoryEntry) error

	// TransitionStatus atomically moves a movie from one moderation state to
	// another via compare-and-swap on the previous status, appending exactly
	// one history entry in the same transaction.
	//
	// Returns [ErrStatusConflict] when the CAS misses: the movie exists but
	// its status is no longer `from` (a concurrent transition won).
	// Returns a wrapped pgx.ErrNoRows when the movie does not exist.
	TransitionStatus(ctx context.Context, id string, from, to Status, reason string, entry *HistoryEntry) (*Movie, error)

	// Delete permanently removes a movie and its dependent rows.
	Delete(ctx context.Context, id string) error

	// DeleteByUploader removes every movie uploaded by userID.
	// Used by the account-deletion cascade. Returns the number removed.
	DeleteByUploader(ctx context.Context, userID string) (int, error)

	// IncrementViews bumps the view counter by one (atomic SQL increment).
	IncrementViews(ctx context.Context, id string) error

	// ToggleLike flips the caller's like in ONE atomic statement:
	// liking removes any existing dislike; counters never drop below zero.
	ToggleLike(ctx context.Context, movieID, userID string) (*EngagementState, error)

	// ToggleDislike is the mirror of [ToggleLike].
	ToggleDislike(ctx context.Context, movieID, userID string) (*EngagementState, error)

	// Rate upserts the caller's rating (1-5) and recomputes the denormalized
	// sum/count inside a single transaction.
	Rate(ctx context.Context, movieID, userID string, value int) (*RatingSummary, error)

	// AddComment appends a viewer comment.
	AddComment(ctx context.Context, comment *Comment) error

	// ListComments returns all comments for a movie, newest first.
	ListComments(ctx context.Context, movieID string) ([]*Comment, error)

	// History returns the full append-only edit history, oldest first.
	History(ctx context.Context, movieID string) ([]*HistoryEntry, error)

	// CountByStatus aggregates per-status totals, optionally restricted to
	// one uploader (empty uploaderID = whole catalogue).
	CountByStatus(ctx context.Context, uploaderID string) (*StatusCounts, error)

	// Stats aggregates catalogue-wide statistics for the admin listing.
	Stats(ctx context.Context) (*CatalogueStats, error)
}

// ViewMarker deduplicates view counting per (movie, client) pair.
//
// # Why Redis?
//
// Markers are pure TTL state with no durability requirement: losing them
// only means a view might count twice. That profile belongs in the cache,
// not the primary database.
type ViewMarker interface {
	// MarkViewed records that clientKey viewed movieID and reports whether
	// this is the FIRST view inside the dedup window.
	MarkViewed(ctx context.Context, movieID, clientKey string) (bool, error)
}
