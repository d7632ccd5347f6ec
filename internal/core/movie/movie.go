// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package movie defines the core domain of the Film8X catalogue.

It manages the lifecycle of community-submitted YouTube movies: metadata,
the moderation state machine, and viewer engagement.

Core Responsibility:

  - Catalogue: Titles, categories, YouTube references, discovery filters.
  - Moderation: The pending → active/rejected state machine with an
    append-only edit history for every change.
  - Engagement: Views, mutually-exclusive likes/dislikes, ratings, comments.

This package acts as the source of truth for all content-related data models.
*/
package movie

import (
	"time"
)

// # Domain Enums

// Status represents the moderation state of a movie.
//
// # State Machine
//
// Every upload is born 'pending'. Admin approval moves pending|rejected →
// active; admin rejection moves pending|active → rejected (with a reason).
// A non-admin edit of an active or rejected movie forces it back to pending.
type Status string

const (
	// StatusPending awaits an admin verdict; invisible to the public catalogue.
	StatusPending Status = "pending"

	// StatusActive is publicly visible and playable.
	StatusActive Status = "active"

	// StatusRejected was declined by an admin, with a reason attached.
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the moderation state machine allows
// moving from s to target.
//
//	pending  → active, rejected
//	active   → rejected
//	rejected → active
//
// Self-transitions and everything else are invalid.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusActive || target == StatusRejected
	case StatusActive:
		return target == StatusRejected
	case StatusRejected:
		return target == StatusActive
	}
	return false
}

// Category classifies a movie into the closed genre set.
type Category string

const (
	CategoryAction      Category = "action"
	CategoryComedy      Category = "comedy"
	CategoryDrama       Category = "drama"
	CategoryHorror      Category = "horror"
	CategoryRomance     Category = "romance"
	CategorySciFi       Category = "sci-fi"
	CategoryAnimation   Category = "animation"
	CategoryDocumentary Category = "documentary"
	CategoryOther       Category = "other"
)

// Categories lists every valid [Category], in display order.
func Categories() []Category {
	return []Category{
		CategoryAction,
		CategoryComedy,
		CategoryDrama,
		CategoryHorror,
		CategoryRomance,
		CategorySciFi,
		CategoryAnimation,
		CategoryDocumentary,
		CategoryOther,
	}
}

// IsValid reports whether c is a recognised [Category] value.
func (c Category) IsValid() bool {
	for _, valid := range Categories() {
		if c == valid {
			return true
		}
	}
	return false
}

// # Core Entities

// Movie is the central aggregate of the Film8X domain.
// It represents a single community-submitted YouTube movie.
type Movie struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"` // URL-safe identifier, derived from title
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags,omitempty"`

	// # YouTube Reference
	YouTubeURL string `json:"youtube_url"`
	YouTubeID  string `json:"youtube_id"` // 11-char video id, unique
	Thumbnail  string `json:"thumbnail"`
	Duration   string `json:"duration"` // Display string, e.g. "1:42:07"

	// # Moderation
	Status       Status `json:"status"`
	StatusReason string `json:"status_reason,omitempty"` // Set on rejection
	IsFeatured   bool   `json:"is_featured"`

	// # Metadata
	Year     *int     `json:"year,omitempty"`
	Director string   `json:"director,omitempty"`
	Cast     []string `json:"cast,omitempty"`

	// # Ownership
	UploadedBy string `json:"uploaded_by"`

	// # Engagement Counters (denormalized, updated atomically)
	Views       int64 `json:"views"`
	Likes       int64 `json:"likes"`
	Dislikes    int64 `json:"dislikes"`
	RatingSum   int64 `json:"-"` // Internal: sum of all rating values
	RatingCount int64 `json:"rating_count"`

	// # Per-Caller Flags (populated at read time, never stored)
	HasLiked    bool `json:"has_liked"`
	HasDisliked bool `json:"has_disliked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageRating returns the mean rating rounded to one decimal, or 0 when
// the movie has no ratings. Computed on read — the stored values are the
// raw sum and count so concurrent updates never corrupt the average.
func (m *Movie) AverageRating() float64 {
	if m.RatingCount == 0 {
		return 0
	}
	avg := float64(m.RatingSum) / float64(m.RatingCount)
	return float64(int(avg*10+0.5)) / 10
}

// Comment is a viewer comment attached to a movie (append-only).
type Comment struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"` // Denormalized for display
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is a single append-only record of who changed a movie and how.
//
// # Invariant
//
// Entries are never updated or deleted. Every content edit and every status
// transition appends EXACTLY one entry.
type HistoryEntry struct {
	ID       string    `json:"id"`
	MovieID  string    `json:"movie_id"`
	EditedBy string    `json:"edited_by"`
	EditedAt time.Time `json:"edited_at"` // Always UTC
	Changes  string    `json:"changes"`   // Human-readable change description
}

// EngagementState is the post-toggle snapshot returned to the caller.
type EngagementState struct {
	Liked    bool  `json:"liked"`
	Disliked bool  `json:"disliked"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// RatingSummary is the post-rate snapshot returned to the caller.
type RatingSummary struct {
	UserRating    int     `json:"user_rating"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

// StatusCounts aggregates a moderator's uploads per moderation state.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Active   int `json:"active"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// CatalogueStats is the aggregate block on the admin listing.
type CatalogueStats struct {
	StatusCounts
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered movie list query.
type Filter struct {
	Status    Status   `json:"status,omitempty"`   // Empty = any status (admin listings only)
	Category  Category `json:"category,omitempty"` // Empty = all categories
	Query     string   `json:"q,omitempty"`        // Substring search over title/description/slug
	ExcludeID string   `json:"exclude,omitempty"`  // Omit one movie (related-list queries)
	Uploader  string   `json:"-"`                  // Restrict to one uploader's movies
	Featured  bool     `json:"-"`                  // Only featured movies
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID           = "id"
	FieldSlug         = "slug"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldTags         = "tags"
	FieldYouTubeURL   = "youtube_url"
	FieldYouTubeID    = "youtube_id"
	FieldThumbnail    = "thumbnail"
	FieldDuration     = "duration"
	FieldStatus       = "status"
	FieldStatusReason = "status_reason"
	FieldYear         = "year"
	FieldDirector     = "director"
	FieldCast         = "cast"
	FieldRating       = "rating"
	FieldComment      = "text"
)
