// Copyright (c) 2026 Film8X. All rights reserved.

// Service layer for the movie catalogue.
//
// # Architecture
//
// The service enforces every access-control and lifecycle rule of the
// catalogue: role checks via [sec.Can], ownership checks against the
// uploader, the moderation state machine, and the append-only audit trail.
// It is technology-agnostic and does not know about HTTP or SQL.
package movie

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/ctxutil"
	"github.com/film8x/film8x/internal/platform/dberr"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/internal/platform/validate"
	"github.com/film8x/film8x/pkg/pagination"
	"github.com/film8x/film8x/pkg/slug"
	"github.com/film8x/film8x/pkg/uuid"
	"github.com/film8x/film8x/pkg/youtube"
)

// # Service Layer

// Service orchestrates the business logic for the movie catalogue.
type Service struct {
	movieRepo  MovieRepository
	viewMarker ViewMarker
}

// NewService constructs a new [Service] with its required repositories.
func NewService(movieRepo MovieRepository, viewMarker ViewMarker) *Service {
	return &Service{
		movieRepo:  movieRepo,
		viewMarker: viewMarker,
	}
}

// viewerID extracts the caller's user id, or "" for anonymous viewers.
func viewerID(identity *sec.Identity) string {
	if identity == nil {
		return ""
	}
	return identity.UserID
}

// # Catalogue Discovery

/*
List retrieves a paginated and filtered collection of movies.

Description: This is the public catalogue query. Anonymous and
regular-role callers are pinned to 'active' status regardless of what the
filter asks for; only admins may browse other states through this path.

Parameters:
  - ctx: context.Context
  - identity: The caller (nil for anonymous).
  - filter: Criteria for status, category, search, exclusion.
  - page: Pagination window.

Returns:
  - []*Movie: Slice of matching movies, newest first.
  - int: Total count matching the filter (for pagination metadata).
  - error: Validation or repository level errors.
*/
func (service *Service) List(ctx context.Context, identity *sec.Identity, filter Filter, page pagination.Params) ([]*Movie, int, error) {
	// Default and clamp the status filter.
	if filter.Status == "" {
		filter.Status = StatusActive
	}
	if !filter.Status.IsValid() {
		return nil, 0, validate.RequiredError(FieldStatus, "Unknown status filter")
	}

	// Non-admins only ever see the public catalogue through this endpoint.
	if filter.Status != StatusActive && (identity == nil || !sec.Can(identity.Role, sec.ActionTransitionStatus)) {
		filter.Status = StatusActive
	}

	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, 0, validate.RequiredError(FieldCategory, "Unknown category")
	}

	movies, total, err := service.movieRepo.List(ctx, filter, page, viewerID(identity))
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Movie")
	}

	return movies, total, nil
}

// ListFeatured returns the homepage carousel: active, featured movies only.
func (service *Service) ListFeatured(ctx context.Context, identity *sec.Identity) ([]*Movie, error) {
	movies, err := service.movieRepo.ListFeatured(ctx, constants.FeaturedListLimit, viewerID(identity))
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return movies, nil
}

/*
Get fetches a single movie by UUID or SEO slug and counts the view.

Description: Pending and rejected movies are only visible to their uploader
and to admins. The view counter is bumped atomically in SQL, but only once
per dedup window per client: a Redis TTL marker suppresses repeat counts
from page reloads.

Parameters:
  - ctx: context.Context
  - identity: The caller (nil for anonymous).
  - identifier: UUID or slug.
  - clientKey: Stable client fingerprint (user id, or IP for anonymous).

Returns:
  - *Movie: The hydrated movie with per-caller engagement flags.
  - error: NOT_FOUND when absent or not visible to this caller.
*/
func (service *Service) Get(ctx context.Context, identity *sec.Identity, identifier, clientKey string) (*Movie, error) {
	// Identity format detection: UUID hits the primary key, anything else
	// resolves via the unique slug.
	var (
		m   *Movie
		err error
	)
	if isUUID(identifier) {
		m, err = service.movieRepo.FindByID(ctx, identifier, viewerID(identity))
	} else {
		m, err = service.movieRepo.FindBySlug(ctx, identifier, viewerID(identity))
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	// Visibility: non-active movies exist only for their uploader and admins.
	// Others get the SAME NOT_FOUND as a missing id, leaking nothing.
	if m.Status != StatusActive && !service.canSee(identity, m) {
		return nil, apperr.NotFound("Movie")
	}

	// Count the view, deduplicated per (movie, client).
	service.countView(ctx, m, clientKey)

	return m, nil
}

// canSee reports whether the caller may read a non-active movie.
func (service *Service) canSee(identity *sec.Identity, m *Movie) bool {
	if identity == nil {
		return false
	}
	if sec.Can(identity.Role, sec.ActionEditAnyContent) {
		return true
	}
	return m.UploadedBy == identity.UserID
}

// countView bumps the view counter unless this client was counted recently.
// Marker or counter failures are logged and swallowed: view accounting must
// never break a read.
func (service *Service) countView(ctx context.Context, m *Movie, clientKey string) {
	if clientKey == "" || m.Status != StatusActive {
		return
	}

	logger := ctxutil.GetLogger(ctx)

	first, err := service.viewMarker.MarkViewed(ctx, m.ID, clientKey)
	if err != nil {
		logger.WarnContext(ctx, "view_marker_failed", slog.Any("error", err))
		return
	}
	if !first {
		return
	}

	if err := service.movieRepo.IncrementViews(ctx, m.ID); err != nil {
		logger.WarnContext(ctx, "view_increment_failed", slog.Any("error", err))
		return
	}
	m.Views++
}

// UploadsListing is the moderator's own-uploads view with per-status counts.
type UploadsListing struct {
	Movies []*Movie      `json:"movies"`
	Counts *StatusCounts `json:"counts"`
	Total  int           `json:"-"`
}

// MyUploads returns the caller's own uploads across all statuses.
func (service *Service) MyUploads(ctx context.Context, identity *sec.Identity, page pagination.Params) (*UploadsListing, error) {
	if !sec.Can(identity.Role, sec.ActionCreateContent) {
		return nil, apperr.Forbidden("Moderator role required")
	}

	movies, total, err := service.movieRepo.List(ctx, Filter{Uploader: identity.UserID}, page, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	counts, err := service.movieRepo.CountByStatus(ctx, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	return &UploadsListing{Movies: movies, Counts: counts, Total: total}, nil
}

// Pending returns the moderation review queue (moderator and above).
func (service *Service) Pending(ctx context.Context, identity *sec.Identity, page pagination.Params) ([]*Movie, int, error) {
	if !sec.Can(identity.Role, sec.ActionCreateContent) {
		return nil, 0, apperr.Forbidden("Moderator role required")
	}

	movies, total, err := service.movieRepo.List(ctx, Filter{Status: StatusPending}, page, identity.UserID)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Movie")
	}

	return movies, total, nil
}

// AdminListing is the admin catalogue view with aggregate statistics.
type AdminListing struct {
	Movies []*Movie        `json:"movies"`
	Stats  *CatalogueStats `json:"statistics"`
	Total  int             `json:"-"`
}

// AdminList returns movies of ANY status plus catalogue-wide statistics.
func (service *Service) AdminList(ctx context.Context, identity *sec.Identity, filter Filter, page pagination.Params) (*AdminListing, error) {
	if !sec.Can(identity.Role, sec.ActionTransitionStatus) {
		return nil, apperr.Forbidden("Admin role required")
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, validate.RequiredError(FieldStatus, "Unknown status filter")
	}

	movies, total, err := service.movieRepo.List(ctx, filter, page, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	stats, err := service.movieRepo.Stats(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	return &AdminListing{Movies: movies, Stats: stats, Total: total}, nil
}

// # Content Management

// CreateInput holds the uploader-controlled fields of a new movie.
//
// Status, uploader, and counters are NOT here: the caller cannot choose them.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	YouTubeURL  string
	Thumbnail   string
	Duration    string
	Year        *int
	Director    string
	Cast        []string
}

/*
Create registers a new movie submission.

Description: Performs deep business validation, derives the YouTube id from
the URL, generates the slug from the title, and persists the movie in the
mandatory initial 'pending' state with the caller as uploader.

Returns:
  - *Movie: The persisted entity.
  - error: FORBIDDEN below moderator role; VALIDATION_ERROR for bad fields;
    CONFLICT when the slug or video is already in the catalogue.
*/
func (service *Service) Create(ctx context.Context, identity *sec.Identity, input CreateInput) (*Movie, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if !sec.Can(identity.Role, sec.ActionCreateContent) {
		return nil, apperr.Forbidden("Moderator role required to upload movies")
	}

	// ── 2. Business Validation ────────────────────────────────────────────

	title := strings.TrimSpace(input.Title)
	youtubeID := youtube.ExtractID(strings.TrimSpace(input.YouTubeURL))

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, 200)
	validator.Required(FieldDescription, input.Description).MaxLen(FieldDescription, input.Description, 1000)
	validator.Required(FieldCategory, input.Category).
		Custom(FieldCategory, input.Category != "" && !Category(input.Category).IsValid(), "Unknown category")
	validator.Required(FieldYouTubeURL, input.YouTubeURL).
		Custom(FieldYouTubeID, input.YouTubeURL != "" && youtubeID == "", "Not a recognisable YouTube URL")
	if input.Year != nil {
		validator.Range(FieldYear, *input.Year, 1900, time.Now().Year())
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	thumbnail := strings.TrimSpace(input.Thumbnail)
	if thumbnail == "" {
		thumbnail = youtube.ThumbnailURL(youtubeID)
	}

	duration := strings.TrimSpace(input.Duration)
	if duration == "" {
		duration = "0:00"
	}

	m := &Movie{
		ID:          uuid.New(),
		Slug:        slug.From(title),
		Title:       title,
		Description: input.Description,
		Category:    Category(input.Category),
		Tags:        cleanList(input.Tags, 50),
		YouTubeURL:  input.YouTubeURL,
		YouTubeID:   youtubeID,
		Thumbnail:   thumbnail,
		Duration:    duration,
		Status:      StatusPending, // Rule: every upload awaits moderation
		Year:        input.Year,
		Director:    strings.TrimSpace(input.Director),
		Cast:        cleanList(input.Cast, 100),
		UploadedBy:  identity.UserID,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.movieRepo.Create(ctx, m); err != nil {
		switch {
		case dberr.IsUniqueViolation(err, "ux_movie_slug"):
			return nil, apperr.Conflict("A movie with this title already exists")
		case dberr.IsUniqueViolation(err, "ux_movie_youtubeid"):
			return nil, apperr.Conflict("This video is already in the catalogue")
		}
		return nil, dberr.Wrap(err, "Movie")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "movie_created",
		slog.String("movie_id", m.ID),
		slog.String("uploader_id", identity.UserID),
	)

	return m, nil
}

// UpdateInput carries the editable content fields of a movie.
//
// # Allow-List
//
// Pointer fields distinguish "not sent" (nil) from "set to empty". Status,
// uploader, counters, and featured flag are deliberately ABSENT: they cannot
// be smuggled through the edit path.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
	YouTubeURL  *string
	Thumbnail   *string
	Duration    *string
	Year        *int
	Director    *string
	Cast        *[]string
}

/*
Update applies a partial edit to a movie's content fields.

Description: Moderators may edit only their own uploads; admins may edit
any. A non-admin edit forces the movie back to 'pending' regardless of its
prior state, so re-moderation is unavoidable. Every edit appends exactly one
history entry naming the actor, the UTC timestamp, and the changed fields.

Returns:
  - *Movie: The updated entity.
  - error: NOT_FOUND, FORBIDDEN, VALIDATION_ERROR, or CONFLICT
    (slug/video collision with another movie).
*/
func (service *Service) Update(ctx context.Context, identity *sec.Identity, id string, input UpdateInput) (*Movie, error) {
	// ── 1. Load & Authorize ───────────────────────────────────────────────

	m, err := service.movieRepo.FindByID(ctx, id, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	isAdmin := sec.Can(identity.Role, sec.ActionEditAnyContent)
	if !isAdmin {
		if !sec.Can(identity.Role, sec.ActionEditOwnContent) || m.UploadedBy != identity.UserID {
			return nil, apperr.Forbidden("You can only edit your own uploads")
		}
	}

	// ── 2. Apply the Allow-List ───────────────────────────────────────────

	changed := service.applyEdits(m, input)
	if len(changed) == 0 {
		return nil, validate.RequiredError("body", "No editable fields in request")
	}

	if err := service.validateEdited(m); err != nil {
		return nil, err
	}

	// ── 3. Moderation Reset ───────────────────────────────────────────────

	// observedStatus pins the status this edit was computed against; the
	// repository compare-and-swaps on it so a concurrent moderation wins.
	observedStatus := m.Status

	// Rule: any non-admin edit sends the movie back through review.
	statusNote := ""
	if !isAdmin && m.Status != StatusPending {
		m.Status = StatusPending
		m.StatusReason = ""
		statusNote = "; status reset to pending"
	}

	// ── 4. Audit & Persist ────────────────────────────────────────────────

	entry := &HistoryEntry{
		ID:       uuid.New(),
		MovieID:  m.ID,
		EditedBy: identity.UserID,
		EditedAt: time.Now().UTC(),
		Changes:  "updated " + strings.Join(changed, ", ") + statusNote,
	}

	if err := service.movieRepo.UpdateContent(ctx, m, observedStatus, entry); err != nil {
		switch {
		case err == ErrStatusConflict:
			return nil, apperr.Conflict("Movie status was changed by someone else, reload and retry")
		case dberr.IsUniqueViolation(err, "ux_movie_slug"):
			return nil, apperr.Conflict("A movie with this title already exists")
		case dberr.IsUniqueViolation(err, "ux_movie_youtubeid"):
			return nil, apperr.Conflict("This video is already in the catalogue")
		}
		return nil, dberr.Wrap(err, "Movie")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "movie_updated",
		slog.String("movie_id", m.ID),
		slog.String("actor_id", identity.UserID),
		slog.String("changes", entry.Changes),
	)

	return m, nil
}

// applyEdits copies the provided fields onto the entity and returns the
// sorted names of the fields that actually changed.
func (service *Service) applyEdits(m *Movie, input UpdateInput) []string {
	changed := map[string]bool{}

	if input.Title != nil && strings.TrimSpace(*input.Title) != m.Title {
		m.Title = strings.TrimSpace(*input.Title)
		m.Slug = slug.From(m.Title)
		changed[FieldTitle] = true
	}
	if input.Description != nil && *input.Description != m.Description {
		m.Description = *input.Description
		changed[FieldDescription] = true
	}
	if input.Category != nil && Category(*input.Category) != m.Category {
		m.Category = Category(*input.Category)
		changed[FieldCategory] = true
	}
	if input.Tags != nil {
		m.Tags = cleanList(*input.Tags, 50)
		changed[FieldTags] = true
	}
	if input.YouTubeURL != nil && *input.YouTubeURL != m.YouTubeURL {
		m.YouTubeURL = *input.YouTubeURL
		if id := youtube.ExtractID(*input.YouTubeURL); id != "" {
			m.YouTubeID = id
		}
		changed[FieldYouTubeURL] = true
	}
	if input.Thumbnail != nil && *input.Thumbnail != m.Thumbnail {
		m.Thumbnail = *input.Thumbnail
		changed[FieldThumbnail] = true
	}
	if input.Duration != nil && *input.Duration != m.Duration {
		m.Duration = *input.Duration
		changed[FieldDuration] = true
	}
	if input.Year != nil {
		m.Year = input.Year
		changed[FieldYear] = true
	}
	if input.Director != nil && strings.TrimSpace(*input.Director) != m.Director {
		m.Director = strings.TrimSpace(*input.Director)
		changed[FieldDirector] = true
	}
	if input.Cast != nil {
		m.Cast = cleanList(*input.Cast, 100)
		changed[FieldCast] = true
	}

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validateEdited re-runs the creation rules against the edited entity.
func (service *Service) validateEdited(m *Movie) error {
	youtubeID := youtube.ExtractID(m.YouTubeURL)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, m.Title).MaxLen(FieldTitle, m.Title, 200)
	validator.Required(FieldDescription, m.Description).MaxLen(FieldDescription, m.Description, 1000)
	validator.Custom(FieldCategory, !m.Category.IsValid(), "Unknown category")
	validator.Custom(FieldYouTubeID, youtubeID == "", "Not a recognisable YouTube URL")
	if m.Year != nil {
		validator.Range(FieldYear, *m.Year, 1900, time.Now().Year())
	}
	return validator.Err()
}

/*
SetStatus renders an admin moderation verdict.

Description: Implements the compare-and-swap transition. The caller states
the verdict ('active' to approve, 'rejected' to reject); the current status
read from storage is the CAS precondition. When a concurrent admin wins the
race, the loser gets CONFLICT and must re-read.

Rules:
  - approve: pending|rejected → active (reason cleared)
  - reject:  pending|active   → rejected (reason REQUIRED)
  - Self-transitions and unknown statuses are VALIDATION_ERROR.

Exactly one history entry is appended per successful transition.
*/
func (service *Service) SetStatus(ctx context.Context, identity *sec.Identity, id string, target Status, reason string) (*Movie, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if !sec.Can(identity.Role, sec.ActionTransitionStatus) {
		return nil, apperr.Forbidden("Admin role required")
	}

	// ── 2. Verdict Validation ─────────────────────────────────────────────

	if !target.IsValid() || target == StatusPending {
		return nil, validate.RequiredError(FieldStatus, "Status must be 'active' or 'rejected'")
	}

	reason = strings.TrimSpace(reason)
	if target == StatusRejected && reason == "" {
		return nil, validate.RequiredError(FieldStatusReason, "A reason is required to reject a movie")
	}
	if target == StatusActive {
		reason = ""
	}

	// ── 3. CAS Precondition ───────────────────────────────────────────────

	current, err := service.movieRepo.FindByID(ctx, id, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	if !current.Status.CanTransitionTo(target) {
		return nil, validate.RequiredError(FieldStatus,
			fmt.Sprintf("Cannot move a %s movie to %s", current.Status, target))
	}

	// ── 4. Atomic Transition + Audit ──────────────────────────────────────

	changes := fmt.Sprintf("status %s -> %s", current.Status, target)
	if reason != "" {
		changes += " (" + reason + ")"
	}
	entry := &HistoryEntry{
		ID:       uuid.New(),
		MovieID:  id,
		EditedBy: identity.UserID,
		EditedAt: time.Now().UTC(),
		Changes:  changes,
	}

	updated, err := service.movieRepo.TransitionStatus(ctx, id, current.Status, target, reason, entry)
	if err != nil {
		if err == ErrStatusConflict {
			return nil, apperr.Conflict("Movie status was changed by someone else, reload and retry")
		}
		return nil, dberr.Wrap(err, "Movie")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "movie_status_changed",
		slog.String("movie_id", id),
		slog.String("actor_id", identity.UserID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(target)),
	)

	return updated, nil
}

/*
Delete removes a movie from the catalogue.

Rules:
  - Admins delete unconditionally.
  - Moderators delete only their OWN uploads, and only while the movie is
    not 'active' (published content is withdrawn via rejection, keeping the
    audit trail, not by silent deletion).
*/
func (service *Service) Delete(ctx context.Context, identity *sec.Identity, id string) error {
	m, err := service.movieRepo.FindByID(ctx, id, identity.UserID)
	if err != nil {
		return dberr.Wrap(err, "Movie")
	}

	if !sec.Can(identity.Role, sec.ActionDeleteAnyContent) {
		if !sec.Can(identity.Role, sec.ActionDeleteOwnContent) || m.UploadedBy != identity.UserID {
			return apperr.Forbidden("You can only delete your own uploads")
		}
		if m.Status == StatusActive {
			return apperr.Forbidden("Published movies can only be removed by an admin")
		}
	}

	if err := service.movieRepo.Delete(ctx, id); err != nil {
		return dberr.Wrap(err, "Movie")
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "movie_deleted",
		slog.String("movie_id", id),
		slog.String("actor_id", identity.UserID),
	)

	return nil
}

// DeleteByUploader implements the account-deletion cascade contract
// consumed by the identity domain.
func (service *Service) DeleteByUploader(ctx context.Context, userID string) (int, error) {
	return service.movieRepo.DeleteByUploader(ctx, userID)
}

// History returns the full edit history of a movie (admin only).
func (service *Service) History(ctx context.Context, identity *sec.Identity, id string) ([]*HistoryEntry, error) {
	if !sec.Can(identity.Role, sec.ActionTransitionStatus) {
		return nil, apperr.Forbidden("Admin role required")
	}

	// Confirm the movie exists so an empty history is distinguishable from
	// a bad id.
	if _, err := service.movieRepo.FindByID(ctx, id, identity.UserID); err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	entries, err := service.movieRepo.History(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	return entries, nil
}

// # Engagement

// ToggleLike flips the caller's like on an active movie.
//
// The whole toggle (membership flip, opposite-set removal, both counters)
// happens in one atomic statement in the repository, so two concurrent
// toggles can never double-count.
func (service *Service) ToggleLike(ctx context.Context, identity *sec.Identity, id string) (*EngagementState, error) {
	if err := service.requireActiveMovie(ctx, identity, id); err != nil {
		return nil, err
	}

	state, err := service.movieRepo.ToggleLike(ctx, id, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return state, nil
}

// ToggleDislike is the mirror of [ToggleLike].
func (service *Service) ToggleDislike(ctx context.Context, identity *sec.Identity, id string) (*EngagementState, error) {
	if err := service.requireActiveMovie(ctx, identity, id); err != nil {
		return nil, err
	}

	state, err := service.movieRepo.ToggleDislike(ctx, id, identity.UserID)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return state, nil
}

// Rate records the caller's 1-5 rating on an active movie.
// Re-rating replaces the previous value (upsert), never double-counts.
func (service *Service) Rate(ctx context.Context, identity *sec.Identity, id string, value int) (*RatingSummary, error) {
	if value < 1 || value > 5 {
		return nil, validate.RequiredError(FieldRating, "Rating must be between 1 and 5")
	}

	if err := service.requireActiveMovie(ctx, identity, id); err != nil {
		return nil, err
	}

	summary, err := service.movieRepo.Rate(ctx, id, identity.UserID, value)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return summary, nil
}

// AddComment appends a viewer comment to an active movie.
func (service *Service) AddComment(ctx context.Context, identity *sec.Identity, id, text string) (*Comment, error) {
	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	if err := validator.Required(FieldComment, text).MaxLen(FieldComment, text, 500).Err(); err != nil {
		return nil, err
	}

	if err := service.requireActiveMovie(ctx, identity, id); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        uuid.New(),
		MovieID:   id,
		UserID:    identity.UserID,
		Username:  identity.Username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := service.movieRepo.AddComment(ctx, comment); err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}

	return comment, nil
}

// Comments returns all comments on a movie, newest first.
func (service *Service) Comments(ctx context.Context, identity *sec.Identity, id string) ([]*Comment, error) {
	m, err := service.movieRepo.FindByID(ctx, id, viewerID(identity))
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	if m.Status != StatusActive && !service.canSee(identity, m) {
		return nil, apperr.NotFound("Movie")
	}

	comments, err := service.movieRepo.ListComments(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Movie")
	}
	return comments, nil
}

// requireActiveMovie checks that the target exists, is visible, and is
// 'active' — engagement on unpublished content is rejected.
func (service *Service) requireActiveMovie(ctx context.Context, identity *sec.Identity, id string) error {
	m, err := service.movieRepo.FindByID(ctx, id, identity.UserID)
	if err != nil {
		return dberr.Wrap(err, "Movie")
	}
	if m.Status != StatusActive {
		if !service.canSee(identity, m) {
			return apperr.NotFound("Movie")
		}
		return apperr.Forbidden("Movie is not published")
	}
	return nil
}

// # Helpers

// cleanList trims entries, drops empties, and enforces a per-entry length cap.
func cleanList(values []string, maxLen int) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if len(trimmed) > maxLen {
			trimmed = trimmed[:maxLen]
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}

// isUUID reports whether the identifier looks like a canonical UUID.
func isUUID(identifier string) bool {
	if len(identifier) != 36 {
		return false
	}
	for i, r := range identifier {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !isHex {
				return false
			}
		}
	}
	return true
}
