// Copyright (c) 2026 Film8X. All rights reserved.

// PostgreSQL implementation of the movie storage contract.
//
// # Concurrency Strategy
//
// Counter and membership updates (likes, dislikes, views) are single UPDATE
// statements: every CASE expression evaluates against the OLD row state, so
// the flip, the opposite-set removal, and both counters move together or not
// at all. Status transitions and rating upserts use explicit transactions.
package movie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/film8x/film8x/internal/platform/apperr"
	"github.com/film8x/film8x/pkg/pagination"
)

// PostgresMovieRepository implements the MovieRepository interface using pgx.
type PostgresMovieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository creates a new PostgreSQL implementation of the MovieRepository.
func NewMovieRepository(pool *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{pool: pool}
}

// movieColumns selects the full movie row plus the per-caller engagement
// flags. The caller binds the viewer id as the FIRST query argument ($1);
// an empty string matches nothing and both flags come back false.
const movieColumns = `
	id, slug, title, description, category, tags,
	youtubeurl, youtubeid, thumbnail, duration,
	status, statusreason, isfeatured,
	year, director, castlist, uploadedby,
	views, likes, dislikes, ratingsum, ratingcount,
	($1 <> '' AND $1 = ANY(likedby))    AS hasliked,
	($1 <> '' AND $1 = ANY(dislikedby)) AS hasdisliked,
	createdat, updatedat`

// scanMovie maps a single movie row onto a [*Movie].
func scanMovie(row pgx.Row) (*Movie, error) {
	m := &Movie{}
	err := row.Scan(
		&m.ID, &m.Slug, &m.Title, &m.Description, &m.Category, &m.Tags,
		&m.YouTubeURL, &m.YouTubeID, &m.Thumbnail, &m.Duration,
		&m.Status, &m.StatusReason, &m.IsFeatured,
		&m.Year, &m.Director, &m.Cast, &m.UploadedBy,
		&m.Views, &m.Likes, &m.Dislikes, &m.RatingSum, &m.RatingCount,
		&m.HasLiked, &m.HasDisliked,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// # Lookups

// FindByID retrieves a movie by its primary key.
func (repository *PostgresMovieRepository) FindByID(ctx context.Context, id string, viewerID string) (*Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM core.movie WHERE id = $2`

	m, err := scanMovie(repository.pool.QueryRow(ctx, query, viewerID, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_find_by_id_failed: %w", err)
	}
	return m, nil
}

// FindBySlug retrieves a movie by its unique slug.
func (repository *PostgresMovieRepository) FindBySlug(ctx context.Context, slug string, viewerID string) (*Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM core.movie WHERE slug = $2`

	m, err := scanMovie(repository.pool.QueryRow(ctx, query, viewerID, slug))
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_find_by_slug_failed: %w", err)
	}
	return m, nil
}

// List returns a filtered page of movies, newest first, with the total count.
func (repository *PostgresMovieRepository) List(ctx context.Context, filter Filter, page pagination.Params, viewerID string) ([]*Movie, int, error) {
	const query = `
		SELECT ` + movieColumns + `, COUNT(*) OVER() AS total
		FROM core.movie
		WHERE ($2 = '' OR status = $2)
		  AND ($3 = '' OR category = $3)
		  AND ($4 = '' OR title ILIKE '%' || $4 || '%'
		               OR description ILIKE '%' || $4 || '%'
		               OR slug ILIKE '%' || $4 || '%')
		  AND ($5 = '' OR id <> $5)
		  AND ($6 = '' OR uploadedby = $6)
		  AND (NOT $7::boolean OR isfeatured)
		ORDER BY createdat DESC
		LIMIT $8 OFFSET $9`

	rows, err := repository.pool.Query(ctx, query,
		viewerID,
		string(filter.Status),
		string(filter.Category),
		filter.Query,
		filter.ExcludeID,
		filter.Uploader,
		filter.Featured,
		page.Limit,
		page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_movie_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	total := 0
	for rows.Next() {
		m := &Movie{}
		if err := rows.Scan(
			&m.ID, &m.Slug, &m.Title, &m.Description, &m.Category, &m.Tags,
			&m.YouTubeURL, &m.YouTubeID, &m.Thumbnail, &m.Duration,
			&m.Status, &m.StatusReason, &m.IsFeatured,
			&m.Year, &m.Director, &m.Cast, &m.UploadedBy,
			&m.Views, &m.Likes, &m.Dislikes, &m.RatingSum, &m.RatingCount,
			&m.HasLiked, &m.HasDisliked,
			&m.CreatedAt, &m.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_movie_repo_list_scan_failed: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_movie_repo_list_rows_failed: %w", err)
	}

	return movies, total, nil
}

// ListFeatured returns the homepage carousel slice.
func (repository *PostgresMovieRepository) ListFeatured(ctx context.Context, limit int, viewerID string) ([]*Movie, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM core.movie
		WHERE status = 'active' AND isfeatured
		ORDER BY createdat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(ctx, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_list_featured_failed: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_movie_repo_list_featured_scan_failed: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_list_featured_rows_failed: %w", err)
	}

	return movies, nil
}

// # Mutations

// Create persists a new movie record into the core.movie table.
//
// Unique-violation errors bubble up UNWRAPPED in the chain so the service
// can check the violated constraint name (slug vs youtube id).
func (repository *PostgresMovieRepository) Create(ctx context.Context, m *Movie) error {
	const query = `
		INSERT INTO core.movie (
			id, slug, title, description, category, tags,
			youtubeurl, youtubeid, thumbnail, duration,
			status, statusreason, isfeatured,
			year, director, castlist, uploadedby,
			views, likes, dislikes, ratingsum, ratingcount,
			likedby, dislikedby, createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16, $17,
			0, 0, 0, 0, 0,
			'{}', '{}', $18, $19
		)`

	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		m.ID, m.Slug, m.Title, m.Description, m.Category, m.Tags,
		m.YouTubeURL, m.YouTubeID, m.Thumbnail, m.Duration,
		m.Status, m.StatusReason, m.IsFeatured,
		m.Year, m.Director, m.Cast, m.UploadedBy,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_create_failed: %w", err)
	}

	return nil
}

// UpdateContent persists content edits plus one history entry, atomically.
func (repository *PostgresMovieRepository) UpdateContent(ctx context.Context, m *Movie, from Status, entry *HistoryEntry) error {
	// Same compare-and-swap as TransitionStatus: the WHERE clause pins the
	// status the caller read, so an edit racing a moderation decision
	// matches zero rows instead of writing a stale status over the verdict.
	const updateQuery = `
		UPDATE core.movie
		SET slug = $2, title = $3, description = $4, category = $5, tags = $6,
		    youtubeurl = $7, youtubeid = $8, thumbnail = $9, duration = $10,
		    status = $11, statusreason = $12,
		    year = $13, director = $14, castlist = $15,
		    updatedat = $16
		WHERE id = $1 AND status = $17`

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_update_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m.UpdatedAt = time.Now()
	tag, err := tx.Exec(ctx, updateQuery,
		m.ID, m.Slug, m.Title, m.Description, m.Category, m.Tags,
		m.YouTubeURL, m.YouTubeID, m.Thumbnail, m.Duration,
		m.Status, m.StatusReason,
		m.Year, m.Director, m.Cast,
		m.UpdatedAt, from,
	)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "movie gone" from "CAS lost".
		var exists bool
		checkErr := repository.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM core.movie WHERE id = $1)", m.ID).Scan(&exists)
		if checkErr == nil && exists {
			return ErrStatusConflict
		}
		return pgx.ErrNoRows
	}

	if err := insertHistory(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_movie_repo_update_commit_failed: %w", err)
	}

	return nil
}

// TransitionStatus performs the compare-and-swap moderation transition.
func (repository *PostgresMovieRepository) TransitionStatus(ctx context.Context, id string, from, to Status, reason string, entry *HistoryEntry) (*Movie, error) {
	// The WHERE clause carries both the id AND the expected previous status:
	// a concurrent transition that already moved the row makes this UPDATE
	// match zero rows, and the loser backs off with a conflict.
	const casQuery = `
		UPDATE core.movie
		SET status = $3, statusreason = $4, updatedat = $5
		WHERE id = $2 AND status = $6
		RETURNING ` + movieColumns

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_transition_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m, err := scanMovie(tx.QueryRow(ctx, casQuery, entry.EditedBy, id, to, reason, time.Now(), from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish "movie gone" from "CAS lost".
			var exists bool
			checkErr := repository.pool.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM core.movie WHERE id = $1)", id).Scan(&exists)
			if checkErr == nil && exists {
				return nil, ErrStatusConflict
			}
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("postgres_movie_repo_transition_failed: %w", err)
	}

	if err := insertHistory(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_transition_commit_failed: %w", err)
	}

	return m, nil
}

// Delete permanently removes a movie. Dependent comment/rating/history rows
// go with it via ON DELETE CASCADE.
func (repository *PostgresMovieRepository) Delete(ctx context.Context, id string) error {
	const query = "DELETE FROM core.movie WHERE id = $1"

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Movie")
	}

	return nil
}

// DeleteByUploader removes every movie uploaded by userID.
func (repository *PostgresMovieRepository) DeleteByUploader(ctx context.Context, userID string) (int, error) {
	const query = "DELETE FROM core.movie WHERE uploadedby = $1"

	tag, err := repository.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("postgres_movie_repo_delete_by_uploader_failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// # Engagement

// IncrementViews bumps the view counter by one.
func (repository *PostgresMovieRepository) IncrementViews(ctx context.Context, id string) error {
	const query = "UPDATE core.movie SET views = views + 1 WHERE id = $1"

	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_increment_views_failed: %w", err)
	}

	return nil
}

// ToggleLike flips the caller's like in one atomic statement.
//
// Every CASE condition reads the OLD row values (SQL UPDATE semantics), so
// the membership flip, the opposite-set removal, and both counter moves are
// decided against one consistent snapshot. The RETURNING clause reads the
// NEW values.
func (repository *PostgresMovieRepository) ToggleLike(ctx context.Context, movieID, userID string) (*EngagementState, error) {
	const query = `
		UPDATE core.movie SET
			likedby = CASE WHEN $2 = ANY(likedby)
				THEN array_remove(likedby, $2)
				ELSE array_append(likedby, $2) END,
			likes = CASE WHEN $2 = ANY(likedby)
				THEN GREATEST(likes - 1, 0)
				ELSE likes + 1 END,
			dislikedby = CASE WHEN $2 = ANY(likedby)
				THEN dislikedby
				ELSE array_remove(dislikedby, $2) END,
			dislikes = CASE WHEN $2 = ANY(likedby) OR NOT ($2 = ANY(dislikedby))
				THEN dislikes
				ELSE GREATEST(dislikes - 1, 0) END,
			updatedat = NOW()
		WHERE id = $1
		RETURNING $2 = ANY(likedby), $2 = ANY(dislikedby), likes, dislikes`

	state := &EngagementState{}
	err := repository.pool.QueryRow(ctx, query, movieID, userID).Scan(
		&state.Liked, &state.Disliked, &state.Likes, &state.Dislikes,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_toggle_like_failed: %w", err)
	}

	return state, nil
}

// ToggleDislike is the exact mirror of [ToggleLike].
func (repository *PostgresMovieRepository) ToggleDislike(ctx context.Context, movieID, userID string) (*EngagementState, error) {
	const query = `
		UPDATE core.movie SET
			dislikedby = CASE WHEN $2 = ANY(dislikedby)
				THEN array_remove(dislikedby, $2)
				ELSE array_append(dislikedby, $2) END,
			dislikes = CASE WHEN $2 = ANY(dislikedby)
				THEN GREATEST(dislikes - 1, 0)
				ELSE dislikes + 1 END,
			likedby = CASE WHEN $2 = ANY(dislikedby)
				THEN likedby
				ELSE array_remove(likedby, $2) END,
			likes = CASE WHEN $2 = ANY(dislikedby) OR NOT ($2 = ANY(likedby))
				THEN likes
				ELSE GREATEST(likes - 1, 0) END,
			updatedat = NOW()
		WHERE id = $1
		RETURNING $2 = ANY(likedby), $2 = ANY(dislikedby), likes, dislikes`

	state := &EngagementState{}
	err := repository.pool.QueryRow(ctx, query, movieID, userID).Scan(
		&state.Liked, &state.Disliked, &state.Likes, &state.Dislikes,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_toggle_dislike_failed: %w", err)
	}

	return state, nil
}

// Rate upserts the caller's rating and recomputes the denormalized sum/count.
//
// # Two Statements, One Transaction
//
// The recompute runs as a SEPARATE statement after the upsert so it sees the
// freshly written row. Folding both into one CTE would not work: all parts
// of a single statement share the same snapshot, and the aggregate would
// miss the new rating.
func (repository *PostgresMovieRepository) Rate(ctx context.Context, movieID, userID string, value int) (*RatingSummary, error) {
	const upsertQuery = `
		INSERT INTO core.movie_rating (movieid, userid, value, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (movieid, userid)
		DO UPDATE SET value = EXCLUDED.value, updatedat = NOW()`

	const recomputeQuery = `
		UPDATE core.movie
		SET ratingsum = agg.sum, ratingcount = agg.count, updatedat = NOW()
		FROM (
			SELECT COALESCE(SUM(value), 0) AS sum, COUNT(*) AS count
			FROM core.movie_rating
			WHERE movieid = $1
		) agg
		WHERE id = $1
		RETURNING agg.sum, agg.count`

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_rate_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, upsertQuery, movieID, userID, value); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_rate_upsert_failed: %w", err)
	}

	var sum, count int64
	if err := tx.QueryRow(ctx, recomputeQuery, movieID).Scan(&sum, &count); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_rate_recompute_failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_rate_commit_failed: %w", err)
	}

	average := 0.0
	if count > 0 {
		average = float64(int(float64(sum)/float64(count)*10+0.5)) / 10
	}

	return &RatingSummary{
		UserRating:    value,
		AverageRating: average,
		RatingCount:   count,
	}, nil
}

// AddComment appends a viewer comment row.
func (repository *PostgresMovieRepository) AddComment(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO core.movie_comment (id, movieid, userid, username, body, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.pool.Exec(ctx, query,
		comment.ID, comment.MovieID, comment.UserID, comment.Username, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_add_comment_failed: %w", err)
	}

	return nil
}

// ListComments returns all comments for a movie, newest first.
func (repository *PostgresMovieRepository) ListComments(ctx context.Context, movieID string) ([]*Comment, error) {
	const query = `
		SELECT id, movieid, userid, username, body, createdat
		FROM core.movie_comment
		WHERE movieid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_list_comments_failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID, &comment.MovieID, &comment.UserID,
			&comment.Username, &comment.Text, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_movie_repo_list_comments_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_list_comments_rows_failed: %w", err)
	}

	return comments, nil
}

// History returns the full append-only edit history, oldest first.
func (repository *PostgresMovieRepository) History(ctx context.Context, movieID string) ([]*HistoryEntry, error) {
	const query = `
		SELECT id, movieid, editedby, editedat, changes
		FROM core.movie_history
		WHERE movieid = $1
		ORDER BY editedat ASC`

	rows, err := repository.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_history_failed: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		entry := &HistoryEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.MovieID, &entry.EditedBy, &entry.EditedAt, &entry.Changes,
		); err != nil {
			return nil, fmt.Errorf("postgres_movie_repo_history_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_history_rows_failed: %w", err)
	}

	return entries, nil
}

// # Aggregates

// CountByStatus aggregates per-status totals, optionally for one uploader.
func (repository *PostgresMovieRepository) CountByStatus(ctx context.Context, uploaderID string) (*StatusCounts, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*)
		FROM core.movie
		WHERE ($1 = '' OR uploadedby = $1)`

	counts := &StatusCounts{}
	err := repository.pool.QueryRow(ctx, query, uploaderID).Scan(
		&counts.Pending, &counts.Active, &counts.Rejected, &counts.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_count_by_status_failed: %w", err)
	}

	return counts, nil
}

// Stats aggregates catalogue-wide statistics for the admin listing.
func (repository *PostgresMovieRepository) Stats(ctx context.Context) (*CatalogueStats, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*),
			COALESCE(SUM(views), 0),
			COALESCE(SUM(likes), 0)
		FROM core.movie`

	stats := &CatalogueStats{}
	err := repository.pool.QueryRow(ctx, query).Scan(
		&stats.Pending, &stats.Active, &stats.Rejected, &stats.Total,
		&stats.TotalViews, &stats.TotalLikes,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_movie_repo_stats_failed: %w", err)
	}

	return stats, nil
}

// insertHistory appends one audit entry inside an open transaction.
func insertHistory(ctx context.Context, tx pgx.Tx, entry *HistoryEntry) error {
	const query = `
		INSERT INTO core.movie_history (id, movieid, editedby, editedat, changes)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.MovieID, entry.EditedBy, entry.EditedAt, entry.Changes,
	)
	if err != nil {
		return fmt.Errorf("postgres_movie_repo_insert_history_failed: %w", err)
	}

	return nil
}
