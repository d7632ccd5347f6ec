// Copyright (c) 2026 Film8X. All rights reserved.

// HTTP delivery layer for the movie catalogue.
//
// Handlers parse and validate transport-level input, call the service, and
// shape the JSON response. Visibility, moderation, and engagement rules all
// live in the service.
package movie

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/film8x/film8x/internal/platform/constants"
	"github.com/film8x/film8x/internal/platform/middleware"
	requestutil "github.com/film8x/film8x/internal/platform/request"
	"github.com/film8x/film8x/internal/platform/respond"
	"github.com/film8x/film8x/internal/platform/sec"
	"github.com/film8x/film8x/pkg/pagination"
)

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	movieService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{movieService: service}
}

// Routes returns a [chi.Router] with the full catalogue surface.
//
// # Endpoints
//   - GET    /                  : Public catalogue (filter + search + paging).
//   - GET    /featured          : Homepage carousel.
//   - GET    /my-uploads        : Caller's own uploads (moderator+).
//   - GET    /pending           : Moderation review queue (moderator+).
//   - GET    /admin/all         : Any-status listing + statistics (admin).
//   - POST   /                  : Submit a new movie (moderator+).
//   - GET    /{id}              : Single movie by UUID (counts a view).
//   - GET    /slug/{slug}       : Single movie by slug (counts a view).
//   - PUT    /{id}              : Edit content fields (owner or admin).
//   - PUT    /{id}/status       : Moderation verdict (admin).
//   - DELETE /{id}              : Remove a movie.
//   - GET    /{id}/history      : Append-only audit trail (admin).
//   - POST   /{id}/like|dislike|rate|comments : Engagement (authenticated).
//   - GET    /{id}/comments     : Comment list (visibility-gated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/featured", handler.listFeatured)
	router.Get("/slug/{slug}", handler.getBySlug)

	router.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))
		moderator.Get("/my-uploads", handler.myUploads)
		moderator.Get("/pending", handler.pending)
		moderator.Post("/", handler.create)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/admin/all", handler.adminList)
		admin.Get("/{id}/history", handler.history)
		admin.Put("/{id}/status", handler.setStatus)
	})

	router.Get("/{id}", handler.getByID)
	router.Get("/{id}/comments", handler.listComments)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)
		authenticated.Put("/{id}", handler.update)
		authenticated.Delete("/{id}", handler.remove)
		authenticated.Post("/{id}/like", handler.toggleLike)
		authenticated.Post("/{id}/dislike", handler.toggleDislike)
		authenticated.Post("/{id}/rate", handler.rate)
		authenticated.Post("/{id}/comments", handler.addComment)
	})

	return router
}

// clientKey returns a stable fingerprint for view deduplication: the user id
// when authenticated, the client IP otherwise.
func clientKey(request *http.Request) string {
	if identity := requestutil.Identity(request); identity != nil {
		return identity.UserID
	}
	return middleware.RealIP(request)
}

// # Discovery Endpoints

// list handles GET /api/v1/movies requests.
//
// Query parameters: status (admin only), category, q, exclude, page, limit.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{
		Status:    Status(query.Get("status")),
		Category:  Category(query.Get("category")),
		Query:     query.Get("q"),
		ExcludeID: query.Get("exclude"),
	}
	page := pagination.FromRequest(request)

	movies, total, err := handler.movieService.List(request.Context(), requestutil.Identity(request), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, pagination.NewMeta(page.Page, page.Limit, total))
}

// listFeatured handles GET /api/v1/movies/featured requests.
func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	movies, err := handler.movieService.ListFeatured(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, movies)
}

// getByID handles GET /api/v1/movies/{id} requests.
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	handler.get(writer, request, requestutil.Param(request, "id"))
}

// getBySlug handles GET /api/v1/movies/slug/{slug} requests.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	handler.get(writer, request, requestutil.Param(request, "slug"))
}

// get is the shared single-movie read path. Every successful read counts one
// deduplicated view.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request, identifier string) {
	m, err := handler.movieService.Get(request.Context(), requestutil.Identity(request), identifier, clientKey(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, moviePayload(m))
}

// myUploads handles GET /api/v1/movies/my-uploads requests.
func (handler *Handler) myUploads(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	listing, err := handler.movieService.MyUploads(request.Context(), identity, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing, pagination.NewMeta(page.Page, page.Limit, listing.Total))
}

// pending handles GET /api/v1/movies/pending requests.
func (handler *Handler) pending(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	movies, total, err := handler.movieService.Pending(request.Context(), identity, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, pagination.NewMeta(page.Page, page.Limit, total))
}

// adminList handles GET /api/v1/movies/admin/all requests.
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	filter := Filter{
		Status:   Status(query.Get("status")),
		Category: Category(query.Get("category")),
		Query:    query.Get("q"),
	}
	page := pagination.FromRequest(request)

	listing, err := handler.movieService.AdminList(request.Context(), identity, filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listing, pagination.NewMeta(page.Page, page.Limit, listing.Total))
}

// # Content Endpoints

// createRequest is the JSON payload for a new movie submission.
type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	YouTubeURL  string   `json:"youtube_url"`
	Thumbnail   string   `json:"thumbnail"`
	Duration    string   `json:"duration"`
	Year        *int     `json:"year"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
}

// create handles POST /api/v1/movies requests.
//
// # Returns
//   - Writes HTTP 201 Created with the movie in its initial 'pending' state.
//   - Writes HTTP 409 Conflict when the title slug or video is already taken.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	m, err := handler.movieService.Create(request.Context(), identity, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		YouTubeURL:  input.YouTubeURL,
		Thumbnail:   input.Thumbnail,
		Duration:    input.Duration,
		Year:        input.Year,
		Director:    input.Director,
		Cast:        input.Cast,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, moviePayload(m))
}

// updateRequest is the JSON payload for a partial content edit.
// Pointer fields distinguish "omitted" from "set to empty".
type updateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
	YouTubeURL  *string   `json:"youtube_url"`
	Thumbnail   *string   `json:"thumbnail"`
	Duration    *string   `json:"duration"`
	Year        *int      `json:"year"`
	Director    *string   `json:"director"`
	Cast        *[]string `json:"cast"`
}

// update handles PUT /api/v1/movies/{id} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	m, err := handler.movieService.Update(request.Context(), identity, requestutil.Param(request, "id"), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		YouTubeURL:  input.YouTubeURL,
		Thumbnail:   input.Thumbnail,
		Duration:    input.Duration,
		Year:        input.Year,
		Director:    input.Director,
		Cast:        input.Cast,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, moviePayload(m))
}

// setStatusRequest is the JSON payload for a moderation verdict.
type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// setStatus handles PUT /api/v1/movies/{id}/status requests.
//
// # Returns
//   - Writes HTTP 200 OK with the movie in its new state.
//   - Writes HTTP 409 Conflict when a concurrent transition won the race.
func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	m, err := handler.movieService.SetStatus(request.Context(), identity,
		requestutil.Param(request, "id"), Status(input.Status), input.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, moviePayload(m))
}

// remove handles DELETE /api/v1/movies/{id} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.movieService.Delete(request.Context(), identity, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Movie deleted"})
}

// history handles GET /api/v1/movies/{id}/history requests.
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.movieService.History(request.Context(), identity, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

// # Engagement Endpoints

// toggleLike handles POST /api/v1/movies/{id}/like requests.
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := handler.movieService.ToggleLike(request.Context(), identity, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

// toggleDislike handles POST /api/v1/movies/{id}/dislike requests.
func (handler *Handler) toggleDislike(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state, err := handler.movieService.ToggleDislike(request.Context(), identity, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

// rateRequest is the JSON payload for a rating submission.
type rateRequest struct {
	Rating int `json:"rating"`
}

// rate handles POST /api/v1/movies/{id}/rate requests.
func (handler *Handler) rate(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	summary, err := handler.movieService.Rate(request.Context(), identity, requestutil.Param(request, "id"), input.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summary)
}

// commentRequest is the JSON payload for a new comment.
type commentRequest struct {
	Text string `json:"text"`
}

// addComment handles POST /api/v1/movies/{id}/comments requests.
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.movieService.AddComment(request.Context(), identity, requestutil.Param(request, "id"), input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// listComments handles GET /api/v1/movies/{id}/comments requests.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.movieService.Comments(request.Context(), requestutil.Identity(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}

// moviePayload shapes a single-movie response: the entity plus the computed
// average rating (stored as raw sum/count, presented as one decimal).
func moviePayload(m *Movie) map[string]any {
	return map[string]any{
		"movie":          m,
		"average_rating": m.AverageRating(),
	}
}
