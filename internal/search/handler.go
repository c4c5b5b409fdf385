// Package search implements the job search and recommendation endpoints.
//
// Routes:
//
//	GET /search          → cache-aside location search with favorite flags
//	GET /recommendation  → keyword-frequency recommendations from favorites
package search

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"jobrec/search-service/internal/apperr"
	"jobrec/search-service/internal/model"
	"jobrec/search-service/internal/session"
	"jobrec/search-service/internal/validate"
	"jobrec/search-service/internal/web"
)

const requestTimeout = 30 * time.Second

// Searcher fetches listings from the external job search provider.
type Searcher interface {
	Search(ctx context.Context, lat, lon float64, keyword string) ([]model.Listing, error)
}

// ResultCache is the TTL'd search-result cache consulted before the provider.
type ResultCache interface {
	GetSearch(ctx context.Context, lat, lon float64, keyword string) (string, bool)
	SetSearch(ctx context.Context, lat, lon float64, keyword, payload string)
}

// FavoriteReader exposes the favorite state needed on the search path.
type FavoriteReader interface {
	GetFavoriteIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	GetFavoriteListings(ctx context.Context, userID string) ([]model.Listing, error)
}

// SessionResolver resolves a session token to a logged-in user.
type SessionResolver interface {
	UserID(ctx context.Context, token string) (string, bool)
}

// TrendProvider supplies globally trending keywords, used as the
// recommendation fallback for users with no favorites yet.
type TrendProvider interface {
	Top(ctx context.Context, n int) []string
}

// Handler holds the search path's collaborators.
type Handler struct {
	searcher  Searcher
	cache     ResultCache
	favorites FavoriteReader
	sessions  SessionResolver
	trends    TrendProvider
	limit     int // cap on recommended listings per request
}

// NewHandler returns a configured Handler.
func NewHandler(searcher Searcher, cache ResultCache, favorites FavoriteReader, sessions SessionResolver, trends TrendProvider, limit int) *Handler {
	return &Handler{
		searcher:  searcher,
		cache:     cache,
		favorites: favorites,
		sessions:  sessions,
		trends:    trends,
		limit:     limit,
	}
}

// RegisterRoutes mounts the search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/search", h.handleSearch)
	mux.HandleFunc("/recommendation", h.handleRecommendation)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed for search operations")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, ok := h.sessions.UserID(ctx, session.TokenFrom(r)); !ok {
		web.Error(w, http.StatusForbidden, "Session Invalid")
		return
	}

	params, errMsg := parseSearchParams(r)
	if errMsg != "" {
		web.Error(w, http.StatusBadRequest, errMsg)
		return
	}

	favoriteIDs, err := h.favorites.GetFavoriteIDs(ctx, params.userID)
	if err != nil {
		// Serving wrong favorite state is worse than failing the request.
		web.AppError(w, "search", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
		return
	}

	listings := h.cachedSearch(ctx, params.lat, params.lon, params.keyword)

	// Favorite flags are always recomputed from storage, never trusted
	// from the cached payload.
	for i := range listings {
		_, fav := favoriteIDs[listings[i].ID]
		listings[i].Favorite = fav
	}

	web.OK(w, listings)
}

// cachedSearch runs the cache-aside read path: consult the cache, fall back
// to the external provider on miss, and opportunistically repopulate the
// cache. Provider failure degrades to an empty result set.
func (h *Handler) cachedSearch(ctx context.Context, lat, lon float64, keyword string) []model.Listing {
	if payload, hit := h.cache.GetSearch(ctx, lat, lon, keyword); hit {
		var listings []model.Listing
		if err := json.Unmarshal([]byte(payload), &listings); err == nil {
			log.Printf("[search] cache hit for lat=%.4f lon=%.4f keyword=%q", lat, lon, keyword)
			return listings
		}
		log.Printf("[search] discarding undecodable cache entry for lat=%.4f lon=%.4f", lat, lon)
	}

	listings, err := h.searcher.Search(ctx, lat, lon, keyword)
	if err != nil {
		log.Printf("[search] provider search failed: %v", err)
		return []model.Listing{}
	}
	if len(listings) == 0 {
		log.Printf("[search] zero results for lat=%.4f lon=%.4f keyword=%q", lat, lon, keyword)
		return []model.Listing{}
	}

	if payload, err := json.Marshal(listings); err == nil {
		h.cache.SetSearch(ctx, lat, lon, keyword, string(payload))
	}
	return listings
}

type searchParams struct {
	userID  string
	lat     float64
	lon     float64
	keyword string
}

// parseSearchParams extracts, validates and sanitizes the query parameters.
// A non-empty return message means the request must be rejected with 400 and
// carries every violated rule.
func parseSearchParams(r *http.Request) (searchParams, string) {
	var p searchParams

	p.userID = r.URL.Query().Get("user_id")
	if !validate.NotEmpty(p.userID) {
		return p, "User ID is required"
	}

	latStr := r.URL.Query().Get("lat")
	if !validate.NotEmpty(latStr) {
		return p, "Latitude is required"
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return p, "Invalid latitude format"
	}

	lonStr := r.URL.Query().Get("lon")
	if !validate.NotEmpty(lonStr) {
		return p, "Longitude is required"
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return p, "Invalid longitude format"
	}

	keyword := r.URL.Query().Get("keyword")

	if res := validate.SearchParameters(lat, lon, keyword); !res.Valid() {
		return p, res.Errors()
	}

	p.userID = validate.SanitizeUsername(p.userID)
	if p.userID == "" {
		return p, "Invalid user ID format"
	}
	p.keyword = validate.SanitizeKeyword(keyword)
	p.lat, p.lon = lat, lon
	return p, ""
}
