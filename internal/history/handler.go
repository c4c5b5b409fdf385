// Package history implements the favorites endpoints.
//
// Routes:
//
//	GET  /history  → the user's favorited listings (cache-aside, TTL'd)
//	POST /history  → favorite / unfavorite listings
//
// Every mutation invalidates the per-user favorites cache so stale favorite
// state is never served.
package history

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"jobrec/search-service/internal/apperr"
	"jobrec/search-service/internal/model"
	"jobrec/search-service/internal/session"
	"jobrec/search-service/internal/validate"
	"jobrec/search-service/internal/web"
)

// FavoriteStore persists favorite edges and reconstructs favorited listings.
type FavoriteStore interface {
	SetFavorite(ctx context.Context, userID string, l model.Listing) error
	UnsetFavorite(ctx context.Context, userID, listingID string) error
	GetFavoriteListings(ctx context.Context, userID string) ([]model.Listing, error)
}

// FavoritesCache is the TTL'd per-user favorites blob cache.
type FavoritesCache interface {
	GetFavorites(ctx context.Context, userID string) (string, bool)
	SetFavorites(ctx context.Context, userID, payload string)
	DeleteFavorites(ctx context.Context, userID string)
}

// SessionResolver resolves a session token to a logged-in user.
type SessionResolver interface {
	UserID(ctx context.Context, token string) (string, bool)
}

// Handler holds the history dependencies.
type Handler struct {
	store    FavoriteStore
	cache    FavoritesCache
	sessions SessionResolver
}

// NewHandler returns a configured Handler.
func NewHandler(store FavoriteStore, cache FavoritesCache, sessions SessionResolver) *Handler {
	return &Handler{store: store, cache: cache, sessions: sessions}
}

// RegisterRoutes mounts the history routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/history", h.handleHistory)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listFavorites(w, r)
	case http.MethodPost:
		h.updateFavorites(w, r)
	default:
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := h.sessions.UserID(ctx, session.TokenFrom(r)); !ok {
		web.Error(w, http.StatusForbidden, "Session Invalid")
		return
	}

	userID := validate.SanitizeUsername(r.URL.Query().Get("user_id"))
	if userID == "" {
		web.Error(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if payload, hit := h.cache.GetFavorites(ctx, userID); hit {
		var listings []model.Listing
		if err := json.Unmarshal([]byte(payload), &listings); err == nil {
			web.OK(w, listings)
			return
		}
		log.Printf("[history] discarding undecodable favorites cache for %s", userID)
	}

	listings, err := h.store.GetFavoriteListings(ctx, userID)
	if err != nil {
		web.AppError(w, "history", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	if payload, err := json.Marshal(listings); err == nil {
		h.cache.SetFavorites(ctx, userID, string(payload))
	}

	web.OK(w, listings)
}

func (h *Handler) updateFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := h.sessions.UserID(ctx, session.TokenFrom(r)); !ok {
		web.Error(w, http.StatusForbidden, "Session Invalid")
		return
	}

	var body model.HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := validate.SanitizeUsername(body.UserID)
	if userID == "" {
		web.Error(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}
	if len(body.Favorite) == 0 {
		web.Error(w, http.StatusBadRequest, "No favorite changes supplied")
		return
	}

	// Invalidate once anything mutated, success or not: a batch that fails
	// partway has still changed storage, and the cached blob must not
	// outlive it.
	mutated := false
	defer func() {
		if mutated {
			h.cache.DeleteFavorites(ctx, userID)
		}
	}()

	for _, change := range body.Favorite {
		if change.Item.ID == "" {
			web.Error(w, http.StatusBadRequest, "Listing id is required")
			return
		}
		var err error
		if change.Favorite {
			err = h.store.SetFavorite(ctx, userID, change.Item)
		} else {
			err = h.store.UnsetFavorite(ctx, userID, change.Item.ID)
		}
		if err != nil {
			web.AppError(w, "history", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
			return
		}
		mutated = true
	}

	web.OK(w, model.Result{Result: "OK"})
}
