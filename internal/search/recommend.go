package search

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"

	"jobrec/search-service/internal/apperr"
	"jobrec/search-service/internal/model"
	"jobrec/search-service/internal/session"
	"jobrec/search-service/internal/validate"
	"jobrec/search-service/internal/web"
)

// recommendKeywords is how many of the user's most frequent favorite
// keywords seed the recommendation searches.
const recommendKeywords = 3

func (h *Handler) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		web.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, ok := h.sessions.UserID(ctx, session.TokenFrom(r)); !ok {
		web.Error(w, http.StatusForbidden, "Session Invalid")
		return
	}

	userID := validate.SanitizeUsername(r.URL.Query().Get("user_id"))
	if userID == "" {
		web.Error(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil || !validate.Coordinates(lat, lon) {
		web.Error(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	favorites, err := h.favorites.GetFavoriteListings(ctx, userID)
	if err != nil {
		web.AppError(w, "recommend", apperr.Wrap(apperr.KindDatabase, "Internal server error occurred", err))
		return
	}

	keywords := topKeywords(favorites, recommendKeywords)
	if len(keywords) == 0 && h.trends != nil {
		// New user with no favorites yet: fall back to what everyone
		// else is favoriting.
		keywords = h.trends.Top(ctx, recommendKeywords)
	}
	if len(keywords) == 0 {
		web.OK(w, []model.Listing{})
		return
	}

	favoriteIDs := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		favoriteIDs[f.ID] = struct{}{}
	}

	recommended := make([]model.Listing, 0, h.limit)
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		if len(recommended) >= h.limit {
			break
		}
		listings, err := h.searcher.Search(ctx, lat, lon, kw)
		if err != nil {
			log.Printf("[recommend] search for %q failed: %v", kw, err)
			continue
		}
		for _, l := range listings {
			if len(recommended) >= h.limit {
				break
			}
			if _, dup := seen[l.ID]; dup {
				continue
			}
			if _, fav := favoriteIDs[l.ID]; fav {
				continue // already favorited, nothing new to recommend
			}
			seen[l.ID] = struct{}{}
			recommended = append(recommended, l)
		}
	}

	web.OK(w, recommended)
}

// topKeywords counts keyword occurrences across the user's favorited
// listings and returns the n most frequent, ties broken by first encounter.
func topKeywords(listings []model.Listing, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range listings {
		for _, kw := range l.Keywords {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}
	if len(order) == 0 {
		return nil
	}

	// Stable sort keeps encounter order within equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}
