// Package news exposes the scraped headline feed over HTTP.
package news

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	corenews "goldenkey/pkg/core/news"
	"goldenkey/pkg/core/store"
)

// Handler serves headlines, scraping live and persisting when a repository
// is configured.
type Handler struct {
	Scraper *corenews.Scraper
	Repo    *store.NewsRepo // optional
}

func NewHandler(scraper *corenews.Scraper, repo *store.NewsRepo) *Handler {
	return &Handler{Scraper: scraper, Repo: repo}
}

// HandleHeadlines handles GET /api/news?symbol=FPT&limit=10
func (h *Handler) HandleHeadlines(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		http.Error(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	headlines, err := h.Scraper.Headlines(r.Context(), symbol, limit)
	if err != nil {
		// Fall back to stored headlines when the live scrape fails.
		if h.Repo != nil {
			if stored, repoErr := h.Repo.RecentHeadlines(r.Context(), symbol, limit); repoErr == nil && len(stored) > 0 {
				json.NewEncoder(w).Encode(stored)
				return
			}
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if h.Repo != nil {
		// Persistence is best effort for this endpoint.
		_ = h.Repo.SaveHeadlines(r.Context(), symbol, headlines)
	}

	json.NewEncoder(w).Encode(headlines)
}
