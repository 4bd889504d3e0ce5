package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GetTrending returns the top movies for a region or "global". Unknown regions
// get a 400 with {"error": "invalid region: <value>"}.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	region := mux.Vars(r)["region"]
	trending, err := h.services.Trending.Trending(r.Context(), region)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compute trending movies")
		return
	}
	h.respondJSON(w, r, http.StatusOK, trending)
}

func (h *Handler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	pop, err := h.services.Trending.Popularity(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to compute popularity map")
		return
	}
	h.respondJSON(w, r, http.StatusOK, pop)
}
