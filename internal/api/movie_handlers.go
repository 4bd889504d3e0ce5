package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"movie-store/internal/domain"

	"github.com/gorilla/mux"
)

// GetMovies lists the catalog, 12 per page, with ?search, ?genre and ?page.
func (h *Handler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()
	h.logger.InfoContext(ctx, "GetMovies endpoint hit", slog.String("query", queryParams.Encode()))

	page, _ := strconv.Atoi(queryParams.Get("page"))
	result, err := h.services.Catalog.ListMovies(ctx, page, queryParams.Get("search"), domain.Genre(queryParams.Get("genre")))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to retrieve movies")
		return
	}
	h.logger.InfoContext(ctx, "Movies list retrieved successfully", slog.Int("count_returned", len(result.Movies)), slog.Int("total_available", result.TotalCount))
	h.respondJSON(w, r, http.StatusOK, result)
}

// GetMovieByID returns the movie page; reported reviews are not included.
func (h *Handler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	h.logger.InfoContext(ctx, "GetMovieByID endpoint hit", slog.String("movieID", movieID))

	detail, err := h.services.Catalog.GetMovieDetail(ctx, movieID, UserIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err, "Error finding movie")
		return
	}
	h.respondJSON(w, r, http.StatusOK, detail)
}

func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.CreateMovieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	movie, err := h.services.Catalog.CreateMovie(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create movie")
		return
	}
	h.respondJSON(w, r, http.StatusCreated, movie)
}

func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	var req domain.UpdateMovieRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	movie, err := h.services.Catalog.UpdateMovie(ctx, movieID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update movie")
		return
	}
	h.respondJSON(w, r, http.StatusOK, movie)
}

func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := mux.Vars(r)["movieId"]
	if err := h.services.Catalog.DeleteMovie(r.Context(), movieID); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete movie")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{"message": "Movie deleted successfully!"})
}

// SubmitRating records the caller's quick rating of a movie.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	var req domain.SubmitRatingRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	rating, summary, err := h.services.Ratings.SubmitRating(ctx, UserIDFromContext(ctx), movieID, req.Rating)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to save rating")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"rating":  rating,
		"summary": summary,
		"message": "Rating saved!",
	})
}
