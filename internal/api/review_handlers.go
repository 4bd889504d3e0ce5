package api

import (
	"log/slog"
	"net/http"

	"movie-store/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	userID := UserIDFromContext(ctx)
	h.logger.InfoContext(ctx, "HTTP CreateReview request received", slog.String("movieID", movieID), slog.String("userID", userID))

	var req domain.CreateReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := h.services.Reviews.CreateReview(ctx, userID, movieID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create review")
		return
	}
	h.respondJSON(w, r, http.StatusCreated, map[string]interface{}{
		"review":  review,
		"message": "Review created successfully!",
	})
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reviewID := mux.Vars(r)["reviewId"]
	var req domain.UpdateReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := h.services.Reviews.UpdateReview(ctx, UserIDFromContext(ctx), reviewID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update review")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"review":  review,
		"message": "Review updated successfully!",
	})
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reviewID := mux.Vars(r)["reviewId"]
	if err := h.services.Reviews.DeleteReview(ctx, UserIDFromContext(ctx), reviewID); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete review")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{"message": "Review deleted successfully!"})
}

// ReportReview flags another user's review and hides it from the movie page.
func (h *Handler) ReportReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reviewID := mux.Vars(r)["reviewId"]
	review, err := h.services.Reviews.ReportReview(ctx, UserIDFromContext(ctx), reviewID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to report review")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"review":  review,
		"message": "Review reported. Thank you for helping keep our community safe!",
	})
}
