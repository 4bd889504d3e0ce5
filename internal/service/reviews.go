package service

import (
	"context"
	"log/slog"
	"time"

	"movie-store/internal/domain"
	"movie-store/internal/store"

	"github.com/google/uuid"
)

// ReviewService handles the review lifecycle: write, edit, delete, report.
type ReviewService struct {
	reviews store.ReviewStore
	movies  store.MovieStore
	logger  *slog.Logger
}

func NewReviewService(stores *store.Stores, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: stores.Reviews, movies: stores.Movies, logger: logger}
}

// CreateReview stores the user's only review of a movie.
func (s *ReviewService) CreateReview(ctx context.Context, userID, movieID string, req domain.CreateReviewRequest) (*domain.Review, error) {
	if err := validateScore(req.Rating); err != nil {
		return nil, err
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	review := &domain.Review{
		ID:      uuid.NewString(),
		MovieID: movieID,
		UserID:  userID,
		Rating:  req.Rating,
		Content: req.Content,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Review created", slog.String("reviewID", review.ID), slog.String("movieID", movieID))
	return review, nil
}

// UpdateReview replaces rating and content of the caller's own review.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID string, req domain.UpdateReviewRequest) (*domain.Review, error) {
	if err := validateScore(req.Rating); err != nil {
		return nil, err
	}
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	req.Apply(review, time.Now().UTC())
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview hard-deletes the caller's own review.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID string) error {
	if _, err := s.ownedReview(ctx, userID, reviewID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, reviewID, userID)
}

// ReportReview flags someone else's review. A reported review disappears from
// the public listing; reporting it again yields store.ErrAlreadyReported.
func (s *ReviewService) ReportReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID == userID {
		return nil, ErrSelfReport
	}
	if review.IsReported {
		return nil, store.ErrAlreadyReported
	}
	if err := s.reviews.MarkReported(ctx, reviewID); err != nil {
		return nil, err
	}
	review.IsReported = true
	s.logger.InfoContext(ctx, "Review reported", slog.String("reviewID", reviewID), slog.String("reportedBy", userID))
	return review, nil
}

func (s *ReviewService) ownedReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		s.logger.WarnContext(ctx, "User attempted to modify another user's review",
			slog.String("reviewID", reviewID), slog.String("userID", userID))
		return nil, ErrNotReviewOwner
	}
	return review, nil
}

func validateScore(score int) error {
	if score < 1 || score > 5 {
		return ErrInvalidRating
	}
	return nil
}
