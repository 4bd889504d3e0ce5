package service

import (
	"context"
	"log/slog"

	"movie-store/internal/domain"
	"movie-store/internal/store"

	"github.com/google/uuid"
)

// RatingService records quick 1..5 ratings.
type RatingService struct {
	ratings store.RatingStore
	movies  store.MovieStore
	logger  *slog.Logger
}

func NewRatingService(stores *store.Stores, logger *slog.Logger) *RatingService {
	return &RatingService{ratings: stores.Ratings, movies: stores.Movies, logger: logger}
}

// SubmitRating sets the user's rating of a movie, replacing any earlier one.
func (s *RatingService) SubmitRating(ctx context.Context, userID, movieID string, score int) (*domain.Rating, *domain.AggregatedRating, error) {
	if err := validateScore(score); err != nil {
		return nil, nil, err
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, nil, err
	}
	rating := &domain.Rating{
		ID:      uuid.NewString(),
		MovieID: movieID,
		UserID:  userID,
		Value:   score,
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, nil, err
	}
	summary, err := s.ratings.GetAggregatedRatingByMovieID(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.DebugContext(ctx, "Rating submitted", slog.String("movieID", movieID), slog.Int("rating", score))
	return rating, summary, nil
}

// Summary returns the quick-rating average of a movie.
func (s *RatingService) Summary(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.ratings.GetAggregatedRatingByMovieID(ctx, movieID)
}
