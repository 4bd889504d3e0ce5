package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"
	"movie-store/internal/store"

	"github.com/google/uuid"
)

// CatalogPageSize is the number of movies per catalog page.
const CatalogPageSize = 12

// MoviePage is one page of the public catalog.
type MoviePage struct {
	Movies     []*domain.MovieSummary `json:"movies"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int                    `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
}

// CatalogService serves the movie catalog and its admin edits.
type CatalogService struct {
	movies  store.MovieStore
	reviews store.ReviewStore
	ratings store.RatingStore
	logger  *slog.Logger
}

func NewCatalogService(stores *store.Stores, logger *slog.Logger) *CatalogService {
	return &CatalogService{movies: stores.Movies, reviews: stores.Reviews, ratings: stores.Ratings, logger: logger}
}

// ListMovies returns one catalog page; pages below 1 are treated as the first.
func (s *CatalogService) ListMovies(ctx context.Context, page int, search string, genre domain.Genre) (*MoviePage, error) {
	if page < 1 {
		page = 1
	}
	movies, total, err := s.movies.List(ctx, store.MovieListParams{
		Page:        page,
		PageSize:    CatalogPageSize,
		SearchQuery: search,
		Genre:       genre,
	})
	if err != nil {
		return nil, err
	}
	return &MoviePage{
		Movies:     movies,
		Page:       page,
		PageSize:   CatalogPageSize,
		TotalCount: total,
		TotalPages: (total + CatalogPageSize - 1) / CatalogPageSize,
	}, nil
}

// GetMovie returns a single movie.
func (s *CatalogService) GetMovie(ctx context.Context, movieID string) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, movieID)
}

// GetMovieDetail assembles the public movie page. viewerID may be empty for
// anonymous callers.
func (s *CatalogService) GetMovieDetail(ctx context.Context, movieID, viewerID string) (*domain.MovieDetail, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListVisibleByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	reviewRating, err := s.reviews.GetAggregatedRatingByMovieID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	quickRating, err := s.ratings.GetAggregatedRatingByMovieID(ctx, movieID)
	if err != nil {
		return nil, err
	}

	detail := &domain.MovieDetail{
		Movie:        movie,
		Cast:         movie.CastList(),
		Duration:     movie.DurationDisplay(),
		Reviews:      reviews,
		ReviewRating: reviewRating,
		QuickRating:  quickRating,
	}
	if viewerID == "" {
		return detail, nil
	}

	userReview, err := s.reviews.GetByMovieAndUser(ctx, movieID, viewerID)
	switch {
	case err == nil:
		detail.UserReview = userReview
	case !errors.Is(err, store.ErrReviewNotFound):
		return nil, err
	}
	userRating, err := s.ratings.GetByMovieAndUser(ctx, movieID, viewerID)
	switch {
	case err == nil:
		detail.UserRating = userRating
	case !errors.Is(err, store.ErrRatingNotFound):
		return nil, err
	}
	return detail, nil
}

// CreateMovie adds a movie, applying catalog defaults.
func (s *CatalogService) CreateMovie(ctx context.Context, req domain.CreateMovieRequest) (*domain.Movie, error) {
	movie, err := domain.NewMovie(uuid.NewString(), req, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Movie added to catalog", slog.String("movieID", movie.ID), slog.String("title", movie.Title))
	return movie, nil
}

// UpdateMovie applies an explicit edit to a movie. Orders already placed keep
// their snapshotted prices.
func (s *CatalogService) UpdateMovie(ctx context.Context, movieID string, req domain.UpdateMovieRequest) (*domain.Movie, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(movie, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to save movie %s: %w", movieID, err)
	}
	return movie, nil
}

// DeleteMovie removes a movie from the catalog.
func (s *CatalogService) DeleteMovie(ctx context.Context, movieID string) error {
	if err := s.movies.Delete(ctx, movieID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Movie removed from catalog", slog.String("movieID", movieID))
	return nil
}

// MovieExists reports whether movieID is in the catalog.
func (s *CatalogService) MovieExists(ctx context.Context, movieID string) (bool, error) {
	_, err := s.movies.GetByID(ctx, movieID)
	if errors.Is(err, store.ErrMovieNotFound) {
		return false, nil
	}
	return err == nil, err
}
