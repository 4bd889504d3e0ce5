// movie-store/internal/store/postgres_review_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresReviewStore implements ReviewStore and RatingStore queries on PostgreSQL.
type PostgresReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create inserts a new review; a second review by the same user for the same movie
// returns ErrDuplicateReview.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (id, movie_id, user_id, rating, content, is_reported, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`

	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt
	review.IsReported = false

	s.logger.DebugContext(ctx, "Executing Create review query",
		slog.String("reviewID", review.ID),
		slog.String("movieID", review.MovieID),
		slog.String("userID", review.UserID))

	_, err := s.db.ExecContext(ctx, query,
		review.ID, review.MovieID, review.UserID, review.Rating, review.Content,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "uq_user_movie_review" {
			s.logger.WarnContext(ctx, "User has already reviewed this movie (DB constraint)",
				slog.String("movieID", review.MovieID), slog.String("userID", review.UserID))
			return ErrDuplicateReview
		}
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", err)
	}
	s.logger.InfoContext(ctx, "Review created successfully in DB", slog.String("reviewID", review.ID))
	return nil
}

// GetByID finds a review by id.
func (s *PostgresReviewStore) GetByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	query := `SELECT r.id, r.movie_id, r.user_id, r.rating, r.content, r.is_reported, r.created_at, r.updated_at,
                     COALESCE(u.username, '') AS username
              FROM reviews r LEFT JOIN users u ON u.id = r.user_id
              WHERE r.id = $1`
	var review domain.Review
	if !validID(reviewID) {
		s.logger.WarnContext(ctx, "Malformed review ID", slog.String("reviewID", reviewID))
		return nil, ErrReviewNotFound
	}

	s.logger.DebugContext(ctx, "Executing GetReviewByID query", slog.String("reviewID", reviewID))
	if err := s.db.GetContext(ctx, &review, query, reviewID); err != nil {
		if noRows(err) {
			s.logger.WarnContext(ctx, "Review not found by ID in DB", slog.String("reviewID", reviewID))
			return nil, ErrReviewNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get review by ID from DB", slog.String("reviewID", reviewID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

// GetByMovieAndUser finds the review a user wrote for a movie.
func (s *PostgresReviewStore) GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Review, error) {
	query := `SELECT id, movie_id, user_id, rating, content, is_reported, created_at, updated_at
              FROM reviews WHERE movie_id = $1 AND user_id = $2`
	var review domain.Review
	if !validID(movieID) || !validID(userID) {
		return nil, ErrReviewNotFound
	}

	if err := s.db.GetContext(ctx, &review, query, movieID, userID); err != nil {
		if noRows(err) {
			return nil, ErrReviewNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get review by movie and user from DB",
			slog.String("movieID", movieID), slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get review by movie and user: %w", err)
	}
	return &review, nil
}

// Update replaces rating and content of a review owned by review.UserID.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	query := `UPDATE reviews SET rating = $1, content = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`
	if !validID(review.ID) {
		return ErrReviewNotFound
	}
	review.UpdatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "Executing Update review query", slog.String("reviewID", review.ID), slog.String("userID", review.UserID))
	result, err := s.db.ExecContext(ctx, query, review.Rating, review.Content, review.UpdatedAt, review.ID, review.UserID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review in DB", slog.String("reviewID", review.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update review: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check review update result: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to update or user not authorized", slog.String("reviewID", review.ID), slog.String("userID", review.UserID))
		return ErrReviewNotFound
	}
	s.logger.InfoContext(ctx, "Review updated successfully in DB", slog.String("reviewID", review.ID))
	return nil
}

// Delete hard-deletes a review owned by userID.
func (s *PostgresReviewStore) Delete(ctx context.Context, reviewID string, userID string) error {
	if !validID(reviewID) {
		return ErrReviewNotFound
	}
	s.logger.DebugContext(ctx, "Executing Delete review query", slog.String("reviewID", reviewID), slog.String("userID", userID))
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, reviewID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete review from DB", slog.String("reviewID", reviewID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete review: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check review delete result: %w", err)
	}
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to delete or user not authorized", slog.String("reviewID", reviewID), slog.String("userID", userID))
		return ErrReviewNotFound
	}
	s.logger.InfoContext(ctx, "Review deleted successfully from DB", slog.String("reviewID", reviewID))
	return nil
}

// MarkReported sets is_reported. The WHERE guard makes concurrent reports race-free:
// exactly one UPDATE affects the row.
func (s *PostgresReviewStore) MarkReported(ctx context.Context, reviewID string) error {
	query := `UPDATE reviews SET is_reported = TRUE, updated_at = $1 WHERE id = $2 AND is_reported = FALSE`
	if !validID(reviewID) {
		return ErrReviewNotFound
	}

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), reviewID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to report review in DB", slog.String("reviewID", reviewID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to report review: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check review report result: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)`, reviewID); err != nil {
			return fmt.Errorf("failed to check review existence: %w", err)
		}
		if !exists {
			return ErrReviewNotFound
		}
		return ErrAlreadyReported
	}
	s.logger.InfoContext(ctx, "Review reported", slog.String("reviewID", reviewID))
	return nil
}

// ListVisibleByMovie returns the movie's non-reported reviews, newest first.
func (s *PostgresReviewStore) ListVisibleByMovie(ctx context.Context, movieID string) ([]*domain.Review, error) {
	query := `SELECT r.id, r.movie_id, r.user_id, r.rating, r.content, r.is_reported, r.created_at, r.updated_at,
                     COALESCE(u.username, '') AS username
              FROM reviews r LEFT JOIN users u ON u.id = r.user_id
              WHERE r.movie_id = $1 AND r.is_reported = FALSE
              ORDER BY r.created_at DESC`

	reviews := []*domain.Review{}
	s.logger.DebugContext(ctx, "Executing ListVisibleByMovie query", slog.String("movieID", movieID))
	if err := s.db.SelectContext(ctx, &reviews, query, movieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews by movieID from DB", slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reviews by movieID: %w", err)
	}
	return reviews, nil
}

// GetAggregatedRatingByMovieID averages every review of the movie.
func (s *PostgresReviewStore) GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	return aggregateRating(ctx, s.db, s.logger, "reviews", movieID)
}

func aggregateRating(ctx context.Context, db *sqlx.DB, logger *slog.Logger, table, movieID string) (*domain.AggregatedRating, error) {
	query := `SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(rating) AS rating_count
              FROM ` + table + ` WHERE movie_id = $1`

	aggRating := domain.AggregatedRating{MovieID: movieID}
	if err := db.GetContext(ctx, &aggRating, query, movieID); err != nil {
		logger.ErrorContext(ctx, "Failed to get aggregated rating from DB",
			slog.String("table", table), slog.String("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get aggregated rating for movieID %s: %w", movieID, err)
	}
	return &aggRating, nil
}

// PostgresRatingStore implements RatingStore on PostgreSQL.
type PostgresRatingStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Upsert inserts the user's rating or replaces the existing one.
func (s *PostgresRatingStore) Upsert(ctx context.Context, rating *domain.Rating) error {
	query := `INSERT INTO ratings (id, movie_id, user_id, rating, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $5)
              ON CONFLICT ON CONSTRAINT uq_user_movie_rating
              DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
              RETURNING id, created_at, updated_at`

	now := time.Now().UTC()
	s.logger.DebugContext(ctx, "Executing Upsert rating query",
		slog.String("movieID", rating.MovieID), slog.String("userID", rating.UserID), slog.Int("rating", rating.Value))
	row := s.db.QueryRowxContext(ctx, query, rating.ID, rating.MovieID, rating.UserID, rating.Value, now)
	if err := row.Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to upsert rating in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// GetByMovieAndUser finds the quick rating a user gave a movie.
func (s *PostgresRatingStore) GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Rating, error) {
	query := `SELECT id, movie_id, user_id, rating, created_at, updated_at
              FROM ratings WHERE movie_id = $1 AND user_id = $2`
	var rating domain.Rating
	if !validID(movieID) || !validID(userID) {
		return nil, ErrRatingNotFound
	}
	if err := s.db.GetContext(ctx, &rating, query, movieID, userID); err != nil {
		if noRows(err) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// GetAggregatedRatingByMovieID averages the quick ratings of the movie.
func (s *PostgresRatingStore) GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	return aggregateRating(ctx, s.db, s.logger, "ratings", movieID)
}
