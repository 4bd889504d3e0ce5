// movie-store/internal/store/postgres_cart_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresCartStore implements CartStore on PostgreSQL.
type PostgresCartStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (s *PostgresCartStore) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $3)
               ON CONFLICT (user_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, insert, uuid.NewString(), userID, now); err != nil {
		s.logger.ErrorContext(ctx, "Failed to ensure cart exists", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	var cart domain.Cart
	if err := s.db.GetContext(ctx, &cart, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load cart", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	movies, err := cartMovies(ctx, s.db, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Movies = movies
	return &cart, nil
}

// AddMovie puts a movie into the cart once.
func (s *PostgresCartStore) AddMovie(ctx context.Context, cartID, movieID string) (bool, error) {
	if !validID(movieID) {
		return false, ErrMovieNotFound
	}
	query := `INSERT INTO cart_movies (cart_id, movie_id, added_at) VALUES ($1, $2, $3)
              ON CONFLICT (cart_id, movie_id) DO NOTHING`

	s.logger.DebugContext(ctx, "Executing AddMovie to cart query", slog.String("cartID", cartID), slog.String("movieID", movieID))
	result, err := s.db.ExecContext(ctx, query, cartID, movieID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add movie to cart", slog.String("cartID", cartID), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to add movie to cart: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check add to cart result: %w", err)
	}
	if rows > 0 {
		s.touch(ctx, cartID)
	}
	return rows > 0, nil
}

// RemoveMovie takes a movie out of the cart; removing an absent movie is a no-op.
func (s *PostgresCartStore) RemoveMovie(ctx context.Context, cartID, movieID string) error {
	if !validID(movieID) {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_movies WHERE cart_id = $1 AND movie_id = $2`, cartID, movieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove movie from cart", slog.String("cartID", cartID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to remove movie from cart: %w", err)
	}
	s.touch(ctx, cartID)
	return nil
}

// Clear empties the cart.
func (s *PostgresCartStore) Clear(ctx context.Context, cartID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_movies WHERE cart_id = $1`, cartID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear cart", slog.String("cartID", cartID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.touch(ctx, cartID)
	return nil
}

func (s *PostgresCartStore) touch(ctx context.Context, cartID string) {
	if _, err := s.db.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), cartID); err != nil {
		s.logger.WarnContext(ctx, "Failed to bump cart updated_at", slog.String("cartID", cartID), slog.String("error", err.Error()))
	}
}

// cartMovies loads the movies of a cart in the order they were added.
func cartMovies(ctx context.Context, q sqlx.QueryerContext, cartID string) ([]*domain.Movie, error) {
	query := `SELECT m.id, m.title, m.price, m.description, m.genre, m.content_rating, m.director,
                     m.cast_members, m.release_year, m.duration, m.language, m.image_url,
                     m.created_at, m.updated_at
              FROM cart_movies cm JOIN movies m ON m.id = cm.movie_id
              WHERE cm.cart_id = $1
              ORDER BY cm.added_at, m.title`
	movies := []*domain.Movie{}
	if err := sqlx.SelectContext(ctx, q, &movies, query, cartID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load cart movies: %w", err)
	}
	return movies, nil
}
