// movie-store/internal/store/postgres_movie_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"movie-store/internal/domain"

	"github.com/jmoiron/sqlx"
)

const movieColumns = `id, title, price, description, genre, content_rating, director, cast_members,
       release_year, duration, language, image_url, created_at, updated_at`

// PostgresMovieStore implements MovieStore on PostgreSQL.
type PostgresMovieStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create inserts a new movie.
func (s *PostgresMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	query := `INSERT INTO movies (` + movieColumns + `)
              VALUES (:id, :title, :price, :description, :genre, :content_rating, :director, :cast_members,
                      :release_year, :duration, :language, :image_url, :created_at, :updated_at)`

	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now().UTC()
	}
	movie.UpdatedAt = movie.CreatedAt

	s.logger.DebugContext(ctx, "Executing Create movie query", slog.String("movieID", movie.ID), slog.String("title", movie.Title))
	if _, err := s.db.NamedExecContext(ctx, query, movie); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create movie in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create movie: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie created successfully in DB", slog.String("movieID", movie.ID))
	return nil
}

// GetByID finds a movie by id.
func (s *PostgresMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	if !validID(id) {
		s.logger.WarnContext(ctx, "Malformed movie ID", slog.String("movieID", id))
		return nil, ErrMovieNotFound
	}
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	var movie domain.Movie

	s.logger.DebugContext(ctx, "Executing GetMovieByID query", slog.String("movieID", id))
	if err := s.db.GetContext(ctx, &movie, query, id); err != nil {
		if noRows(err) {
			s.logger.WarnContext(ctx, "Movie not found by ID in DB", slog.String("movieID", id))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get movie by ID from DB", slog.String("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}
	return &movie, nil
}

// Update writes every editable column of movie.
func (s *PostgresMovieStore) Update(ctx context.Context, movie *domain.Movie) error {
	query := `UPDATE movies SET title = :title, price = :price, description = :description, genre = :genre,
                     content_rating = :content_rating, director = :director, cast_members = :cast_members,
                     release_year = :release_year, duration = :duration, language = :language,
                     image_url = :image_url, updated_at = :updated_at
              WHERE id = :id`
	if !validID(movie.ID) {
		return ErrMovieNotFound
	}
	movie.UpdatedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "Executing Update movie query", slog.String("movieID", movie.ID))
	result, err := s.db.NamedExecContext(ctx, query, movie)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update movie in DB", slog.String("movieID", movie.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		s.logger.WarnContext(ctx, "No movie found to update in DB", slog.String("movieID", movie.ID))
		return ErrMovieNotFound
	}
	s.logger.InfoContext(ctx, "Movie updated successfully in DB", slog.String("movieID", movie.ID))
	return nil
}

// Delete removes a movie.
func (s *PostgresMovieStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrMovieNotFound
	}
	s.logger.DebugContext(ctx, "Executing Delete movie query", slog.String("movieID", id))
	result, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete movie from DB", slog.String("movieID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrMovieNotFound
	}
	s.logger.InfoContext(ctx, "Movie deleted successfully from DB", slog.String("movieID", id))
	return nil
}

// List returns one page of movies, newest first, each with its average review rating.
func (s *PostgresMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.MovieSummary, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if params.SearchQuery != "" {
		conditions = append(conditions, fmt.Sprintf("m.title ILIKE $%d", argID))
		args = append(args, "%"+params.SearchQuery+"%")
		argID++
	}
	if params.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("m.genre = $%d", argID))
		args = append(args, params.Genre)
		argID++
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM movies m` + where
	s.logger.DebugContext(ctx, "Executing List movies count query", slog.String("query", countQuery), slog.Any("args", args))
	if err := s.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count movies in DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if totalCount == 0 {
		return []*domain.MovieSummary{}, 0, nil
	}

	selectQuery := `SELECT m.id, m.title, m.price, m.description, m.genre, m.content_rating, m.director,
                           m.cast_members, m.release_year, m.duration, m.language, m.image_url,
                           m.created_at, m.updated_at,
                           COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.movie_id = m.id), 0) AS avg_rating
                    FROM movies m` + where +
		fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, params.PageSize, params.Offset())

	movies := []*domain.MovieSummary{}
	s.logger.DebugContext(ctx, "Executing List movies select query", slog.String("query", selectQuery), slog.Any("args", args))
	if err := s.db.SelectContext(ctx, &movies, selectQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies from DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, totalCount, nil
}
