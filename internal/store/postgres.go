// movie-store/internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02" // e.g. "abc" compared to a UUID column
)

// Connect opens and pings the PostgreSQL database behind dbURL.
func Connect(ctx context.Context, dbURL string, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("Attempting to connect to database", slog.String("dbURL_used", RedactURL(dbURL)))

	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping PostgreSQL database", slog.String("error", err.Error()))
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL database.")
	return db, nil
}

// RedactURL hides the password of a connection URL for logging.
func RedactURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "<unparseable database url>"
	}
	return u.Redacted()
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	logger.InfoContext(ctx, "Applying database schema")
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to apply database schema", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// NewPostgresStores builds every PostgreSQL store on top of one connection pool.
func NewPostgresStores(db *sqlx.DB, logger *slog.Logger) (*Stores, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &Stores{
		Movies:  &PostgresMovieStore{db: db, logger: logger},
		Reviews: &PostgresReviewStore{db: db, logger: logger},
		Ratings: &PostgresRatingStore{db: db, logger: logger},
		Carts:   &PostgresCartStore{db: db, logger: logger},
		Orders:  &PostgresOrderStore{db: db, logger: logger},
		Users:   &PostgresUserStore{db: db, logger: logger},
	}, nil
}

// uniqueViolation returns the violated constraint name when err is a pq unique_violation.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// validID reports whether id is a canonical UUID. Ids come from URL paths, and
// anything else would make Postgres fail the query instead of finding no row.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// noRows reports a missing row, counting input Postgres cannot cast as missing.
func noRows(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgInvalidTextRepresentation
}

// withTx runs fn inside a transaction, rolling back on error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
