// movie-store/internal/store/postgres_user_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresUserStore implements UserStore on PostgreSQL.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Register inserts the user, its profile and its empty cart in one transaction.
func (s *PostgresUserStore) Register(ctx context.Context, user *domain.User, profile *domain.UserProfile, cart *domain.Cart) error {
	s.logger.DebugContext(ctx, "Executing Register user transaction",
		slog.String("userID", user.ID), slog.String("email", user.Email), slog.String("username", user.Username))

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO users (id, username, email, first_name, last_name, password_hash, role, created_at, updated_at)
             VALUES (:id, :username, :email, :first_name, :last_name, :password_hash, :role, :created_at, :updated_at)`,
			user,
		); err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO user_profiles (user_id, bio, picture, region, created_at, updated_at)
             VALUES (:user_id, :bio, :picture, :region, :created_at, :updated_at)`,
			profile,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt,
		)
		return err
	})
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			s.logger.WarnContext(ctx, "User already exists (unique constraint violation in DB)",
				slog.String("email", user.Email),
				slog.String("username", user.Username),
				slog.String("constraint_name", constraint))
			return ErrUserAlreadyExists
		}
		s.logger.ErrorContext(ctx, "Failed to register user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to register user: %w", err)
	}
	s.logger.InfoContext(ctx, "User registered successfully in DB", slog.String("userID", user.ID))
	return nil
}

// GetByID finds a user by id.
func (s *PostgresUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}
	return s.getBy(ctx, "id", userID)
}

// GetByEmail finds a user by email.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *PostgresUserStore) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `SELECT id, username, email, first_name, last_name, password_hash, role, created_at, updated_at
              FROM users WHERE ` + column + ` = $1`
	var user domain.User

	s.logger.DebugContext(ctx, "Executing GetUser query", slog.String("by", column))
	if err := s.db.GetContext(ctx, &user, query, value); err != nil {
		if noRows(err) {
			s.logger.WarnContext(ctx, "User not found in DB", slog.String("by", column))
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get user from DB", slog.String("by", column), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &user, nil
}

// GetProfile loads the profile of a user.
func (s *PostgresUserStore) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT user_id, bio, picture, region, created_at, updated_at FROM user_profiles WHERE user_id = $1`
	var profile domain.UserProfile
	if !validID(userID) {
		return nil, ErrProfileNotFound
	}
	if err := s.db.GetContext(ctx, &profile, query, userID); err != nil {
		if noRows(err) {
			return nil, ErrProfileNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get profile from DB", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile writes the editable profile fields.
func (s *PostgresUserStore) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	result, err := s.db.NamedExecContext(ctx,
		`UPDATE user_profiles SET bio = :bio, picture = :picture, region = :region, updated_at = :updated_at
         WHERE user_id = :user_id`,
		profile,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update profile in DB", slog.String("userID", profile.UserID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		s.logger.WarnContext(ctx, "No profile found to update in DB", slog.String("userID", profile.UserID))
		return ErrProfileNotFound
	}
	s.logger.InfoContext(ctx, "Profile updated successfully in DB", slog.String("userID", profile.UserID))
	return nil
}
