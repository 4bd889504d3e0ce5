package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"movie-store/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistration() (*domain.User, *domain.UserProfile, *domain.Cart) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return user, domain.NewUserProfile(user), domain.NewCart(uuid.NewString(), user)
}

func TestPostgresRegisterWritesUserProfileAndCart(t *testing.T) {
	stores, mock := newSQLMockStores(t)
	user, profile, cart := newRegistration()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)")).
		WithArgs(cart.ID, user.ID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, stores.Users.Register(context.Background(), user, profile, cart))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegisterDuplicateRollsBack(t *testing.T) {
	stores, mock := newSQLMockStores(t)
	user, profile, cart := newRegistration()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	err := stores.Users.Register(context.Background(), user, profile, cart)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
