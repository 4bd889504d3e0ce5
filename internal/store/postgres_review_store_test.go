package store

import (
	"context"
	"regexp"
	"testing"

	"movie-store/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateReviewDuplicate(t *testing.T) {
	stores, mock := newSQLMockStores(t)
	review := &domain.Review{ID: uuid.NewString(), MovieID: uuid.NewString(), UserID: uuid.NewString(), Rating: 4, Content: "again"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(review.ID, review.MovieID, review.UserID, 4, "again", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_user_movie_review"})

	err := stores.Reviews.Create(context.Background(), review)
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateReviewOtherConstraint(t *testing.T) {
	stores, mock := newSQLMockStores(t)
	review := &domain.Review{ID: uuid.NewString(), MovieID: uuid.NewString(), UserID: uuid.NewString(), Rating: 4, Content: "x"}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_pkey"})

	err := stores.Reviews.Create(context.Background(), review)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMarkReported(t *testing.T) {
	const (
		reportSQL = "UPDATE reviews SET is_reported = TRUE, updated_at = $1 WHERE id = $2 AND is_reported = FALSE"
		existsSQL = "SELECT EXISTS (SELECT 1 FROM reviews WHERE id = $1)"
	)
	reviewID := uuid.NewString()

	tests := []struct {
		name    string
		rows    int64
		exists  bool
		wantErr error
	}{
		{name: "first report", rows: 1},
		{name: "already reported", rows: 0, exists: true, wantErr: ErrAlreadyReported},
		{name: "missing", rows: 0, exists: false, wantErr: ErrReviewNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, mock := newSQLMockStores(t)
			mock.ExpectExec(exactSQL(reportSQL)).
				WithArgs(sqlmock.AnyArg(), reviewID).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))
			if tt.rows == 0 {
				mock.ExpectQuery(exactSQL(existsSQL)).
					WithArgs(reviewID).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))
			}

			err := stores.Reviews.MarkReported(context.Background(), reviewID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
