package domain

import (
	"time"
)

// Review is a user's written opinion of a movie. One per (movie, user).
type Review struct {
	ID         string    `json:"id" db:"id"`
	MovieID    string    `json:"movie_id" db:"movie_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"` // 1..5
	Content    string    `json:"content" db:"content"`
	IsReported bool      `json:"is_reported" db:"is_reported"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	Username   string    `json:"username,omitempty" db:"username"` // joined from users, not stored
}

// CreateReviewRequest is the body for reviewing a movie.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Content string `json:"content" validate:"required,max=5000"`
}

// UpdateReviewRequest replaces both editable fields of a review.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Content string `json:"content" validate:"required,max=5000"`
}

// Apply overwrites the editable fields of r.
func (req UpdateReviewRequest) Apply(r *Review, now time.Time) {
	r.Rating = req.Rating
	r.Content = req.Content
	r.UpdatedAt = now
}

// Rating is a quick 1..5 score without text. One per (movie, user).
type Rating struct {
	ID        string    `json:"id" db:"id"`
	MovieID   string    `json:"movie_id" db:"movie_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Value     int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitRatingRequest is the body for quick-rating a movie.
type SubmitRatingRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// AggregatedRating holds an average score and how many scores it covers.
type AggregatedRating struct {
	MovieID       string  `json:"movie_id" db:"movie_id"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	RatingCount   int64   `json:"rating_count" db:"rating_count"`
}

// MovieDetail is the public movie page: reported reviews are already filtered out.
type MovieDetail struct {
	Movie        *Movie            `json:"movie"`
	Cast         []string          `json:"cast_list"`
	Duration     string            `json:"duration_display"`
	Reviews      []*Review         `json:"reviews"`
	ReviewRating *AggregatedRating `json:"review_rating"`
	QuickRating  *AggregatedRating `json:"quick_rating"`
	UserReview   *Review           `json:"user_review,omitempty"`
	UserRating   *Rating           `json:"user_rating,omitempty"`
}
