package store

import (
	"context"
	"errors"

	"movie-store/internal/domain"
)

// Store errors.
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrDuplicateReview   = errors.New("user has already reviewed this movie")
	ErrAlreadyReported   = errors.New("review has already been reported")
	ErrRatingNotFound    = errors.New("rating not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email or username already exists")
	ErrProfileNotFound   = errors.New("user profile not found")
)

// MovieListParams filters and pages the catalog.
type MovieListParams struct {
	Page        int
	PageSize    int
	SearchQuery string
	Genre       domain.Genre
}

// Offset is the number of rows skipped before the requested page.
func (p MovieListParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// MovieStore persists the catalog.
type MovieStore interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params MovieListParams) ([]*domain.MovieSummary, int, error)
}

// ReviewStore persists reviews.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, reviewID string) (*domain.Review, error)
	GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, reviewID string, userID string) error
	// MarkReported flips is_reported once; a second call returns ErrAlreadyReported.
	MarkReported(ctx context.Context, reviewID string) error
	ListVisibleByMovie(ctx context.Context, movieID string) ([]*domain.Review, error)
	GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error)
}

// RatingStore persists quick ratings.
type RatingStore interface {
	Upsert(ctx context.Context, rating *domain.Rating) error
	GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Rating, error)
	GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error)
}

// CartStore persists carts and their movie membership.
type CartStore interface {
	// GetOrCreate returns the user's cart with its movies loaded.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// AddMovie reports false when the movie was already in the cart.
	AddMovie(ctx context.Context, cartID, movieID string) (bool, error)
	RemoveMovie(ctx context.Context, cartID, movieID string) error
	Clear(ctx context.Context, cartID string) error
}

// OrderStore persists orders and answers the trending aggregation.
type OrderStore interface {
	// PlaceOrder atomically turns the user's cart into order (one item per movie,
	// quantity 1, current price) and empties the cart. It returns ErrCartEmpty
	// without writing anything when the cart has no movies.
	PlaceOrder(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	// TopMovies sums ordered quantity per movie title, filtered by region unless global.
	TopMovies(ctx context.Context, region domain.Region, limit int) ([]*domain.TrendingEntry, error)
}

// UserStore persists accounts and profiles.
type UserStore interface {
	// Register stores the user, its profile and its empty cart together.
	Register(ctx context.Context, user *domain.User, profile *domain.UserProfile, cart *domain.Cart) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.UserProfile) error
}

// Stores bundles every store the application needs.
type Stores struct {
	Movies  MovieStore
	Reviews ReviewStore
	Ratings RatingStore
	Carts   CartStore
	Orders  OrderStore
	Users   UserStore
}
