package service

import (
	"context"
	"fmt"
	"log/slog"

	"movie-store/internal/domain"
	"movie-store/internal/store"
)

// CartResult is a cart mutation outcome with the user-facing notice.
type CartResult struct {
	Cart    *domain.Cart
	Added   bool
	Message string
}

// CartService manages the per-user cart.
type CartService struct {
	carts  store.CartStore
	movies store.MovieStore
	logger *slog.Logger
}

func NewCartService(stores *store.Stores, logger *slog.Logger) *CartService {
	return &CartService{carts: stores.Carts, movies: stores.Movies, logger: logger}
}

// GetCart returns the user's cart, creating it on first use.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// AddToCart puts movieID in the cart once. Adding a movie that is already there
// is not an error: Added is false and the cart is unchanged.
func (s *CartService) AddToCart(ctx context.Context, userID, movieID string) (*CartResult, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	added, err := s.carts.AddMovie(ctx, cart.ID, movie.ID)
	if err != nil {
		return nil, err
	}
	cart, err = s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &CartResult{Cart: cart, Added: added}
	if added {
		result.Message = fmt.Sprintf("%s added to cart!", movie.Title)
		s.logger.InfoContext(ctx, "Movie added to cart", slog.String("userID", userID), slog.String("movieID", movieID))
	} else {
		result.Message = fmt.Sprintf("%s is already in your cart!", movie.Title)
	}
	return result, nil
}

// RemoveFromCart takes movieID out of the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, movieID string) (*CartResult, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveMovie(ctx, cart.ID, movie.ID); err != nil {
		return nil, err
	}
	cart, err = s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartResult{Cart: cart, Message: fmt.Sprintf("%s removed from cart!", movie.Title)}, nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) (*CartResult, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	cart.Movies = []*domain.Movie{}
	return &CartResult{Cart: cart, Message: "Cart cleared!"}, nil
}
