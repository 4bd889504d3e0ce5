package service

import (
	"log/slog"

	"movie-store/internal/domain"
	"movie-store/internal/store"
	"movie-store/pkg/auth"
)

// Services bundles every application service.
type Services struct {
	Catalog  *CatalogService
	Carts    *CartService
	Orders   *OrderService
	Reviews  *ReviewService
	Ratings  *RatingService
	Trending *TrendingService
	Users    *UserService
}

// New wires all services on top of stores.
func New(stores *store.Stores, tokens auth.TokenManager, revoker auth.Revoker, defaultRegion domain.Region, logger *slog.Logger) *Services {
	return &Services{
		Catalog:  NewCatalogService(stores, logger),
		Carts:    NewCartService(stores, logger),
		Orders:   NewOrderService(stores, defaultRegion, logger),
		Reviews:  NewReviewService(stores, logger),
		Ratings:  NewRatingService(stores, logger),
		Trending: NewTrendingService(stores, logger),
		Users:    NewUserService(stores, tokens, revoker, logger),
	}
}
