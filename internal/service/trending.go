package service

import (
	"context"
	"log/slog"

	"movie-store/internal/domain"
	"movie-store/internal/store"
)

// TrendingService computes the most-ordered movies, per region or globally.
// Results are recomputed on every call.
type TrendingService struct {
	orders store.OrderStore
	logger *slog.Logger
}

func NewTrendingService(stores *store.Stores, logger *slog.Logger) *TrendingService {
	return &TrendingService{orders: stores.Orders, logger: logger}
}

// Trending returns the top movies for region, which may also be "global".
// An unknown region yields a *domain.InvalidRegionError.
func (s *TrendingService) Trending(ctx context.Context, region string) (*domain.Trending, error) {
	r, err := domain.ParseTrendingRegion(region)
	if err != nil {
		s.logger.WarnContext(ctx, "Trending requested for unknown region", slog.String("region", region))
		return nil, err
	}
	top, err := s.orders.TopMovies(ctx, r, domain.TrendingLimit)
	if err != nil {
		return nil, err
	}
	return &domain.Trending{Region: r, Top: top}, nil
}

// Popularity returns the trending lists of every region plus global.
func (s *TrendingService) Popularity(ctx context.Context) (*domain.PopularityMap, error) {
	regions := append([]domain.Region{domain.RegionGlobal}, domain.Regions...)
	result := &domain.PopularityMap{Regions: make(map[domain.Region][]*domain.TrendingEntry, len(regions))}
	for _, r := range regions {
		top, err := s.orders.TopMovies(ctx, r, domain.TrendingLimit)
		if err != nil {
			return nil, err
		}
		result.Regions[r] = top
	}
	return result, nil
}
