package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"movie-store/internal/domain"
	"movie-store/internal/store"

	"github.com/google/uuid"
)

// OrderService places orders from carts and serves order history.
type OrderService struct {
	orders        store.OrderStore
	users         store.UserStore
	defaultRegion domain.Region
	logger        *slog.Logger
}

func NewOrderService(stores *store.Stores, defaultRegion domain.Region, logger *slog.Logger) *OrderService {
	if defaultRegion == "" {
		defaultRegion = domain.DefaultRegion
	}
	return &OrderService{orders: stores.Orders, users: stores.Users, defaultRegion: defaultRegion, logger: logger}
}

// ResolveRegion picks the order region: the explicit request value, else the
// user's profile region, else the default. An explicit invalid value is an error.
func (s *OrderService) ResolveRegion(ctx context.Context, userID, requested string) (domain.Region, error) {
	if strings.TrimSpace(requested) != "" {
		return domain.ParseRegion(requested)
	}
	profile, err := s.users.GetProfile(ctx, userID)
	switch {
	case err == nil:
		if profile.Region != "" {
			if region, err := domain.ParseRegion(string(profile.Region)); err == nil {
				return region, nil
			}
		}
	case !errors.Is(err, store.ErrProfileNotFound):
		return "", err
	}
	return s.defaultRegion, nil
}

// PlaceOrder turns the user's cart into a pending order. Each distinct movie
// becomes one item with quantity 1 at the movie's current price, and the cart
// is emptied, all atomically. An empty cart yields store.ErrCartEmpty and
// changes nothing.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, requestedRegion string) (*domain.Order, error) {
	region, err := s.ResolveRegion(ctx, userID, requestedRegion)
	if err != nil {
		return nil, err
	}
	order := &domain.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: domain.OrderStatusPending,
		Region: region,
	}
	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Order placed",
		slog.String("orderID", order.ID),
		slog.String("userID", userID),
		slog.String("region", string(region)),
		slog.String("total", order.Total().StringFixed(2)))
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder returns one of the user's orders. Orders of other users are
// reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		s.logger.WarnContext(ctx, "Order requested by non-owner", slog.String("orderID", orderID), slog.String("userID", userID))
		return nil, store.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(order.Status, status); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Order status changed",
		slog.String("orderID", orderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)))
	return s.orders.GetByID(ctx, orderID)
}
