// movie-store/internal/store/postgres_order_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresOrderStore implements OrderStore on PostgreSQL.
type PostgresOrderStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// PlaceOrder runs the whole checkout in one transaction. The cart row is locked
// FOR UPDATE, so a concurrent checkout by the same user waits and then sees an
// empty cart.
func (s *PostgresOrderStore) PlaceOrder(ctx context.Context, order *domain.Order) error {
	s.logger.DebugContext(ctx, "Placing order", slog.String("userID", order.UserID), slog.String("region", string(order.Region)))

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var cartID string
		err := tx.GetContext(ctx, &cartID, `SELECT id FROM carts WHERE user_id = $1 FOR UPDATE`, order.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartEmpty
		}
		if err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		movies, err := cartMovies(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if len(movies) == 0 {
			return ErrCartEmpty
		}

		now := time.Now().UTC()
		if order.Status == "" {
			order.Status = domain.OrderStatusPending
		}
		order.CreatedAt = now
		order.UpdatedAt = now
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, status, region, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, order.UserID, order.Status, order.Region, order.CreatedAt, order.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		order.Items = make([]*domain.OrderItem, 0, len(movies))
		for _, m := range movies {
			item := &domain.OrderItem{
				ID:         uuid.NewString(),
				OrderID:    order.ID,
				MovieID:    m.ID,
				MovieTitle: m.Title,
				Quantity:   1,
				Price:      m.Price,
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (id, order_id, movie_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
				item.ID, item.OrderID, item.MovieID, item.Quantity, item.Price,
			); err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
			order.Items = append(order.Items, item)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_movies WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, now, cartID); err != nil {
			return fmt.Errorf("failed to update cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartEmpty) {
			s.logger.InfoContext(ctx, "Checkout attempted with empty cart", slog.String("userID", order.UserID))
			return err
		}
		s.logger.ErrorContext(ctx, "Failed to place order", slog.String("userID", order.UserID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to place order: %w", err)
	}
	s.logger.InfoContext(ctx, "Order placed successfully in DB", slog.String("orderID", order.ID), slog.Int("items", len(order.Items)))
	return nil
}

// GetByID loads an order with its items.
func (s *PostgresOrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	if !validID(orderID) {
		s.logger.WarnContext(ctx, "Malformed order ID", slog.String("orderID", orderID))
		return nil, ErrOrderNotFound
	}
	var order domain.Order
	err := s.db.GetContext(ctx, &order, `SELECT id, user_id, status, region, created_at, updated_at FROM orders WHERE id = $1`, orderID)
	if err != nil {
		if noRows(err) {
			s.logger.WarnContext(ctx, "Order not found by ID in DB", slog.String("orderID", orderID))
			return nil, ErrOrderNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get order by ID from DB", slog.String("orderID", orderID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	if err := s.loadItems(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first, with items.
func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	query := `SELECT id, user_id, status, region, created_at, updated_at FROM orders
              WHERE user_id = $1 ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &orders, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list orders from DB", slog.String("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if err := s.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *PostgresOrderStore) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		o.Items = []*domain.OrderItem{}
		byID[o.ID] = o
	}

	query, args, err := sqlx.In(`SELECT oi.id, oi.order_id, oi.movie_id, m.title AS movie_title, oi.quantity, oi.price
                                 FROM order_items oi JOIN movies m ON m.id = oi.movie_id
                                 WHERE oi.order_id IN (?) ORDER BY m.title`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order items query: %w", err)
	}
	var items []*domain.OrderItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load order items from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return nil
}

// UpdateStatus moves an order to a new status.
func (s *PostgresOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !validID(orderID) {
		return ErrOrderNotFound
	}
	result, err := s.db.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update order status in DB", slog.String("orderID", orderID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrOrderNotFound
	}
	s.logger.InfoContext(ctx, "Order status updated successfully in DB", slog.String("orderID", orderID), slog.String("new_status", string(status)))
	return nil
}

// TopMovies is the trending aggregation: SUM(quantity) per title over all order items,
// optionally restricted to orders of one region.
func (s *PostgresOrderStore) TopMovies(ctx context.Context, region domain.Region, limit int) ([]*domain.TrendingEntry, error) {
	query := `SELECT m.title AS title, SUM(oi.quantity) AS count
              FROM order_items oi
              JOIN orders o ON o.id = oi.order_id
              JOIN movies m ON m.id = oi.movie_id`
	args := []interface{}{}
	if !region.IsGlobal() {
		query += ` WHERE o.region = $1`
		args = append(args, region)
	}
	query += fmt.Sprintf(` GROUP BY m.title ORDER BY count DESC, m.title ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	entries := []*domain.TrendingEntry{}
	s.logger.DebugContext(ctx, "Executing TopMovies query", slog.String("region", string(region)), slog.Int("limit", limit))
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to aggregate trending movies", slog.String("region", string(region)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate trending movies: %w", err)
	}
	return entries, nil
}
