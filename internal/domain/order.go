package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidStatusTransition is returned when an order cannot move to the requested status.
var ErrInvalidStatusTransition = errors.New("invalid order status transition")

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable checkout record. Its movies are only reachable through Items.
type Order struct {
	ID        string       `json:"id" db:"id"`
	UserID    string       `json:"user_id" db:"user_id"`
	Status    OrderStatus  `json:"status" db:"status"`
	Region    Region       `json:"region" db:"region"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	Items     []*OrderItem `json:"items"`
}

// OrderItem is a line of an order with the movie price frozen at purchase time.
type OrderItem struct {
	ID         string          `json:"id" db:"id"`
	OrderID    string          `json:"order_id" db:"order_id"`
	MovieID    string          `json:"movie_id" db:"movie_id"`
	MovieTitle string          `json:"movie_title" db:"movie_title"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Price      decimal.Decimal `json:"price" db:"price"`
}

// Total is quantity times the snapshotted price.
func (i *OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the totals of all items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// OrderView is the JSON shape of an order with its computed total.
type OrderView struct {
	*Order
	Total decimal.Decimal `json:"total"`
}

// View wraps o with its total for rendering.
func (o *Order) View() OrderView {
	return OrderView{Order: o, Total: o.Total()}
}

// CheckoutRequest is the optional body of a place-order call.
type CheckoutRequest struct {
	Region string `json:"region,omitempty"`
}

// UpdateOrderStatusRequest is the admin body for moving an order along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// ValidateTransition returns ErrInvalidStatusTransition when from cannot move to to.
func ValidateTransition(from, to OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	return nil
}
