package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a user's pending selection. It stores movie references only;
// prices are read from the movies whenever the cart is rendered.
type Cart struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Movies    []*Movie  `json:"movies"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TotalPrice sums the current price of every movie in the cart.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, m := range c.Movies {
		total = total.Add(m.Price)
	}
	return total
}

// MovieCount is the number of distinct movies in the cart.
func (c *Cart) MovieCount() int {
	return len(c.Movies)
}

// Contains reports whether movieID is already in the cart.
func (c *Cart) Contains(movieID string) bool {
	for _, m := range c.Movies {
		if m.ID == movieID {
			return true
		}
	}
	return false
}

// CartView is the JSON shape of a cart with live totals.
type CartView struct {
	*Cart
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// View wraps c with its live totals.
func (c *Cart) View() CartView {
	return CartView{Cart: c, Total: c.TotalPrice(), Count: c.MovieCount()}
}
