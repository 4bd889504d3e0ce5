package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"movie-store/internal/domain"
	"movie-store/internal/service"

	"github.com/gorilla/mux"
)

type cartResponse struct {
	domain.CartView
	Added   *bool  `json:"added,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, status int, res *service.CartResult, withAdded bool) {
	body := cartResponse{CartView: res.Cart.View(), Message: res.Message}
	if withAdded {
		body.Added = &res.Added
	}
	h.respondJSON(w, r, status, body)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cart, err := h.services.Carts.GetCart(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to load cart")
		return
	}
	h.respondJSON(w, r, http.StatusOK, cart.View())
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	res, err := h.services.Carts.AddToCart(ctx, UserIDFromContext(ctx), movieID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to add movie to cart")
		return
	}
	h.respondCart(w, r, http.StatusOK, res, true)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieID := mux.Vars(r)["movieId"]
	res, err := h.services.Carts.RemoveFromCart(ctx, UserIDFromContext(ctx), movieID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to remove movie from cart")
		return
	}
	h.respondCart(w, r, http.StatusOK, res, false)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.services.Carts.ClearCart(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to clear cart")
		return
	}
	h.respondCart(w, r, http.StatusOK, res, false)
}

// Checkout places an order from the cart. The region comes from the optional
// body, then ?region, then the user's profile, then the default.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	var req domain.CheckoutRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}
	if req.Region == "" {
		req.Region = r.URL.Query().Get("region")
	}
	h.logger.InfoContext(ctx, "Checkout requested", slog.String("userID", userID), slog.String("region", req.Region))

	order, err := h.services.Orders.PlaceOrder(ctx, userID, req.Region)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to place order")
		return
	}
	h.respondJSON(w, r, http.StatusCreated, map[string]interface{}{
		"order":   order.View(),
		"message": fmt.Sprintf("Order #%s placed successfully!", order.ID),
	})
}
