package api

import (
	"net/http"

	"movie-store/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := h.services.Orders.ListOrders(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to load orders")
		return
	}
	views := make([]domain.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, o.View())
	}
	h.respondJSON(w, r, http.StatusOK, map[string]interface{}{"orders": views})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := mux.Vars(r)["orderId"]
	order, err := h.services.Orders.GetOrder(ctx, UserIDFromContext(ctx), orderID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to load order")
		return
	}
	h.respondJSON(w, r, http.StatusOK, order.View())
}

// UpdateOrderStatus is the admin endpoint for moving an order along its lifecycle.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := mux.Vars(r)["orderId"]
	var req domain.UpdateOrderStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	order, err := h.services.Orders.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update order status")
		return
	}
	h.respondJSON(w, r, http.StatusOK, order.View())
}
