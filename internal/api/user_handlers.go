package api

import (
	"log/slog"
	"net/http"

	"movie-store/internal/domain"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP RegisterUser request received", slog.String("path", r.URL.Path))

	var req domain.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.services.Users.Register(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Error processing registration")
		return
	}
	h.respondJSON(w, r, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "Registration successful!",
	})
}

func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := h.services.Users.Login(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Error processing login")
		return
	}
	h.respondJSON(w, r, http.StatusOK, resp)
}

// LogoutUser revokes the token the request was authenticated with.
func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.services.Users.Logout(ctx, claimsFromContext(ctx)); err != nil {
		h.writeServiceError(w, r, err, "Error processing logout")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{"message": "You have been logged out."})
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := h.services.Users.GetAccount(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err, "Error retrieving user profile")
		return
	}
	h.respondJSON(w, r, http.StatusOK, account)
}

func (h *Handler) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	account, err := h.services.Users.UpdateProfile(ctx, UserIDFromContext(ctx), req)
	if err != nil {
		h.writeServiceError(w, r, err, "Error updating user profile")
		return
	}
	h.respondJSON(w, r, http.StatusOK, account)
}
