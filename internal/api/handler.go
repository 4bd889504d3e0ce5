// movie-store/internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"movie-store/internal/domain"
	"movie-store/internal/service"
	"movie-store/internal/store"
	"movie-store/pkg/auth"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	services  *service.Services   // business rules; handlers only decode, validate and map errors
	logger    *slog.Logger        // structured logger
	validator *validator.Validate // request validator with the decimal type func registered
}

func NewHandler(s *service.Services, l *slog.Logger, v *validator.Validate) *Handler {
	return &Handler{
		services:  s,
		logger:    l,
		validator: v,
	}
}

// NewValidator returns a validator that understands decimal.Decimal fields,
// so price tags such as gt=0 compare the numeric value.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, map[string]string{"error": message})
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and returns false on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	ctx := r.Context()
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := h.validator.StructCtx(ctx, dst); err != nil {
		h.logger.WarnContext(ctx, "Request validation failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// decodeOptional is decodeAndValidate for bodies that may be absent.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// writeServiceError maps service and store errors onto HTTP responses.
// Unknown errors are logged and answered with fallback and a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var regionErr *domain.InvalidRegionError
	switch {
	case errors.As(err, &regionErr):
		h.respondError(w, r, http.StatusBadRequest, regionErr.Error())
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidRating):
		h.respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		h.respondError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotReviewOwner):
		h.respondError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrDuplicateReview),
		errors.Is(err, store.ErrCartEmpty),
		errors.Is(err, store.ErrAlreadyReported),
		errors.Is(err, service.ErrSelfReport),
		errors.Is(err, store.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		h.respondError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrMovieNotFound),
		errors.Is(err, store.ErrReviewNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrRatingNotFound):
		h.respondError(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), fallback, slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.respondError(w, r, http.StatusInternalServerError, fallback)
	}
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
