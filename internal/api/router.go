// movie-store/internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every HTTP endpoint under /api.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(h.RecoverMiddleware, h.LoggingMiddleware)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	user := func(fn http.HandlerFunc) http.Handler { return h.AuthMiddleware(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return h.AuthMiddleware(h.AdminOnly(fn)) }

	// Users
	usersRouter := apiRouter.PathPrefix("/users").Subrouter()
	usersRouter.HandleFunc("/register", h.RegisterUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("/login", h.LoginUser).Methods(http.MethodPost)
	usersRouter.Handle("/logout", user(h.LogoutUser)).Methods(http.MethodPost)
	meRouter := usersRouter.PathPrefix("/me").Subrouter()
	meRouter.Use(h.AuthMiddleware)
	meRouter.HandleFunc("", h.GetUserProfile).Methods(http.MethodGet)
	meRouter.HandleFunc("", h.UpdateUserProfile).Methods(http.MethodPut)

	// Catalog: public reads, admin writes, user reviews and ratings.
	moviesRouter := apiRouter.PathPrefix("/movies").Subrouter()
	moviesRouter.HandleFunc("", h.GetMovies).Methods(http.MethodGet)
	moviesRouter.Handle("", admin(h.CreateMovie)).Methods(http.MethodPost)
	moviesRouter.Handle("/{movieId}", h.OptionalAuthMiddleware(http.HandlerFunc(h.GetMovieByID))).Methods(http.MethodGet)
	moviesRouter.Handle("/{movieId}", admin(h.UpdateMovie)).Methods(http.MethodPut)
	moviesRouter.Handle("/{movieId}", admin(h.DeleteMovie)).Methods(http.MethodDelete)
	moviesRouter.Handle("/{movieId}/reviews", user(h.CreateReview)).Methods(http.MethodPost)
	moviesRouter.Handle("/{movieId}/rating", user(h.SubmitRating)).Methods(http.MethodPost)

	// Reviews
	reviewsRouter := apiRouter.PathPrefix("/reviews").Subrouter()
	reviewsRouter.Use(h.AuthMiddleware)
	reviewsRouter.HandleFunc("/{reviewId}", h.UpdateReview).Methods(http.MethodPut)
	reviewsRouter.HandleFunc("/{reviewId}", h.DeleteReview).Methods(http.MethodDelete)
	reviewsRouter.HandleFunc("/{reviewId}/report", h.ReportReview).Methods(http.MethodPost)

	// Cart and checkout
	cartRouter := apiRouter.PathPrefix("/cart").Subrouter()
	cartRouter.Use(h.AuthMiddleware)
	cartRouter.HandleFunc("", h.GetCart).Methods(http.MethodGet)
	cartRouter.HandleFunc("", h.ClearCart).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/movies/{movieId}", h.AddToCart).Methods(http.MethodPost)
	cartRouter.HandleFunc("/movies/{movieId}", h.RemoveFromCart).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/checkout", h.Checkout).Methods(http.MethodPost)

	// Orders
	ordersRouter := apiRouter.PathPrefix("/orders").Subrouter()
	ordersRouter.Use(h.AuthMiddleware)
	ordersRouter.HandleFunc("", h.GetOrders).Methods(http.MethodGet)
	ordersRouter.HandleFunc("/{orderId}", h.GetOrder).Methods(http.MethodGet)
	ordersRouter.Handle("/{orderId}/status", h.AdminOnly(http.HandlerFunc(h.UpdateOrderStatus))).Methods(http.MethodPut)

	// Trending
	apiRouter.HandleFunc("/trending/{region}", h.GetTrending).Methods(http.MethodGet)
	apiRouter.HandleFunc("/popularity", h.GetPopularity).Methods(http.MethodGet)

	return router
}
