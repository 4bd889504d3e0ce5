package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"movie-store/internal/domain"
	"movie-store/internal/store"
	"movie-store/pkg/auth"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	stores   *store.Stores
	catalog  *CatalogService
	carts    *CartService
	orders   *OrderService
	reviews  *ReviewService
	ratings  *RatingService
	trending *TrendingService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := store.NewMockStores()
	tokens, err := auth.NewTokenManager("service-test-secret-service-test-secret", time.Hour)
	require.NoError(t, err)
	return &testEnv{
		stores:   stores,
		catalog:  NewCatalogService(stores, logger),
		carts:    NewCartService(stores, logger),
		orders:   NewOrderService(stores, domain.DefaultRegion, logger),
		reviews:  NewReviewService(stores, logger),
		ratings:  NewRatingService(stores, logger),
		trending: NewTrendingService(stores, logger),
		users:    NewUserService(stores, tokens, auth.NewMemoryRevoker(), logger),
	}
}

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), domain.RegisterRequest{
		Username:  name,
		Email:     name + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) movie(t *testing.T, title, price string) *domain.Movie {
	t.Helper()
	m, err := e.catalog.CreateMovie(context.Background(), domain.CreateMovieRequest{
		Title:       title,
		Price:       decimal.RequireFromString(price),
		Description: "A movie called " + title,
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) buy(t *testing.T, userID, region string, movies ...*domain.Movie) *domain.Order {
	t.Helper()
	ctx := context.Background()
	for _, m := range movies {
		_, err := e.carts.AddToCart(ctx, userID, m.ID)
		require.NoError(t, err)
	}
	order, err := e.orders.PlaceOrder(ctx, userID, region)
	require.NoError(t, err)
	return order
}

func TestCreateMovieAppliesDefaultsAndRejectsBadPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.movie(t, "Defaults", "9.99")
	assert.Equal(t, domain.GenreDrama, m.Genre)
	assert.Equal(t, domain.RatingPG13, m.ContentRating)
	assert.Equal(t, 2024, m.ReleaseYear)
	assert.Equal(t, 120, m.Duration)
	assert.Equal(t, "English", m.Language)

	for _, price := range []string{"0", "-1.50", "0.004", "100000000"} {
		_, err := env.catalog.CreateMovie(ctx, domain.CreateMovieRequest{
			Title:       "Bad",
			Price:       decimal.RequireFromString(price),
			Description: "bad price",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPrice, price)
	}

	zero := decimal.Zero
	_, err := env.catalog.UpdateMovie(ctx, m.ID, domain.UpdateMovieRequest{Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCheckoutTwoMovies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "buyer")
	a := env.movie(t, "A", "10.00")
	b := env.movie(t, "B", "5.00")

	order := env.buy(t, u.ID, "", a, b)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, 1, item.Quantity)
	}
	assert.Equal(t, "15.00", order.Total().StringFixed(2))
	assert.Equal(t, domain.RegionSoutheast, order.Region)

	cart, err := env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.MovieCount())
}

func TestCheckoutEmptyCartChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "empty")

	_, err := env.orders.PlaceOrder(ctx, u.ID, "west")
	assert.ErrorIs(t, err, store.ErrCartEmpty)

	orders, err := env.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutPriceIsFrozen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "frozen")
	m := env.movie(t, "Frozen", "8.00")

	order := env.buy(t, u.ID, "west", m)

	newPrice := decimal.RequireFromString("20.00")
	_, err := env.catalog.UpdateMovie(ctx, m.ID, domain.UpdateMovieRequest{Price: &newPrice})
	require.NoError(t, err)

	stored, err := env.orders.GetOrder(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "8.00", stored.Total().StringFixed(2))
}

func TestCheckoutRegionResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "regional")
	m := env.movie(t, "Regional", "3.00")

	_, err := env.carts.AddToCart(ctx, u.ID, m.ID)
	require.NoError(t, err)
	_, err = env.orders.PlaceOrder(ctx, u.ID, "atlantis")
	var regionErr *domain.InvalidRegionError
	require.ErrorAs(t, err, &regionErr)
	assert.Equal(t, "atlantis", regionErr.Value)

	cart, err := env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.MovieCount(), "invalid region must not consume the cart")

	midwest := "Midwest"
	_, err = env.users.UpdateProfile(ctx, u.ID, domain.UpdateProfileRequest{Region: &midwest})
	require.NoError(t, err)
	order, err := env.orders.PlaceOrder(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionMidwest, order.Region)

	order = env.buy(t, u.ID, " WEST ", m)
	assert.Equal(t, domain.RegionWest, order.Region)
}

func TestAddToCartTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "twice")
	m := env.movie(t, "Twice", "4.00")

	first, err := env.carts.AddToCart(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.True(t, first.Added)
	assert.Equal(t, "Twice added to cart!", first.Message)

	second, err := env.carts.AddToCart(ctx, u.ID, m.ID)
	require.NoError(t, err)
	assert.False(t, second.Added)
	assert.Equal(t, "Twice is already in your cart!", second.Message)
	assert.Equal(t, 1, second.Cart.MovieCount())
	assert.Equal(t, "4.00", second.Cart.TotalPrice().StringFixed(2))

	_, err = env.carts.AddToCart(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, store.ErrMovieNotFound)
}

func TestRemoveAndClearCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "remover")
	a := env.movie(t, "A", "1.00")
	b := env.movie(t, "B", "2.00")
	_, err := env.carts.AddToCart(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = env.carts.AddToCart(ctx, u.ID, b.ID)
	require.NoError(t, err)

	res, err := env.carts.RemoveFromCart(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cart.MovieCount())
	assert.Equal(t, "A removed from cart!", res.Message)

	res, err = env.carts.ClearCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Cart.MovieCount())
}

func TestDuplicateReviewKeepsFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "critic")
	m := env.movie(t, "Critiqued", "6.00")

	first, err := env.reviews.CreateReview(ctx, u.ID, m.ID, domain.CreateReviewRequest{Rating: 4, Content: "Good"})
	require.NoError(t, err)
	_, err = env.reviews.CreateReview(ctx, u.ID, m.ID, domain.CreateReviewRequest{Rating: 1, Content: "Changed my mind"})
	assert.ErrorIs(t, err, store.ErrDuplicateReview)

	stored, err := env.stores.Reviews.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Rating)
	assert.Equal(t, "Good", stored.Content)
}

func TestReviewOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	other := env.user(t, "other")
	m := env.movie(t, "Owned", "6.00")

	review, err := env.reviews.CreateReview(ctx, owner.ID, m.ID, domain.CreateReviewRequest{Rating: 3, Content: "Fine"})
	require.NoError(t, err)

	_, err = env.reviews.UpdateReview(ctx, other.ID, review.ID, domain.UpdateReviewRequest{Rating: 1, Content: "Hijack"})
	assert.ErrorIs(t, err, ErrNotReviewOwner)
	assert.ErrorIs(t, env.reviews.DeleteReview(ctx, other.ID, review.ID), ErrNotReviewOwner)

	updated, err := env.reviews.UpdateReview(ctx, owner.ID, review.ID, domain.UpdateReviewRequest{Rating: 5, Content: "Great on rewatch"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	_, err = env.reviews.UpdateReview(ctx, owner.ID, review.ID, domain.UpdateReviewRequest{Rating: 6, Content: "Too high"})
	assert.ErrorIs(t, err, ErrInvalidRating)

	require.NoError(t, env.reviews.DeleteReview(ctx, owner.ID, review.ID))
	_, err = env.stores.Reviews.GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, store.ErrReviewNotFound)
}

func TestReportReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	reporter := env.user(t, "reporter")
	m := env.movie(t, "Reported", "6.00")

	review, err := env.reviews.CreateReview(ctx, author.ID, m.ID, domain.CreateReviewRequest{Rating: 2, Content: "Spam"})
	require.NoError(t, err)

	_, err = env.reviews.ReportReview(ctx, author.ID, review.ID)
	assert.ErrorIs(t, err, ErrSelfReport)

	reported, err := env.reviews.ReportReview(ctx, reporter.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, reported.IsReported)

	_, err = env.reviews.ReportReview(ctx, reporter.ID, review.ID)
	assert.ErrorIs(t, err, store.ErrAlreadyReported)

	detail, err := env.catalog.GetMovieDetail(ctx, m.ID, "")
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)
	assert.Equal(t, int64(1), detail.ReviewRating.RatingCount, "average still covers reported reviews")
}

func TestMovieDetailForViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "viewer")
	m, err := env.catalog.CreateMovie(ctx, domain.CreateMovieRequest{
		Title:       "The Dark Knight",
		Price:       decimal.RequireFromString("12.99"),
		Description: "Batman",
		Cast:        "Christian Bale, Heath Ledger ,",
		Duration:    152,
	})
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(ctx, u.ID, m.ID, domain.CreateReviewRequest{Rating: 5, Content: "Legendary"})
	require.NoError(t, err)
	_, _, err = env.ratings.SubmitRating(ctx, u.ID, m.ID, 4)
	require.NoError(t, err)

	detail, err := env.catalog.GetMovieDetail(ctx, m.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Christian Bale", "Heath Ledger"}, detail.Cast)
	assert.Equal(t, "2h 32m", detail.Duration)
	require.NotNil(t, detail.UserReview)
	require.NotNil(t, detail.UserRating)
	assert.Equal(t, 4, detail.UserRating.Value)
	assert.InDelta(t, 5.0, detail.ReviewRating.AverageRating, 0.001)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "viewer", detail.Reviews[0].Username)

	_, err = env.catalog.GetMovieDetail(ctx, "missing", "")
	assert.ErrorIs(t, err, store.ErrMovieNotFound)
}

func TestSubmitRatingReplacesPrevious(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "rater1")
	b := env.user(t, "rater2")
	m := env.movie(t, "Rated", "2.00")

	_, _, err := env.ratings.SubmitRating(ctx, a.ID, m.ID, 1)
	require.NoError(t, err)
	_, _, err = env.ratings.SubmitRating(ctx, a.ID, m.ID, 3)
	require.NoError(t, err)
	_, summary, err := env.ratings.SubmitRating(ctx, b.ID, m.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.RatingCount)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)

	_, _, err = env.ratings.SubmitRating(ctx, a.ID, m.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestTrending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "trendsetter")
	x := env.movie(t, "X", "1.00")
	y := env.movie(t, "Y", "1.00")

	env.buy(t, u.ID, "west", x)
	env.buy(t, u.ID, "west", x, y)

	west, err := env.trending.Trending(ctx, "west")
	require.NoError(t, err)
	global, err := env.trending.Trending(ctx, "GLOBAL")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionGlobal, global.Region)
	assert.Equal(t, west.Top, global.Top, "all orders share one region")
	require.Len(t, west.Top, 2)
	assert.Equal(t, "X", west.Top[0].Title)
	assert.Equal(t, int64(2), west.Top[0].Count)

	east, err := env.trending.Trending(ctx, "northeast")
	require.NoError(t, err)
	assert.Empty(t, east.Top)

	_, err = env.trending.Trending(ctx, "mars")
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)
	assert.EqualError(t, err, "invalid region: mars")
}

func TestTrendingLimitsToTen(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "bulk")
	var movies []*domain.Movie
	for i := 0; i < 12; i++ {
		movies = append(movies, env.movie(t, string(rune('A'+i)), "1.00"))
	}
	env.buy(t, u.ID, "west", movies...)

	got, err := env.trending.Trending(context.Background(), "global")
	require.NoError(t, err)
	require.Len(t, got.Top, domain.TrendingLimit)
	assert.Equal(t, "A", got.Top[0].Title)
	assert.Equal(t, "J", got.Top[9].Title)
}

func TestPopularity(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "popular")
	m := env.movie(t, "Pop", "1.00")
	env.buy(t, u.ID, "southwest", m)

	pop, err := env.trending.Popularity(context.Background())
	require.NoError(t, err)
	assert.Len(t, pop.Regions, len(domain.Regions)+1)
	assert.Len(t, pop.Regions[domain.RegionSouthwest], 1)
	assert.Len(t, pop.Regions[domain.RegionGlobal], 1)
	assert.Empty(t, pop.Regions[domain.RegionWest])
}

func TestOrderStatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "shipper")
	m := env.movie(t, "Shipped", "1.00")
	order := env.buy(t, u.ID, "west", m)

	_, err := env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	for _, next := range []domain.OrderStatus{domain.OrderStatusProcessing, domain.OrderStatusShipped, domain.OrderStatusDelivered} {
		updated, err := env.orders.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}
	_, err = env.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestGetOrderOfAnotherUser(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "mine")
	stranger := env.user(t, "yours")
	m := env.movie(t, "Private", "1.00")
	order := env.buy(t, owner.ID, "west", m)

	_, err := env.orders.GetOrder(context.Background(), stranger.ID, order.ID)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "session")

	_, err := env.users.Login(ctx, domain.LoginRequest{Email: "session@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.users.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := env.users.Login(ctx, domain.LoginRequest{Email: "Session@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)

	claims, err := env.users.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)

	require.NoError(t, env.users.Logout(ctx, claims))
	_, err = env.users.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegisterCreatesProfileAndCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "newbie")

	account, err := env.users.GetAccount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, account.Profile.UserID)
	assert.Empty(t, account.Profile.Region)

	cart, err := env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.MovieCount())

	_, err = env.users.Register(ctx, domain.RegisterRequest{
		Username: "newbie", Email: "other@example.com", FirstName: "N", LastName: "B", Password: "password123",
	})
	assert.ErrorIs(t, err, store.ErrUserAlreadyExists)

	bad := "moon"
	_, err = env.users.UpdateProfile(ctx, u.ID, domain.UpdateProfileRequest{Region: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRegion)
}

func TestListMoviesPaging(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 13; i++ {
		env.movie(t, "Film "+string(rune('a'+i)), "1.00")
	}
	page, err := env.catalog.ListMovies(context.Background(), 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Movies, CatalogPageSize)
	assert.Equal(t, 2, page.TotalPages)

	page, err = env.catalog.ListMovies(context.Background(), 2, "film", domain.GenreDrama)
	require.NoError(t, err)
	assert.Len(t, page.Movies, 1)
}
