package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-store/internal/domain"
	"movie-store/internal/service"
	"movie-store/internal/store"
	"movie-store/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t        *testing.T
	router   http.Handler
	services *service.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenManager("api-test-secret-api-test-secret-api", time.Hour)
	require.NoError(t, err)
	services := service.New(store.NewMockStores(), tokens, auth.NewMemoryRevoker(), domain.DefaultRegion, logger)
	return &testServer{
		t:        t,
		router:   NewRouter(NewHandler(services, logger, NewValidator())),
		services: services,
	}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(username, role string) string {
	s.t.Helper()
	ctx := context.Background()
	req := domain.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}
	var err error
	if role == domain.RoleAdmin {
		_, err = s.services.Users.RegisterAdmin(ctx, req)
	} else {
		_, err = s.services.Users.Register(ctx, req)
	}
	require.NoError(s.t, err)
	resp, err := s.services.Users.Login(ctx, domain.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(s.t, err)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *testServer) createMovie(adminToken, title, price string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/movies", adminToken, map[string]interface{}{
		"title":       title,
		"price":       price,
		"description": "About " + title,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(s.t, rec)["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrendingInvalidRegion(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/trending/atlantis", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid region: atlantis"}`, rec.Body.String())
}

func TestTrendingGlobalEmpty(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/trending/global", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"region":"global","top":[]}`, rec.Body.String())
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	userToken := s.login("plain", domain.RoleUser)
	body := map[string]interface{}{"title": "Nope", "price": "1.00", "description": "x"}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/movies", "", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/movies", userToken, body).Code)
}

func TestCreateMovieValidation(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("boss", domain.RoleAdmin)

	for _, price := range []interface{}{"0", "-3.50", 0, "0.004", "9.995", "123456789.00"} {
		rec := s.do(http.MethodPost, "/api/movies", adminToken, map[string]interface{}{
			"title": "Free", "price": price, "description": "x",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "price %v", price)
	}

	rec := s.do(http.MethodPost, "/api/movies", adminToken, map[string]interface{}{
		"title": "Numeric", "price": 12.99, "description": "x", "genre": "sci-fi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "12.99", body["price"])
	assert.Equal(t, "sci-fi", body["genre"])
	assert.Equal(t, "PG-13", body["rating"])
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", domain.RoleAdmin)
	token := s.login("shopper", domain.RoleUser)
	a := s.createMovie(adminToken, "A", "10.00")
	b := s.createMovie(adminToken, "B", "5.00")

	rec := s.do(http.MethodPost, "/api/cart/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"cart is empty"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/cart/movies/"+a, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["added"])
	s.do(http.MethodPost, "/api/cart/movies/"+b, token, nil)

	rec = s.do(http.MethodPost, "/api/cart/movies/"+a, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["added"])
	assert.Equal(t, "A is already in your cart!", body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "15", body["total"])

	rec = s.do(http.MethodPost, "/api/cart/checkout", token, map[string]string{"region": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid region: nowhere"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/cart/checkout", token, map[string]string{"region": "west"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)["order"].(map[string]interface{})
	assert.Equal(t, "15", order["total"])
	assert.Equal(t, "west", order["region"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"], 2)

	rec = s.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode(t, rec)["count"])

	rec = s.do(http.MethodGet, "/api/trending/WEST", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trending := decode(t, rec)
	assert.Equal(t, "west", trending["region"])
	assert.Len(t, trending["top"], 2)

	rec = s.do(http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["orders"], 1)

	other := s.login("stranger", domain.RoleUser)
	rec = s.do(http.MethodGet, "/api/orders/"+order["id"].(string), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/orders/"+order["id"].(string)+"/status", token, map[string]string{"status": "processing"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodPut, "/api/orders/"+order["id"].(string)+"/status", adminToken, map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(http.MethodPut, "/api/orders/"+order["id"].(string)+"/status", adminToken, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "processing", decode(t, rec)["status"])
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", domain.RoleAdmin)
	author := s.login("author", domain.RoleUser)
	reader := s.login("reader", domain.RoleUser)
	movieID := s.createMovie(adminToken, "Reviewed", "9.00")

	rec := s.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, map[string]interface{}{"rating": 6, "content": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, map[string]interface{}{"rating": 4, "content": "Solid"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewID := decode(t, rec)["review"].(map[string]interface{})["id"].(string)

	rec = s.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, map[string]interface{}{"rating": 1, "content": "Again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPut, "/api/reviews/"+reviewID, reader, map[string]interface{}{"rating": 1, "content": "Mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/reviews/"+reviewID+"/report", author, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/movies/"+movieID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["reviews"], 1)

	rec = s.do(http.MethodPost, "/api/reviews/"+reviewID+"/report", reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/reviews/"+reviewID+"/report", reader, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/movies/"+movieID, author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.Empty(t, detail["reviews"])
	assert.NotNil(t, detail["user_review"])
}

func TestQuickRating(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin", domain.RoleAdmin)
	token := s.login("rater", domain.RoleUser)
	movieID := s.createMovie(adminToken, "Rated", "2.00")

	rec := s.do(http.MethodPost, "/api/movies/"+movieID+"/rating", token, map[string]int{"rating": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/movies/"+movieID+"/rating", token, map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["rating_count"])
	assert.Equal(t, float64(5), summary["average_rating"])

	rec = s.do(http.MethodPost, "/api/movies/missing/rating", token, map[string]int{"rating": 5})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login("leaver", domain.RoleUser)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/users/me", token, nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/users/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/me", token, nil).Code)
}

func TestRegisterAndProfile(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "ab", "email": "bad", "first_name": "A", "last_name": "B", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := map[string]string{
		"username": "newuser", "email": "new@example.com", "first_name": "New", "last_name": "User", "password": "secret123",
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/users/register", "", body).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/users/register", "", body).Code)

	rec = s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "new@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "new@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)

	rec = s.do(http.MethodPut, "/api/users/me", token, map[string]string{"region": "pluto"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPut, "/api/users/me", token, map[string]string{"region": "Northeast", "bio": "Film buff"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)["profile"].(map[string]interface{})
	assert.Equal(t, "northeast", profile["region"])
	assert.Equal(t, "Film buff", profile["bio"])
}
