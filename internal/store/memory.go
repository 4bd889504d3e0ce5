package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-store/internal/domain"

	"github.com/google/uuid"
)

// memDB is the shared state behind the Mock stores. A single mutex guards every
// table so multi-table operations such as PlaceOrder are atomic.
type memDB struct {
	mu       sync.RWMutex
	movies   map[string]*domain.Movie
	reviews  map[string]*domain.Review
	ratings  map[string]*domain.Rating // key: movieID + "/" + userID
	carts    map[string]*memCart       // key: userID
	orders   map[string]*domain.Order
	users    map[string]*domain.User
	profiles map[string]*domain.UserProfile
}

type memCart struct {
	cart     domain.Cart
	movieIDs []string // in insertion order
}

// NewMockStores returns in-memory stores sharing one backing state. They are used
// by tests and by STORE_DRIVER=memory.
func NewMockStores() *Stores {
	db := &memDB{
		movies:   make(map[string]*domain.Movie),
		reviews:  make(map[string]*domain.Review),
		ratings:  make(map[string]*domain.Rating),
		carts:    make(map[string]*memCart),
		orders:   make(map[string]*domain.Order),
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.UserProfile),
	}
	return &Stores{
		Movies:  &MockMovieStore{db: db},
		Reviews: &MockReviewStore{db: db},
		Ratings: &MockRatingStore{db: db},
		Carts:   &MockCartStore{db: db},
		Orders:  &MockOrderStore{db: db},
		Users:   &MockUserStore{db: db},
	}
}

func ratingKey(movieID, userID string) string {
	return movieID + "/" + userID
}

// MockMovieStore implements MovieStore in memory.
type MockMovieStore struct {
	db *memDB
}

func (m *MockMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = time.Now().UTC()
	}
	movie.UpdatedAt = movie.CreatedAt
	movieCopy := *movie
	m.db.movies[movie.ID] = &movieCopy
	return nil
}

func (m *MockMovieStore) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	movie, ok := m.db.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	movieCopy := *movie
	return &movieCopy, nil
}

func (m *MockMovieStore) Update(ctx context.Context, movie *domain.Movie) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.movies[movie.ID]; !ok {
		return ErrMovieNotFound
	}
	movie.UpdatedAt = time.Now().UTC()
	movieCopy := *movie
	m.db.movies[movie.ID] = &movieCopy
	return nil
}

// Delete removes the movie together with its reviews, ratings, cart entries and
// order items.
func (m *MockMovieStore) Delete(ctx context.Context, id string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(m.db.movies, id)
	for rid, r := range m.db.reviews {
		if r.MovieID == id {
			delete(m.db.reviews, rid)
		}
	}
	for key, r := range m.db.ratings {
		if r.MovieID == id {
			delete(m.db.ratings, key)
		}
	}
	for _, c := range m.db.carts {
		c.movieIDs = removeID(c.movieIDs, id)
	}
	for _, o := range m.db.orders {
		kept := o.Items[:0]
		for _, item := range o.Items {
			if item.MovieID != id {
				kept = append(kept, item)
			}
		}
		o.Items = kept
	}
	return nil
}

func (m *MockMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.MovieSummary, int, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	query := strings.ToLower(params.SearchQuery)
	var filtered []*domain.MovieSummary
	for _, movie := range m.db.movies {
		if query != "" && !strings.Contains(strings.ToLower(movie.Title), query) {
			continue
		}
		if params.Genre != "" && movie.Genre != params.Genre {
			continue
		}
		filtered = append(filtered, &domain.MovieSummary{
			Movie:         *movie,
			AverageRating: m.db.reviewAggregate(movie.ID).AverageRating,
		})
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].Title < filtered[j].Title
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	totalCount := len(filtered)
	start := params.Offset()
	if start >= totalCount {
		return []*domain.MovieSummary{}, totalCount, nil
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > totalCount {
		end = totalCount
	}
	return filtered[start:end], totalCount, nil
}

// MockReviewStore implements ReviewStore in memory.
type MockReviewStore struct {
	db *memDB
}

func (m *MockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, r := range m.db.reviews {
		if r.MovieID == review.MovieID && r.UserID == review.UserID {
			return ErrDuplicateReview
		}
	}
	review.CreatedAt = time.Now().UTC()
	review.UpdatedAt = review.CreatedAt
	review.IsReported = false
	reviewCopy := *review
	m.db.reviews[review.ID] = &reviewCopy
	return nil
}

func (m *MockReviewStore) GetByID(ctx context.Context, reviewID string) (*domain.Review, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	review, ok := m.db.reviews[reviewID]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return m.db.withUsername(review), nil
}

func (m *MockReviewStore) GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Review, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	for _, r := range m.db.reviews {
		if r.MovieID == movieID && r.UserID == userID {
			reviewCopy := *r
			return &reviewCopy, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (m *MockReviewStore) Update(ctx context.Context, review *domain.Review) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.reviews[review.ID]
	if !ok || stored.UserID != review.UserID {
		return ErrReviewNotFound
	}
	review.UpdatedAt = time.Now().UTC()
	stored.Rating = review.Rating
	stored.Content = review.Content
	stored.UpdatedAt = review.UpdatedAt
	return nil
}

func (m *MockReviewStore) Delete(ctx context.Context, reviewID string, userID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.reviews[reviewID]
	if !ok || stored.UserID != userID {
		return ErrReviewNotFound
	}
	delete(m.db.reviews, reviewID)
	return nil
}

func (m *MockReviewStore) MarkReported(ctx context.Context, reviewID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.reviews[reviewID]
	if !ok {
		return ErrReviewNotFound
	}
	if stored.IsReported {
		return ErrAlreadyReported
	}
	stored.IsReported = true
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockReviewStore) ListVisibleByMovie(ctx context.Context, movieID string) ([]*domain.Review, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	reviews := []*domain.Review{}
	for _, r := range m.db.reviews {
		if r.MovieID == movieID && !r.IsReported {
			reviews = append(reviews, m.db.withUsername(r))
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (m *MockReviewStore) GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	return m.db.reviewAggregate(movieID), nil
}

// reviewAggregate averages every review of movieID, reported ones included.
// Callers hold the lock.
func (db *memDB) reviewAggregate(movieID string) *domain.AggregatedRating {
	agg := &domain.AggregatedRating{MovieID: movieID}
	sum := 0
	for _, r := range db.reviews {
		if r.MovieID == movieID {
			sum += r.Rating
			agg.RatingCount++
		}
	}
	if agg.RatingCount > 0 {
		agg.AverageRating = float64(sum) / float64(agg.RatingCount)
	}
	return agg
}

func (db *memDB) withUsername(r *domain.Review) *domain.Review {
	reviewCopy := *r
	if u, ok := db.users[r.UserID]; ok {
		reviewCopy.Username = u.Username
	}
	return &reviewCopy
}

// MockRatingStore implements RatingStore in memory.
type MockRatingStore struct {
	db *memDB
}

func (m *MockRatingStore) Upsert(ctx context.Context, rating *domain.Rating) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	now := time.Now().UTC()
	key := ratingKey(rating.MovieID, rating.UserID)
	if stored, ok := m.db.ratings[key]; ok {
		stored.Value = rating.Value
		stored.UpdatedAt = now
		*rating = *stored
		return nil
	}
	rating.CreatedAt = now
	rating.UpdatedAt = now
	ratingCopy := *rating
	m.db.ratings[key] = &ratingCopy
	return nil
}

func (m *MockRatingStore) GetByMovieAndUser(ctx context.Context, movieID, userID string) (*domain.Rating, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	stored, ok := m.db.ratings[ratingKey(movieID, userID)]
	if !ok {
		return nil, ErrRatingNotFound
	}
	ratingCopy := *stored
	return &ratingCopy, nil
}

func (m *MockRatingStore) GetAggregatedRatingByMovieID(ctx context.Context, movieID string) (*domain.AggregatedRating, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	agg := &domain.AggregatedRating{MovieID: movieID}
	sum := 0
	for _, r := range m.db.ratings {
		if r.MovieID == movieID {
			sum += r.Value
			agg.RatingCount++
		}
	}
	if agg.RatingCount > 0 {
		agg.AverageRating = float64(sum) / float64(agg.RatingCount)
	}
	return agg, nil
}

// MockCartStore implements CartStore in memory.
type MockCartStore struct {
	db *memDB
}

func (m *MockCartStore) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.carts[userID]
	if !ok {
		now := time.Now().UTC()
		c = &memCart{cart: domain.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}}
		m.db.carts[userID] = c
	}
	return m.db.snapshotCart(c), nil
}

func (m *MockCartStore) AddMovie(ctx context.Context, cartID, movieID string) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c := m.db.cartByID(cartID)
	if c == nil {
		return false, nil
	}
	for _, id := range c.movieIDs {
		if id == movieID {
			return false, nil
		}
	}
	c.movieIDs = append(c.movieIDs, movieID)
	c.cart.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MockCartStore) RemoveMovie(ctx context.Context, cartID, movieID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if c := m.db.cartByID(cartID); c != nil {
		c.movieIDs = removeID(c.movieIDs, movieID)
		c.cart.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockCartStore) Clear(ctx context.Context, cartID string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if c := m.db.cartByID(cartID); c != nil {
		c.movieIDs = nil
		c.cart.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (db *memDB) cartByID(cartID string) *memCart {
	for _, c := range db.carts {
		if c.cart.ID == cartID {
			return c
		}
	}
	return nil
}

// snapshotCart resolves the cart's movie ids against the live catalog.
func (db *memDB) snapshotCart(c *memCart) *domain.Cart {
	cart := c.cart
	cart.Movies = make([]*domain.Movie, 0, len(c.movieIDs))
	for _, id := range c.movieIDs {
		if movie, ok := db.movies[id]; ok {
			movieCopy := *movie
			cart.Movies = append(cart.Movies, &movieCopy)
		}
	}
	return &cart
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

// MockOrderStore implements OrderStore in memory.
type MockOrderStore struct {
	db *memDB
}

func (m *MockOrderStore) PlaceOrder(ctx context.Context, order *domain.Order) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.carts[order.UserID]
	if !ok {
		return ErrCartEmpty
	}
	cart := m.db.snapshotCart(c)
	if len(cart.Movies) == 0 {
		return ErrCartEmpty
	}

	now := time.Now().UTC()
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Items = make([]*domain.OrderItem, 0, len(cart.Movies))
	for _, movie := range cart.Movies {
		order.Items = append(order.Items, &domain.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			MovieID:    movie.ID,
			MovieTitle: movie.Title,
			Quantity:   1,
			Price:      movie.Price,
		})
	}
	m.db.orders[order.ID] = copyOrder(order)

	c.movieIDs = nil
	c.cart.UpdatedAt = now
	return nil
}

func (m *MockOrderStore) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	order, ok := m.db.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (m *MockOrderStore) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	orders := []*domain.Order{}
	for _, o := range m.db.orders {
		if o.UserID == userID {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	order, ok := m.db.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockOrderStore) TopMovies(ctx context.Context, region domain.Region, limit int) ([]*domain.TrendingEntry, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	counts := make(map[string]int64)
	for _, o := range m.db.orders {
		if !region.IsGlobal() && o.Region != region {
			continue
		}
		for _, item := range o.Items {
			title := item.MovieTitle
			if movie, ok := m.db.movies[item.MovieID]; ok {
				title = movie.Title
			}
			counts[title] += int64(item.Quantity)
		}
	}

	entries := make([]*domain.TrendingEntry, 0, len(counts))
	for title, count := range counts {
		entries = append(entries, &domain.TrendingEntry{Title: title, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Title < entries[j].Title
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func copyOrder(o *domain.Order) *domain.Order {
	orderCopy := *o
	orderCopy.Items = make([]*domain.OrderItem, len(o.Items))
	for i, item := range o.Items {
		itemCopy := *item
		orderCopy.Items[i] = &itemCopy
	}
	return &orderCopy
}

// MockUserStore implements UserStore in memory.
type MockUserStore struct {
	db *memDB
}

func (m *MockUserStore) Register(ctx context.Context, user *domain.User, profile *domain.UserProfile, cart *domain.Cart) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, u := range m.db.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return ErrUserAlreadyExists
		}
	}
	userCopy := *user
	profileCopy := *profile
	m.db.users[user.ID] = &userCopy
	m.db.profiles[user.ID] = &profileCopy
	m.db.carts[user.ID] = &memCart{cart: domain.Cart{
		ID:        cart.ID,
		UserID:    user.ID,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	user, ok := m.db.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	for _, u := range m.db.users {
		if strings.EqualFold(u.Email, email) {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockUserStore) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	profile, ok := m.db.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.profiles[profile.UserID]; !ok {
		return ErrProfileNotFound
	}
	profile.UpdatedAt = time.Now().UTC()
	profileCopy := *profile
	m.db.profiles[profile.UserID] = &profileCopy
	return nil
}
