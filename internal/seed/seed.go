// Package seed loads the sample catalog, accounts and reviews.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"movie-store/internal/domain"
	"movie-store/internal/service"
	"movie-store/internal/store"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type movieSeed struct {
	Title         string `yaml:"title"`
	Price         string `yaml:"price"`
	Genre         string `yaml:"genre"`
	ContentRating string `yaml:"rating"`
	Director      string `yaml:"director"`
	Cast          string `yaml:"cast"`
	ReleaseYear   int    `yaml:"release_year"`
	Duration      int    `yaml:"duration"`
	Language      string `yaml:"language"`
	Description   string `yaml:"description"`
}

type userSeed struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Region    string `yaml:"region"`
	Admin     bool   `yaml:"admin"`
}

type reviewSeed struct {
	Movie   string `yaml:"movie"`
	User    string `yaml:"user"`
	Rating  int    `yaml:"rating"`
	Content string `yaml:"content"`
}

// Data is a parsed seed document.
type Data struct {
	Movies  []movieSeed  `yaml:"movies"`
	Users   []userSeed   `yaml:"users"`
	Reviews []reviewSeed `yaml:"reviews"`
}

// Result counts what a run created. Existing rows are skipped.
type Result struct {
	MoviesCreated  int `json:"movies_created"`
	UsersCreated   int `json:"users_created"`
	ReviewsCreated int `json:"reviews_created"`
}

// Parse decodes a seed document.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Default returns the built-in sample data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Seeder applies seed data through the application services, so every
// domain rule applies to sample rows too.
type Seeder struct {
	services *service.Services
	users    store.UserStore
	reviews  store.ReviewStore
	logger   *slog.Logger
}

func NewSeeder(services *service.Services, stores *store.Stores, logger *slog.Logger) *Seeder {
	return &Seeder{
		services: services,
		users:    stores.Users,
		reviews:  stores.Reviews,
		logger:   logger,
	}
}

// Run is idempotent: movies are matched by title, users by email and reviews
// by (movie, user).
func (s *Seeder) Run(ctx context.Context, data *Data) (*Result, error) {
	result := &Result{}

	movieIDs := make(map[string]string, len(data.Movies))
	for _, m := range data.Movies {
		id, created, err := s.ensureMovie(ctx, m)
		if err != nil {
			return result, err
		}
		movieIDs[m.Title] = id
		if created {
			result.MoviesCreated++
		}
	}

	userIDs := make(map[string]string, len(data.Users))
	for _, u := range data.Users {
		id, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return result, err
		}
		userIDs[strings.ToLower(u.Email)] = id
		if created {
			result.UsersCreated++
		}
	}

	for _, r := range data.Reviews {
		movieID, ok := movieIDs[r.Movie]
		if !ok {
			return result, fmt.Errorf("review references unknown movie %q", r.Movie)
		}
		userID, ok := userIDs[strings.ToLower(r.User)]
		if !ok {
			return result, fmt.Errorf("review references unknown user %q", r.User)
		}
		created, err := s.ensureReview(ctx, movieID, userID, r)
		if err != nil {
			return result, err
		}
		if created {
			result.ReviewsCreated++
		}
	}

	s.logger.InfoContext(ctx, "Seed data applied",
		slog.Int("movies_created", result.MoviesCreated),
		slog.Int("users_created", result.UsersCreated),
		slog.Int("reviews_created", result.ReviewsCreated))
	return result, nil
}

func (s *Seeder) ensureMovie(ctx context.Context, m movieSeed) (string, bool, error) {
	page, err := s.services.Catalog.ListMovies(ctx, 1, m.Title, "")
	if err != nil {
		return "", false, fmt.Errorf("failed to look up movie %q: %w", m.Title, err)
	}
	for _, existing := range page.Movies {
		if existing.Title == m.Title {
			s.logger.DebugContext(ctx, "Seed movie already exists", slog.String("title", m.Title))
			return existing.ID, false, nil
		}
	}

	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return "", false, fmt.Errorf("invalid price %q for movie %q: %w", m.Price, m.Title, err)
	}
	movie, err := s.services.Catalog.CreateMovie(ctx, domain.CreateMovieRequest{
		Title:         m.Title,
		Price:         price,
		Description:   m.Description,
		Genre:         domain.Genre(m.Genre),
		ContentRating: domain.ContentRating(m.ContentRating),
		Director:      m.Director,
		Cast:          m.Cast,
		ReleaseYear:   m.ReleaseYear,
		Duration:      m.Duration,
		Language:      m.Language,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to create movie %q: %w", m.Title, err)
	}
	s.logger.InfoContext(ctx, "Seed movie created", slog.String("title", m.Title), slog.String("movieID", movie.ID))
	return movie.ID, true, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u userSeed) (string, bool, error) {
	existing, err := s.users.GetByEmail(ctx, strings.ToLower(u.Email))
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return "", false, fmt.Errorf("failed to look up user %q: %w", u.Email, err)
	}

	req := domain.RegisterRequest{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Password:  u.Password,
	}
	register := s.services.Users.Register
	if u.Admin {
		register = s.services.Users.RegisterAdmin
	}
	user, err := register(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("failed to register user %q: %w", u.Email, err)
	}
	if u.Region != "" {
		region := u.Region
		if _, err := s.services.Users.UpdateProfile(ctx, user.ID, domain.UpdateProfileRequest{Region: &region}); err != nil {
			return "", false, fmt.Errorf("failed to set region for user %q: %w", u.Email, err)
		}
	}
	s.logger.InfoContext(ctx, "Seed user created", slog.String("email", u.Email), slog.String("role", user.Role))
	return user.ID, true, nil
}

func (s *Seeder) ensureReview(ctx context.Context, movieID, userID string, r reviewSeed) (bool, error) {
	_, err := s.reviews.GetByMovieAndUser(ctx, movieID, userID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrReviewNotFound) {
		return false, fmt.Errorf("failed to look up review for %q: %w", r.Movie, err)
	}
	if _, err := s.services.Reviews.CreateReview(ctx, userID, movieID, domain.CreateReviewRequest{
		Rating:  r.Rating,
		Content: r.Content,
	}); err != nil {
		return false, fmt.Errorf("failed to create review for %q: %w", r.Movie, err)
	}
	return true, nil
}
