package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a movie price is not positive or does not fit NUMERIC(10,2).
var ErrInvalidPrice = errors.New("movie price must be greater than zero, below 100000000 and have at most 2 decimal places")

// MaxPrice is the exclusive upper bound of a price column NUMERIC(10,2).
var MaxPrice = decimal.NewFromInt(100_000_000)

// Genre is the catalog genre of a movie.
type Genre string

const (
	GenreAction      Genre = "action"
	GenreAdventure   Genre = "adventure"
	GenreAnimation   Genre = "animation"
	GenreComedy      Genre = "comedy"
	GenreCrime       Genre = "crime"
	GenreDocumentary Genre = "documentary"
	GenreDrama       Genre = "drama"
	GenreFamily      Genre = "family"
	GenreFantasy     Genre = "fantasy"
	GenreHorror      Genre = "horror"
	GenreMystery     Genre = "mystery"
	GenreRomance     Genre = "romance"
	GenreSciFi       Genre = "sci-fi"
	GenreThriller    Genre = "thriller"
	GenreWestern     Genre = "western"
)

// ContentRating is the audience rating of a movie (MPA scale).
type ContentRating string

const (
	RatingG    ContentRating = "G"
	RatingPG   ContentRating = "PG"
	RatingPG13 ContentRating = "PG-13"
	RatingR    ContentRating = "R"
	RatingNC17 ContentRating = "NC-17"
)

// Defaults applied to optional movie fields on creation.
const (
	DefaultGenre         = GenreDrama
	DefaultContentRating = RatingPG13
	DefaultReleaseYear   = 2024
	DefaultDuration      = 120
	DefaultLanguage      = "English"
)

// Movie is a catalog entry.
type Movie struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Description   string          `json:"description" db:"description"`
	Genre         Genre           `json:"genre" db:"genre"`
	ContentRating ContentRating   `json:"rating" db:"content_rating"`
	Director      string          `json:"director" db:"director"`
	Cast          string          `json:"cast" db:"cast_members"`
	ReleaseYear   int             `json:"release_year" db:"release_year"`
	Duration      int             `json:"duration" db:"duration"`
	Language      string          `json:"language" db:"language"`
	ImageURL      string          `json:"image_url,omitempty" db:"image_url"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// CastList splits the comma separated cast into trimmed names.
func (m *Movie) CastList() []string {
	if strings.TrimSpace(m.Cast) == "" {
		return []string{}
	}
	parts := strings.Split(m.Cast, ",")
	cast := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			cast = append(cast, name)
		}
	}
	return cast
}

// DurationDisplay renders the duration as "2h 32m", or "45m" when under an hour.
func (m *Movie) DurationDisplay() string {
	hours := m.Duration / 60
	minutes := m.Duration % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// ValidatePrice accepts positive prices in whole cents below MaxPrice, so the
// stored value always equals the one the client sent.
func ValidatePrice(price decimal.Decimal) error {
	switch {
	case !price.IsPositive():
		return ErrInvalidPrice
	case !price.Equal(price.Round(2)):
		return ErrInvalidPrice
	case price.GreaterThanOrEqual(MaxPrice):
		return ErrInvalidPrice
	}
	return nil
}

// CreateMovieRequest is the body for adding a movie to the catalog.
type CreateMovieRequest struct {
	Title         string          `json:"title" validate:"required,min=1,max=200"`
	Price         decimal.Decimal `json:"price" validate:"required,gt=0"`
	Description   string          `json:"description" validate:"required"`
	Genre         Genre           `json:"genre,omitempty" validate:"omitempty,oneof=action adventure animation comedy crime documentary drama family fantasy horror mystery romance sci-fi thriller western"`
	ContentRating ContentRating   `json:"rating,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
	Director      string          `json:"director,omitempty" validate:"max=200"`
	Cast          string          `json:"cast,omitempty"`
	ReleaseYear   int             `json:"release_year,omitempty" validate:"omitempty,gte=1888,lte=2100"`
	Duration      int             `json:"duration,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Language      string          `json:"language,omitempty" validate:"max=50"`
	ImageURL      string          `json:"image_url,omitempty" validate:"omitempty,max=500"`
}

// NewMovie builds a movie from a create request, filling in catalog defaults.
func NewMovie(id string, req CreateMovieRequest, now time.Time) (*Movie, error) {
	if err := ValidatePrice(req.Price); err != nil {
		return nil, err
	}
	m := &Movie{
		ID:            id,
		Title:         req.Title,
		Price:         req.Price,
		Description:   req.Description,
		Genre:         req.Genre,
		ContentRating: req.ContentRating,
		Director:      req.Director,
		Cast:          req.Cast,
		ReleaseYear:   req.ReleaseYear,
		Duration:      req.Duration,
		Language:      req.Language,
		ImageURL:      req.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if m.Genre == "" {
		m.Genre = DefaultGenre
	}
	if m.ContentRating == "" {
		m.ContentRating = DefaultContentRating
	}
	if m.ReleaseYear == 0 {
		m.ReleaseYear = DefaultReleaseYear
	}
	if m.Duration == 0 {
		m.Duration = DefaultDuration
	}
	if m.Language == "" {
		m.Language = DefaultLanguage
	}
	return m, nil
}

// UpdateMovieRequest carries an explicit catalog edit; nil fields are left unchanged.
type UpdateMovieRequest struct {
	Title         *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Price         *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	Genre         *Genre           `json:"genre,omitempty" validate:"omitempty,oneof=action adventure animation comedy crime documentary drama family fantasy horror mystery romance sci-fi thriller western"`
	ContentRating *ContentRating   `json:"rating,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
	Director      *string          `json:"director,omitempty" validate:"omitempty,max=200"`
	Cast          *string          `json:"cast,omitempty"`
	ReleaseYear   *int             `json:"release_year,omitempty" validate:"omitempty,gte=1888,lte=2100"`
	Duration      *int             `json:"duration,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Language      *string          `json:"language,omitempty" validate:"omitempty,max=50"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,max=500"`
}

// Apply copies the set fields of req onto m.
func (req UpdateMovieRequest) Apply(m *Movie, now time.Time) error {
	if req.Price != nil {
		if err := ValidatePrice(*req.Price); err != nil {
			return err
		}
		m.Price = *req.Price
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Genre != nil {
		m.Genre = *req.Genre
	}
	if req.ContentRating != nil {
		m.ContentRating = *req.ContentRating
	}
	if req.Director != nil {
		m.Director = *req.Director
	}
	if req.Cast != nil {
		m.Cast = *req.Cast
	}
	if req.ReleaseYear != nil {
		m.ReleaseYear = *req.ReleaseYear
	}
	if req.Duration != nil {
		m.Duration = *req.Duration
	}
	if req.Language != nil {
		m.Language = *req.Language
	}
	if req.ImageURL != nil {
		m.ImageURL = *req.ImageURL
	}
	m.UpdatedAt = now
	return nil
}

// MovieSummary is a catalog list row: the movie plus its average review rating.
type MovieSummary struct {
	Movie
	AverageRating float64 `json:"avg_rating" db:"avg_rating"`
}
