package grpc

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"movie-store/internal/domain"
	"movie-store/internal/service"
	"movie-store/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestServer(t *testing.T) (*Server, *service.CatalogService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := store.NewMockStores()
	catalog := service.NewCatalogService(stores, logger)
	return NewServer(catalog, service.NewTrendingService(stores, logger), logger), catalog
}

func TestGetMovieInfo(t *testing.T) {
	ctx := context.Background()
	srv, catalog := newTestServer(t)
	movie, err := catalog.CreateMovie(ctx, domain.CreateMovieRequest{
		Title:       "Inception",
		Price:       decimal.RequireFromString("14.99"),
		Description: "Dreams within dreams.",
		Genre:       domain.GenreSciFi,
		ReleaseYear: 2010,
	})
	require.NoError(t, err)

	info, err := srv.GetMovieInfo(ctx, wrapperspb.String(movie.ID))
	require.NoError(t, err)
	fields := info.GetFields()
	assert.Equal(t, "Inception", fields["title"].GetStringValue())
	assert.Equal(t, "14.99", fields["price"].GetStringValue())
	assert.Equal(t, "sci-fi", fields["genre"].GetStringValue())
	assert.Equal(t, float64(2010), fields["release_year"].GetNumberValue())
}

func TestGetMovieInfoErrors(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestServer(t)

	_, err := srv.GetMovieInfo(ctx, wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = srv.GetMovieInfo(ctx, wrapperspb.String("missing"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestCheckMovieExists(t *testing.T) {
	ctx := context.Background()
	srv, catalog := newTestServer(t)
	movie, err := catalog.CreateMovie(ctx, domain.CreateMovieRequest{
		Title:       "Avatar",
		Price:       decimal.RequireFromString("15.99"),
		Description: "Pandora.",
	})
	require.NoError(t, err)

	exists, err := srv.CheckMovieExists(ctx, wrapperspb.String(movie.ID))
	require.NoError(t, err)
	assert.True(t, exists.GetValue())

	exists, err = srv.CheckMovieExists(ctx, wrapperspb.String("missing"))
	require.NoError(t, err)
	assert.False(t, exists.GetValue())
}

func TestGetTrendingRejectsUnknownRegion(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := srv.GetTrending(context.Background(), wrapperspb.String("atlantis"))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "invalid region: atlantis", st.Message())
}

func TestGetTrendingEmptyRegion(t *testing.T) {
	srv, _ := newTestServer(t)

	out, err := srv.GetTrending(context.Background(), wrapperspb.String("global"))
	require.NoError(t, err)
	assert.Equal(t, "global", out.GetFields()["region"].GetStringValue())
	assert.Empty(t, out.GetFields()["top"].GetListValue().GetValues())
}
