// movie-store/internal/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"log/slog"

	"movie-store/internal/domain"
	"movie-store/internal/service"
	"movie-store/internal/store"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server implements CatalogServer on top of the catalog and trending services.
type Server struct {
	catalog  *service.CatalogService  // movie lookups
	trending *service.TrendingService // regional top lists
	logger   *slog.Logger
}

func NewServer(catalog *service.CatalogService, trending *service.TrendingService, logger *slog.Logger) *Server {
	return &Server{
		catalog:  catalog,
		trending: trending,
		logger:   logger,
	}
}

func movieToStruct(movie *domain.Movie) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":           movie.ID,
		"title":        movie.Title,
		"price":        movie.Price.StringFixed(2),
		"genre":        string(movie.Genre),
		"release_year": int64(movie.ReleaseYear),
	})
}

func trendingToStruct(t *domain.Trending) (*structpb.Struct, error) {
	top := make([]interface{}, 0, len(t.Top))
	for _, entry := range t.Top {
		top = append(top, map[string]interface{}{
			"title": entry.Title,
			"count": entry.Count,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"region": string(t.Region),
		"top":    top,
	})
}

// GetMovieInfo returns the basic fields of one movie.
func (s *Server) GetMovieInfo(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	movieID := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC GetMovieInfo called", slog.String("movie_id", movieID))

	if movieID == "" {
		s.logger.WarnContext(ctx, "gRPC GetMovieInfo called with empty movie_id")
		return nil, status.Errorf(codes.InvalidArgument, "movie_id cannot be empty")
	}
	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			return nil, status.Errorf(codes.NotFound, "movie not found with ID %s", movieID)
		}
		s.logger.ErrorContext(ctx, "Failed to get movie for GetMovieInfo", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to retrieve movie details: %v", err)
	}
	info, err := movieToStruct(movie)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode movie: %v", err)
	}
	return info, nil
}

// CheckMovieExists reports whether a movie id is in the catalog.
func (s *Server) CheckMovieExists(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	movieID := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC CheckMovieExists called", slog.String("movie_id", movieID))

	if movieID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "movie_id cannot be empty")
	}
	exists, err := s.catalog.MovieExists(ctx, movieID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check movie existence", slog.String("movie_id", movieID), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to check movie existence: %v", err)
	}
	return wrapperspb.Bool(exists), nil
}

// GetTrending returns the top movies for a region or "global".
func (s *Server) GetTrending(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	region := req.GetValue()
	s.logger.InfoContext(ctx, "gRPC GetTrending called", slog.String("region", region))

	trending, err := s.trending.Trending(ctx, region)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRegion) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.ErrorContext(ctx, "Failed to compute trending", slog.String("region", region), slog.String("error", err.Error()))
		return nil, status.Errorf(codes.Internal, "failed to compute trending: %v", err)
	}
	out, err := trendingToStruct(trending)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode trending: %v", err)
	}
	return out, nil
}
