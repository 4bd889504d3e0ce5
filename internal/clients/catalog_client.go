// movie-store/internal/clients/catalog_client.go
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"movie-store/internal/domain"
	catalogrpc "movie-store/internal/grpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const callTimeout = 3 * time.Second

// MovieInfo is the catalog summary returned by GetMovieInfo.
type MovieInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"release_year"`
}

// CatalogClient talks to the moviestore.v1.Catalog gRPC service.
type CatalogClient struct {
	conn   *grpc.ClientConn // kept so Close can release it
	logger *slog.Logger
}

// NewCatalogClient creates a client for addr. Extra dial options are appended
// after the insecure transport credentials.
func NewCatalogClient(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*CatalogClient, error) {
	logger.Info("Creating Catalog gRPC client", slog.String("address", addr))

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		logger.Error("Failed to create Catalog gRPC client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to catalog service at %s: %w", addr, err)
	}
	return &CatalogClient{conn: conn, logger: logger}, nil
}

func (c *CatalogClient) invoke(ctx context.Context, method string, in, out interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := c.conn.Invoke(callCtx, method, in, out); err != nil {
		st, _ := status.FromError(err)
		c.logger.ErrorContext(ctx, "Catalog gRPC call failed",
			slog.String("method", method),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return err
	}
	return nil
}

// GetMovieInfo fetches the catalog summary of one movie.
func (c *CatalogClient) GetMovieInfo(ctx context.Context, movieID string) (*MovieInfo, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, catalogrpc.GetMovieInfoMethod, wrapperspb.String(movieID), out); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	return &MovieInfo{
		ID:          fields["id"].GetStringValue(),
		Title:       fields["title"].GetStringValue(),
		Price:       fields["price"].GetStringValue(),
		Genre:       fields["genre"].GetStringValue(),
		ReleaseYear: int(fields["release_year"].GetNumberValue()),
	}, nil
}

// CheckMovieExists reports whether movieID is in the catalog.
func (c *CatalogClient) CheckMovieExists(ctx context.Context, movieID string) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, catalogrpc.CheckMovieExistsMethod, wrapperspb.String(movieID), out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetTrending fetches the top movies of a region or "global".
func (c *CatalogClient) GetTrending(ctx context.Context, region string) (*domain.Trending, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, catalogrpc.GetTrendingMethod, wrapperspb.String(region), out); err != nil {
		return nil, err
	}
	fields := out.GetFields()
	trending := &domain.Trending{
		Region: domain.Region(fields["region"].GetStringValue()),
		Top:    []*domain.TrendingEntry{},
	}
	for _, v := range fields["top"].GetListValue().GetValues() {
		entry := v.GetStructValue().GetFields()
		trending.Top = append(trending.Top, &domain.TrendingEntry{
			Title: entry["title"].GetStringValue(),
			Count: int64(entry["count"].GetNumberValue()),
		})
	}
	return trending, nil
}

// Close releases the underlying connection.
func (c *CatalogClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
