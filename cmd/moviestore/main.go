// movie-store/cmd/moviestore/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	httpAPI "movie-store/internal/api"
	"movie-store/internal/config"
	grpcServer "movie-store/internal/grpc"
	"movie-store/internal/service"
	"movie-store/internal/store"
	"movie-store/pkg/auth"
)

func newRevoker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.Revoker, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, token revocation is kept in memory")
		return auth.NewMemoryRevoker(), func() {}, nil
	}
	revoker, err := auth.NewRedisRevoker(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("Failed to connect to Redis", slog.String("address", cfg.RedisAddr), slog.String("error", err.Error()))
		return nil, nil, err
	}
	logger.Info("Redis token revocation list connected", slog.String("address", cfg.RedisAddr))
	return revoker, func() {
		if err := revoker.Close(); err != nil {
			logger.Error("Failed to close Redis connection", slog.String("error", err.Error()))
		}
	}, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// run owns every resource, so its deferred closes finish before the exit code is set.
	if err := run(cfg, logger); err != nil {
		logger.Error("Movie store stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET_KEY environment variable not set, using default insecure key for development.")
	}

	ctx := context.Background()

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}
	logger.Info("Token manager initialized.")

	stores, closeStores, err := store.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s stores: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStores(); err != nil {
			logger.Error("Failed to close stores", slog.String("error", err.Error()))
		} else {
			logger.Info("Stores closed.")
		}
	}()
	logger.Info("Stores initialized", slog.String("driver", cfg.StoreDriver))

	revoker, closeRevoker, err := newRevoker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRevoker()

	services := service.New(stores, tokenManager, revoker, cfg.DefaultRegion, logger)

	// gRPC catalog service
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.GRPCPort, err)
	}
	grpcSrv := grpc.NewServer()
	grpcServer.RegisterCatalogServer(grpcSrv, grpcServer.NewServer(services.Catalog, services.Trending, logger))
	reflection.Register(grpcSrv)

	go func() {
		logger.Info("gRPC server starting", slog.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()

	// HTTP API
	handler := httpAPI.NewHandler(services, logger, httpAPI.NewValidator())
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpAPI.NewRouter(handler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Movie store shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	grpcSrv.GracefulStop()
	logger.Info("gRPC server gracefully stopped.")
	logger.Info("Movie store exited.")
	return nil
}
