// movie-store/cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"movie-store/internal/config"
	"movie-store/internal/seed"
	"movie-store/internal/service"
	"movie-store/internal/store"
	"movie-store/pkg/auth"
)

func main() {
	file := flag.String("file", "", "seed document (YAML); the built-in sample data is used when empty")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	data, err := loadData(*file)
	if err != nil {
		logger.Error("Failed to read seed data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stores, closeStores, err := store.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to initialize stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStores()

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Error("Failed to create token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	services := service.New(stores, tokenManager, auth.NewMemoryRevoker(), cfg.DefaultRegion, logger)

	if _, err := seed.NewSeeder(services, stores, logger).Run(ctx, data); err != nil {
		logger.Error("Seeding failed", slog.String("error", err.Error()))
		closeStores()
		os.Exit(1)
	}
}

func loadData(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(raw)
}
