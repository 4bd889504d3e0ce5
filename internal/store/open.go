package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Store drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open builds the stores for driver. The returned close func releases the
// database pool and is a no-op for the memory driver.
func Open(ctx context.Context, driver, dbURL string, logger *slog.Logger) (*Stores, func() error, error) {
	switch driver {
	case DriverMemory:
		logger.Warn("Using in-memory stores; data is lost on restart")
		return NewMockStores(), func() error { return nil }, nil
	case DriverPostgres:
		db, err := Connect(ctx, dbURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		stores, err := NewPostgresStores(db, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return stores, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
