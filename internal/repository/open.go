package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"superoutine/pkg/config"
	"superoutine/pkg/db"
)

// OpenStore opens and migrates the store selected by cfg.Store.Driver.
// The returned pool is nil for sqlite; callers use it for the outbox.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, *pgxpool.Pool, error) {
	switch cfg.Store.Driver {
	case DriverSQLite:
		store, err := OpenLocalStore(ctx, cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using local sqlite store", zap.String("path", cfg.Store.Path))
		return store, nil, nil
	case DriverPostgres:
		pool, err := db.NewConnection(ctx, cfg.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return NewPostgresStore(pool, logger), pool, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
