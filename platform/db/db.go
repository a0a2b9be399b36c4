// Package db owns connectivity to the shared store: the connection pool, the
// migration runner and the health adapter the router reports on.
package db

import (
	"context"
	"time"

	"takeout_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for an intake-shaped workload: short writes on the hot path and
// a handful of read endpoints. The store is shared with the downstream
// consumer, so the ceiling stays modest.
const (
	poolMaxConns        = 16
	poolMinConns        = 2
	poolMaxConnLifetime = time.Hour
	poolMaxConnIdleTime = 30 * time.Minute
	poolHealthInterval  = time.Minute
)

// NewPool opens a pgx pool against the configured store and verifies it with
// a ping before handing it out.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = poolMaxConns
	poolConfig.MinConns = poolMinConns
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime
	poolConfig.HealthCheckPeriod = poolHealthInterval

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
