package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings tunes the PostgreSQL connection pool
type PoolSettings struct {
	MaxConns     int
	MinConns     int
	ConnLifetime time.Duration
}

// NewPostgresPool creates a new PostgreSQL connection pool and verifies
// connectivity
func NewPostgresPool(ctx context.Context, dsn string, settings PoolSettings) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	if settings.MaxConns > 0 {
		config.MaxConns = int32(settings.MaxConns)
	}
	if settings.MinConns > 0 {
		config.MinConns = int32(settings.MinConns)
	}
	if settings.ConnLifetime > 0 {
		config.MaxConnLifetime = settings.ConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
