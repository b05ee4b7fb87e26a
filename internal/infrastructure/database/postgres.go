package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
)

// PostgresDB wraps a pgx connection pool with lifecycle helpers.
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// Connect opens the pool, retrying with exponential backoff so the
// service survives a database that is still starting up.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*PostgresDB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	const maxRetries = 5
	delay := time.Second

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err = pgxpool.NewWithConfig(connectCtx, poolCfg)
		if err == nil {
			err = pool.Ping(connectCtx)
		}
		cancel()

		if err == nil {
			log.Info().Int("attempt", attempt).Msg("database connected")
			return &PostgresDB{Pool: pool}, nil
		}

		if pool != nil {
			pool.Close()
		}

		if attempt < maxRetries {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("database connect failed, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", maxRetries, err)
}

// Ping verifies the pool is alive. Used by health checks.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases all pool connections. Safe to call more than once.
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		db.Pool = nil
	}
}
