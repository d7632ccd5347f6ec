// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package postgres builds the pgx connection pool the Film8X repositories run
on. It owns the pool sizing, lifetimes, and the per-connection statement
timeout; everything above it only ever sees a *pgxpool.Pool.
*/
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/film8x/film8x/internal/platform/constants"
)

// Pool tuning for the Film8X workload: read-heavy catalog traffic with
// short transactions on the write paths.
const (
	maxConns          = 25
	minConns          = 5
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

/*
NewPool parses the DSN, applies the pool tuning, verifies connectivity with a
ping, and returns the ready pool.

Every new physical connection gets a server-side statement_timeout matching
the global request timeout, so a runaway query cannot outlive the request
that issued it.
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	settings, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	settings.MaxConns = maxConns
	settings.MinConns = minConns
	settings.MaxConnLifetime = maxConnLifetime
	settings.MaxConnIdleTime = maxConnIdleTime
	settings.HealthCheckPeriod = healthCheckPeriod
	settings.ConnConfig.ConnectTimeout = connectTimeout

	settings.AfterConnect = func(connCtx context.Context, conn *pgx.Conn) error {
		statement := fmt.Sprintf("SET statement_timeout = '%ds'",
			int(constants.GlobalRequestTimeout.Seconds()))
		_, execErr := conn.Exec(connCtx, statement)
		return execErr
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, settings)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_ready",
		slog.Int("max_conns", maxConns),
		slog.Int("min_conns", minConns),
	)
	return pool, nil
}

// Ping reports pool health within a bounded timeout. The readiness probe
// calls this on every /ready request.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	probeCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(probeCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
