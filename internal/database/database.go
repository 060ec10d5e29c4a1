// Package database provides the Postgres-backed store for user records:
// pool setup with bounded connect retry, idempotent database and table
// creation, and the core.Store implementation.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"userseed/internal/config"
	"userseed/internal/core"
)

// EnsureDatabase creates the database named in dbURL if it does not exist.
// It connects to the maintenance "postgres" database on the same server,
// probes pg_database, and issues CREATE DATABASE only when the probe comes
// back empty. Losing a creation race (SQLSTATE 42P04) counts as success.
func EnsureDatabase(ctx context.Context, dbURL string) error {
	name, maintURL, err := splitMaintenanceURL(dbURL)
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, maintURL)
	if err != nil {
		return &core.ConnectionError{Err: err}
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		if isConnectionFailure(err) {
			return &core.ConnectionError{Err: err}
		}
		return &core.SchemaError{Object: "database " + name, Err: err}
	}
	if exists {
		slog.Debug("database already exists", "name", name)
		return nil
	}

	// CREATE DATABASE has no IF NOT EXISTS form in Postgres.
	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		if isSQLState(err, pgErrDuplicateDatabase) {
			return nil
		}
		if isConnectionFailure(err) {
			return &core.ConnectionError{Err: err}
		}
		return &core.SchemaError{Object: "database " + name, Err: err}
	}
	slog.Info("database created", "name", name)
	return nil
}

// Connect opens and pings a pgx pool configured from cfg, retrying the
// initial connection a bounded number of times with a fixed backoff.
// The caller owns the returned pool and must Close it.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if attempt >= attempts || ctx.Err() != nil {
			return nil, &core.ConnectionError{Err: err}
		}
		slog.Warn("database connect failed, retrying",
			"attempt", attempt,
			"backoff", cfg.ConnectBackoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, &core.ConnectionError{Err: ctx.Err()}
		case <-time.After(cfg.ConnectBackoff):
		}
	}
}

// splitMaintenanceURL extracts the target database name from dbURL and
// returns a sibling URL pointing at the maintenance "postgres" database.
func splitMaintenanceURL(dbURL string) (name, maintURL string, err error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing database URL: %w", err)
	}
	name = strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", "", fmt.Errorf("database URL %q has no database name", u.Redacted())
	}
	u.Path = "/postgres"
	return name, u.String(), nil
}
