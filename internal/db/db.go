// Package db opens SQL connections for the entry and recap stores and keeps
// their schema migrated.
package db

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know as a
	// '?' placeholder driver.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
}

// OpenPostgres opens and pings a PostgreSQL database through pgx.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	conn, err := sqlx.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	conn.SetConnMaxLifetime(2 * time.Hour)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

// OpenSQLite opens a SQLite database file (or ":memory:") through modernc.
// SQLite serialises writers, so the pool is pinned to one connection; this
// also keeps an in-memory database alive and shared for the pool's lifetime.
func OpenSQLite(ctx context.Context, dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return conn, nil
}
