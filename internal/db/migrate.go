package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// RunMigrations applies every pending migration for the dialect of db.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	dialect, dir, err := gooseDialect(db.DriverName())
	if err != nil {
		return err
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func gooseDialect(driver string) (goose.Dialect, string, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, "migrations/postgres", nil
	case DriverSQLite:
		return goose.DialectSQLite3, "migrations/sqlite", nil
	}
	return "", "", fmt.Errorf("no migrations for driver %q", driver)
}
