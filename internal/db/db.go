// Package db handles the PostgreSQL connection and schema migrations for
// the moderation worker.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection with a short
// ping.
func Open(dsn string) (*sql.DB, error) {
	handle, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return handle, nil
}

// Migrate applies all pending migrations from sourceDir against dsn. An
// already up-to-date schema is not an error.
func Migrate(dsn, sourceDir string) error {
	m, err := migrate.New("file://"+sourceDir, dsn)
	if err != nil {
		return fmt.Errorf("db: migrate init: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Printf("[db] schema up to date")
	case err != nil:
		return fmt.Errorf("db: migrate up: %w", err)
	default:
		log.Printf("[db] migrations applied")
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return fmt.Errorf("db: migrate close source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("db: migrate close db: %w", dbErr)
	}
	return nil
}
