// Package database opens the configured SQL backend and applies the schema.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/avelez/photodeck-be/internal/config"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

// New creates a database connection pool for the configured backend.
func New(cfg config.Database) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Backend {
	case "sqlite":
		db, err = sql.Open("sqlite", cfg.SQLitePath)
	case "postgres":
		db, err = sql.Open("pgx", cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown user store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for the configured backend.
func Migrate(db *sql.DB, backend string) error {
	switch backend {
	case "sqlite":
		_, err := db.Exec(sqliteSchema)
		return err
	case "postgres":
		_, err := db.Exec(postgresSchema)
		return err
	default:
		return fmt.Errorf("unknown user store backend %q", backend)
	}
}
