// Package migrations embeds the SQL schema of the server (PostgreSQL) and the
// client cache (SQLite) and applies it with goose.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed server/*.sql client/*.sql
var embedMigrations embed.FS

// Target selects a migration set and the goose dialect it is written for.
type Target struct {
	Dialect string
	Dir     string
}

var (
	// Server is the PostgreSQL schema: users, weights and weather_cache.
	Server = Target{Dialect: "pgx", Dir: "server"}
	// Client is the SQLite schema of the local cache.
	Client = Target{Dialect: "sqlite3", Dir: "client"}
)

// Migrate applies every pending migration of target to db.
func Migrate(db *sql.DB, target Target) error {
	if db == nil {
		return errors.New("migration error: nil database")
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(target.Dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, target.Dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
