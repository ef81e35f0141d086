package store

import (
	"database/sql"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/migrations"
)

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps *sql.DB with the logger and error classifier of its backend.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	migrations         migrations.Target
	logger             *logger.Logger
}

// Migrate applies the embedded schema of the backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.migrations)
}

// retryable reports whether err is worth retrying. Backends without a
// classifier never retry.
func (db *DB) retryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
