package store

import (
	"context"
	"fmt"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
)

// ClientStorages groups the client's local repositories. Both live in the
// same SQLite file.
type ClientStorages struct {
	Weights LocalWeightStore
	Session SessionStore

	db *DB
}

// NewClientStorages opens the SQLite cache, applies the client schema and
// builds the local stores.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Weights: NewLocalWeightStore(db, logger),
		Session: NewSessionStore(db, logger),
		db:      db,
	}, nil
}

// Close releases the SQLite connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
