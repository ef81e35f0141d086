package store

import (
	"context"
	"fmt"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
)

// Storages groups the server repositories handed to the service layer.
type Storages struct {
	UserRepository         UserRepository
	WeightRepository       WeightRepository
	WeatherCacheRepository WeatherCacheRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:         NewUserRepository(db, log),
		WeightRepository:       NewWeightRepository(db, log),
		WeatherCacheRepository: NewWeatherCacheRepository(db, log),
		db:                     db,
	}, nil
}

// Close releases the database pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
