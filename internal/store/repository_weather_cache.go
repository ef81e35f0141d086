package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
)

type weatherCacheRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewWeatherCacheRepository constructs a [WeatherCacheRepository] backed by
// the "weather_cache" table.
func NewWeatherCacheRepository(db *DB, logger *logger.Logger) WeatherCacheRepository {
	logger.Debug().Msg("creating weather cache repository")
	return &weatherCacheRepository{DB: db, logger: logger, now: time.Now}
}

func (r *weatherCacheRepository) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	query, args, err := buildGetWeatherQuery(key, r.now().Add(-maxAge))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var body []byte
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*weatherCacheRepository.Get").Str("key", key).Msg("failed to read weather cache")
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return body, true, nil
}

func (r *weatherCacheRepository) Put(ctx context.Context, key string, body []byte) error {
	if _, err := r.DB.ExecContext(ctx, upsertWeatherCache, key, body); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*weatherCacheRepository.Put").Str("key", key).Msg("failed to write weather cache")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (r *weatherCacheRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := buildPurgeWeatherQuery(cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*weatherCacheRepository.PurgeOlderThan").Msg("failed to purge weather cache")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return res.RowsAffected()
}
