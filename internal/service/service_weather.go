package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"golang.org/x/sync/singleflight"
)

// forecastFields is the Open-Meteo selection the client renders.
const (
	forecastCurrent = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"
	forecastDaily   = "temperature_2m_max,temperature_2m_min,weather_code"
)

const upstreamTimeout = 10 * time.Second

type weatherService struct {
	cache    store.WeatherCacheRepository
	upstream *utils.HTTPClient
	ttl      time.Duration

	// group collapses concurrent misses for the same location into one
	// upstream request.
	group singleflight.Group

	now func() time.Time

	logger *logger.Logger
}

// NewWeatherService returns a read-through cache in front of an Open-Meteo
// compatible forecast endpoint.
func NewWeatherService(cache store.WeatherCacheRepository, cfg config.Weather, logger *logger.Logger) WeatherService {
	return &weatherService{
		cache:    cache,
		upstream: utils.NewHTTPClient(cfg.BaseURL, upstreamTimeout),
		ttl:      cfg.CacheTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Forecast returns the upstream JSON body for the location, from the cache
// when a fresh copy exists. A failing cache never fails the request.
func (w *weatherService) Forecast(ctx context.Context, lat, lon float64) ([]byte, error) {
	log := logger.FromContext(ctx)
	loc := models.Location{Lat: lat, Lon: lon}
	key := loc.CacheKey()

	body, hit, err := w.cache.Get(ctx, key, w.ttl)
	if err != nil {
		log.Err(err).Str("func", "weatherService.Forecast").Str("key", key).Msg("weather cache read failed")
	}
	if hit {
		log.Debug().Str("key", key).Msg("weather served from cache")
		return body, nil
	}

	v, err, _ := w.group.Do(key, func() (any, error) {
		return w.fetch(ctx, loc)
	})
	if err != nil {
		log.Err(err).Str("func", "weatherService.Forecast").Str("key", key).Msg("failed to fetch weather data")
		return nil, err
	}
	body = v.([]byte)

	if err = w.cache.Put(ctx, key, body); err != nil {
		log.Err(err).Str("func", "weatherService.Forecast").Str("key", key).Msg("failed to save weather cache")
	}

	return body, nil
}

func (w *weatherService) fetch(ctx context.Context, loc models.Location) ([]byte, error) {
	resp, err := w.upstream.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(loc.Lat, 'f', 2, 64),
			"longitude": strconv.FormatFloat(loc.Lon, 'f', 2, 64),
			"current":   forecastCurrent,
			"daily":     forecastDaily,
			"timezone":  "auto",
		}).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeatherUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: upstream answered %d", ErrWeatherUnavailable, resp.StatusCode())
	}

	return resp.Body(), nil
}

// PurgeExpired removes cache rows older than the TTL.
func (w *weatherService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := w.cache.PurgeOlderThan(ctx, w.now().Add(-w.ttl))
	if err != nil {
		return 0, fmt.Errorf("error purging weather cache: %w", err)
	}
	return n, nil
}
