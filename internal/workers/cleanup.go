package workers

import (
	"context"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
)

// LimiterPruner drops idle rate-limit buckets.
type LimiterPruner interface {
	PruneRateLimiters() int
}

// NewCleanupWorker purges expired weather cache rows and password reset
// tokens, and prunes idle rate-limit buckets, every interval.
func NewCleanupWorker(services *service.Services, limiters LimiterPruner, interval time.Duration, logger *logger.Logger) Worker {
	w := NewPeriodicWorker("cleanup", interval, logger).
		Add("weather_cache", services.WeatherService.PurgeExpired).
		Add("reset_tokens", services.AuthService.PurgeExpiredResetTokens)

	if limiters != nil {
		w.Add("rate_limiters", func(context.Context) (int64, error) {
			return int64(limiters.PruneRateLimiters()), nil
		})
	}

	return w
}
