package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/validators"
)

const (
	defaultGlobalPerMinute = 100
	defaultVerification    = 3
	defaultPasswordReset   = 5
	defaultSensitiveWindow = 10 * time.Minute

	// maxBodyBytes bounds request bodies. A full weight document of ten
	// years stays well below it.
	maxBodyBytes = 1 << 20
)

type Handler struct {
	services  *service.Services
	validator validators.Validator

	globalLimiter       *ipRateLimiter
	verificationLimiter *ipRateLimiter
	resetLimiter        *ipRateLimiter

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	limits := cfg.RateLimit
	if limits.GlobalPerMinute <= 0 {
		limits.GlobalPerMinute = defaultGlobalPerMinute
	}
	if limits.Verification <= 0 {
		limits.Verification = defaultVerification
	}
	if limits.PasswordReset <= 0 {
		limits.PasswordReset = defaultPasswordReset
	}
	if limits.SensitiveWindow <= 0 {
		limits.SensitiveWindow = defaultSensitiveWindow
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:            services,
		validator:           validators.NewWeightValidator(),
		globalLimiter:       newIPRateLimiter(limits.GlobalPerMinute, time.Minute),
		verificationLimiter: newIPRateLimiter(limits.Verification, limits.SensitiveWindow),
		resetLimiter:        newIPRateLimiter(limits.PasswordReset, limits.SensitiveWindow),
		logger:              logger,
	}
}

// decodeJSON reads a JSON body of at most maxBodyBytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
