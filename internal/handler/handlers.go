package handler

import (
	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/handler/http"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
