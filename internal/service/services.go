package service

import (
	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// Services bundles the server's business logic.
type Services struct {
	AuthService    AuthService
	WeightService  WeightService
	WeatherService WeatherService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	mailer := NewMailer(cfg.Mail, logger)
	weights := NewWeightValidationService().Wrap(NewWeightService(storages.WeightRepository, logger))

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, mailer, cfg.App, logger),
		WeightService:  weights,
		WeatherService: NewWeatherService(storages.WeatherCacheRepository, cfg.Weather, logger),
		AppInfoService: appInfo,
	}, nil
}
