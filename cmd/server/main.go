package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/handler"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/server"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/workers"
	"github.com/ggowrisankar/weight-tracker/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("weight-tracker-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	bg := workers.NewWorkers(
		workers.NewCleanupWorker(services, handlers.HTTP, cfg.Workers.CleanupInterval, log),
	)

	srv, err := server.NewServer(handlers, bg, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version())
	fmt.Printf("Build date: %s\n", info.Date())
	fmt.Printf("Build commit: %s\n", info.Commit())
}
