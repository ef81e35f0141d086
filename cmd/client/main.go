package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/client"
	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/tui"
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

	log := logger.NewClientLogger("weight-tracker-client", "")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	resolver := tui.NewPromptResolver()
	services := service.NewClientServices(storages, serverAdapter, resolver, service.NewRealScheduler(), cfg, log)
	ui := tui.New(services, resolver, cfg.UI, buildInfo, log)

	app, err := client.NewApp(services, ui, log, storages.Close)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Println("client stopped with error:", err)
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version())
	fmt.Printf("Build date: %s\n", info.Date())
	fmt.Printf("Build commit: %s\n", info.Commit())
}
