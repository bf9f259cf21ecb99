package main

import (
	"fmt"

	"github.com/sparkyweld/sparky-client/internal/api"
	"github.com/sparkyweld/sparky-client/internal/client"
	"github.com/sparkyweld/sparky-client/internal/config"
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/realtime"
	"github.com/sparkyweld/sparky-client/internal/service"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/internal/store"
	"github.com/sparkyweld/sparky-client/internal/tui"
	"github.com/sparkyweld/sparky-client/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("sparky-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	appState := state.NewStore(log)

	gateway, err := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.RequestTimeout,
	}, appState, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create api client")
	}

	rt := realtime.NewManager(realtime.Config{
		URL:         cfg.Realtime.URL,
		Enabled:     cfg.Realtime.Enabled,
		DialTimeout: cfg.Realtime.DialTimeout,
	}, appState, log, realtime.WithMaxReconnectAttempts(cfg.Realtime.MaxReconnectAttempts))
	defer rt.Close()

	localStorage, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services := service.NewClientServices(gateway, appState, localStorage, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	ui, err := tui.New(services, appState, rt, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
