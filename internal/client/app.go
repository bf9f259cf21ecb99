package client

import (
	"context"
	"errors"

	"github.com/sparkyweld/sparky-client/internal/config"
	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/service"
	"github.com/sparkyweld/sparky-client/internal/tui"
	"github.com/sparkyweld/sparky-client/models"
)

// App is the client application: login flow, background metrics poller, and
// the main UI loop, repeated after every logout until the user quits.
type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	workers  config.ClientWorkers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui *tui.TUI, workers config.ClientWorkers, log *logger.Logger) (*App, error) {
	return &App{
		services: services,
		tui:      ui,
		workers:  workers,
		logger:   log,
	}, nil
}

// Run starts the client application and blocks until exit.
func (a *App) Run() error {
	ctx := context.Background()

	var user models.User

	restored, err := a.services.Auth.RestoreSession(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("restore session failed")
	}
	if !restored {
		user, err = a.tui.LoginFlow(ctx)
		if err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}
	}

	a.services.Metrics.Start(ctx, a.workers.MetricsInterval)
	defer a.services.Metrics.Stop()

	logout, err := a.tui.MainLoop(ctx, user)
	if err != nil {
		return err
	}
	if logout {
		if logoutErr := a.services.Auth.Logout(ctx); logoutErr != nil {
			a.logger.Warn().Err(logoutErr).Msg("logout failed")
		}
		a.services.Metrics.Stop()
		return a.Run()
	}

	return nil
}
