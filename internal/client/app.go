package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/tui"
)

const shutdownFlushTimeout = 10 * time.Second

// UI is the interactive front end run by [App].
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	services *service.ClientServices
	ui       UI
	closers  []func() error
	logger   *logger.Logger
}

// NewApp builds the client application. closers run after the UI exits and
// pending saves are flushed, in the given order.
func NewApp(services *service.ClientServices, ui UI, logger *logger.Logger, closers ...func() error) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app needs services and a ui")
	}
	return &App{services: services, ui: ui, closers: closers, logger: logger}, nil
}

// Run shows the UI until the user quits, then uploads what autosave still
// holds and releases resources. Quitting is not an error.
func (a *App) Run(ctx context.Context) error {
	uiErr := a.ui.Run(ctx)
	if errors.Is(uiErr, tui.ErrUserQuit) {
		uiErr = nil
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()

	var errs []error
	if uiErr != nil {
		errs = append(errs, fmt.Errorf("ui: %w", uiErr))
	}
	if err := a.services.Autosaver.Flush(flushCtx); err != nil {
		a.logger.Err(err).Str("func", "*App.Run").Msg("pending saves were not uploaded, they stay in the local cache")
	}
	a.services.Autosaver.Cancel()
	a.services.Session.Close()

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	a.logger.Info().Msg("client stopped")
	return errors.Join(errs...)
}
