package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

// TUI runs the terminal calendar on top of the client services.
type TUI struct {
	services  *service.ClientServices
	resolver  *PromptResolver
	cfg       config.ClientUI
	buildInfo models.AppBuildInfo
	now       func() time.Time
	logger    *logger.Logger
}

// New builds the TUI. resolver must be the one the client services were
// created with, so reconciliation conflicts surface as a prompt.
func New(services *service.ClientServices, resolver *PromptResolver, cfg config.ClientUI, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		services:  services,
		resolver:  resolver,
		cfg:       cfg,
		buildInfo: buildInfo,
		now:       time.Now,
		logger:    logger,
	}
}

// Run blocks until the user quits. Save status and session changes are
// forwarded to the program as messages.
func (t *TUI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	root := NewRootModel(ctx, t.services, t.cfg, t.buildInfo, t.now)
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	t.resolver.attach(p.Send)
	defer t.resolver.detach()

	t.services.Autosaver.Subscribe(func(s service.SaveStatus) {
		p.Send(saveStatusMsg{status: s})
	})
	t.services.Session.Subscribe(func(s models.SessionState) {
		p.Send(sessionStateMsg{state: s})
	})

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui run: %w", err)
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		t.logger.Info().Msg("user quit")
		return ErrUserQuit
	}
	return nil
}
