package tui

import (
	"context"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type page int

const (
	pageLoading page = iota
	pageLogin
	pageCalendar
)

// RootModel is a TUI router:
// 1) keeps the active page
// 2) handles global quit, version and logout keys
// 3) shows the conflict prompt above any page
// 4) delegates all other messages to the active page
type RootModel struct {
	ctx      context.Context
	services *service.ClientServices

	page     page
	login    loginModel
	calendar calendarModel
	conflict *conflictModel

	buildInfo     models.AppBuildInfo
	showBuildInfo bool

	busy       string
	errMsg     string
	quitByUser bool
}

func NewRootModel(ctx context.Context, services *service.ClientServices, cfg config.ClientUI, buildInfo models.AppBuildInfo, now func() time.Time) RootModel {
	return RootModel{
		ctx:       ctx,
		services:  services,
		page:      pageLoading,
		login:     newLoginModel(ctx, services.Session),
		calendar:  newCalendarModel(ctx, services.Editor, cfg.FreeEdit, now),
		buildInfo: buildInfo,
		busy:      "Starting...",
	}
}

func (r RootModel) Init() tea.Cmd {
	return r.cmdStartSession()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			r.quitByUser = true
			r.answerConflict()
			return r, tea.Quit
		}
		if r.conflict != nil {
			if r.conflict.Update(keyMsg) {
				r.conflict = nil
			}
			return r, nil
		}
		if r.showBuildInfo {
			if key.Matches(keyMsg, keys.esc) || key.Matches(keyMsg, keys.version) {
				r.showBuildInfo = false
			}
			return r, nil
		}
		if r.page == pageCalendar && !r.calendar.isEditing() && r.busy == "" {
			switch {
			case key.Matches(keyMsg, keys.quit):
				r.quitByUser = true
				return r, tea.Quit
			case key.Matches(keyMsg, keys.version):
				r.showBuildInfo = true
				return r, nil
			case key.Matches(keyMsg, keys.logout):
				if r.services.Session.Authenticated() {
					r.busy = "Logging out..."
					return r, r.cmdLogout()
				}
				r.page = pageLogin
				r.login = r.login.reset()
				return r, nil
			}
		}
		if r.page == pageLogin && key.Matches(keyMsg, keys.esc) && !r.login.submitting {
			r.page = pageCalendar
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case conflictMsg:
		r.answerConflict()
		r.conflict = newConflictModel(msg)
		return r, nil
	case sessionStartedMsg:
		r.busy = ""
		if msg.err != nil {
			r.errMsg = humanizeError(msg.err)
		}
		if r.services.Session.Authenticated() {
			r.page = pageCalendar
		} else {
			r.page = pageLogin
		}
		cmd := r.reloadMonth()
		return r, cmd
	case authDoneMsg:
		r.login, _ = r.login.Update(msg)
		if msg.err != nil {
			return r, nil
		}
		r.errMsg = ""
		r.page = pageCalendar
		cmd := r.reloadMonth()
		return r, cmd
	case loggedOutMsg:
		r.busy = ""
		r.errMsg = ""
		if msg.err != nil {
			r.errMsg = humanizeError(msg.err)
		}
		r.login = r.login.reset()
		r.page = pageLogin
		cmd := r.reloadMonth()
		return r, cmd
	case sessionStateMsg:
		// A refresh failure can sign the user out in the background.
		if msg.state == models.SessionAnonymous && r.page == pageCalendar && r.busy == "" {
			cmd := r.reloadMonth()
			return r, cmd
		}
		return r, nil
	case monthLoadedMsg, committedMsg, saveStatusMsg, copiedMsg, clearStatusMsg:
		var cmd tea.Cmd
		r.calendar, cmd = r.calendar.Update(msg)
		return r, cmd
	}

	var cmd tea.Cmd
	switch r.page {
	case pageLogin:
		r.login, cmd = r.login.Update(msg)
	case pageCalendar:
		r.calendar, cmd = r.calendar.Update(msg)
	}
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(r.buildInfo))
	}

	var body string
	switch {
	case r.busy != "":
		body = renderPage("WEIGHT TRACKER", r.busy, "")
	case r.page == pageLogin:
		body = r.login.View()
	case r.page == pageCalendar:
		body = r.calendar.View(r.userLabel())
	default:
		body = renderPage("WEIGHT TRACKER", "", "")
	}

	if r.errMsg != "" {
		body += "\n\n" + errorStyle.Render(r.errMsg)
	}
	if r.conflict != nil {
		body += "\n\n" + r.conflict.View()
	}
	return appStyle.Render(body)
}

func (r RootModel) userLabel() string {
	if user, ok := r.services.Session.User(); ok && r.services.Session.Authenticated() {
		return user.Email
	}
	return "guest"
}

// answerConflict releases a reconciliation still waiting on an open prompt.
func (r *RootModel) answerConflict() {
	if r.conflict != nil {
		r.conflict.answer(service.ChoiceMerge)
		r.conflict = nil
	}
}

func (r *RootModel) reloadMonth() tea.Cmd {
	var cmd tea.Cmd
	r.calendar, cmd = r.calendar.load(r.calendar.editor.Month())
	return cmd
}

// cmdStartSession restores a stored session. Reconciliation may run inside
// it, so it must not block the program loop.
func (r RootModel) cmdStartSession() tea.Cmd {
	ctx := r.ctx
	session := r.services.Session
	return func() tea.Msg {
		return sessionStartedMsg{err: session.Start(ctx)}
	}
}

func (r RootModel) cmdLogout() tea.Cmd {
	ctx := r.ctx
	session := r.services.Session
	return func() tea.Msg {
		return loggedOutMsg{err: session.Logout(ctx)}
	}
}
