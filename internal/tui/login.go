// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/validators"
	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginModel is the sign-in form. ctrl+s switches between logging in and
// creating an account; esc leaves the form and keeps working as a guest.
type loginModel struct {
	ctx       context.Context
	session   service.Session
	validator validators.Validator

	inputs     []textinput.Model
	focus      int
	signup     bool
	submitting bool
	errMsg     string
}

func newLoginModel(ctx context.Context, session service.Session) loginModel {
	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.CharLimit = 254
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 72
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return loginModel{
		ctx:       ctx,
		session:   session,
		validator: validators.NewWeightValidator(),
		inputs:    []textinput.Model{emailInput, passwordInput},
	}
}

// reset clears the form for a new visit, keeping the typed email.
func (m loginModel) reset() loginModel {
	m.inputs[1].SetValue("")
	m.submitting = false
	m.errMsg = ""
	m.inputs[m.focus].Blur()
	m.focus = 0
	m.inputs[0].Focus()
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	if result, ok := msg.(authDoneMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = humanizeError(result.err)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.tab):
			m.focusMove(1)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.focusMove(-1)
			return m, nil
		case key.Matches(keyMsg, keys.signup):
			if !m.submitting {
				m.signup = !m.signup
				m.errMsg = ""
			}
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	creds := models.Credentials{
		Email:    strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
	if creds.Email == "" || creds.Password == "" {
		m.errMsg = "Email and password are required"
		return m, nil
	}
	// Existing accounts may predate the password rules, so only signup is
	// checked locally.
	if m.signup {
		if err := m.validator.Validate(m.ctx, creds); err != nil {
			m.errMsg = "Enter a valid email and a password of 8-72 characters"
			return m, nil
		}
	}

	m.errMsg = ""
	m.submitting = true
	return m, m.cmdAuth(creds)
}

func (m loginModel) cmdAuth(creds models.Credentials) tea.Cmd {
	ctx := m.ctx
	session := m.session
	signup := m.signup
	return func() tea.Msg {
		if signup {
			return authDoneMsg{err: session.Signup(ctx, creds)}
		}
		return authDoneMsg{err: session.Login(ctx, creds)}
	}
}

func (m *loginModel) focusMove(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("Field    │ Value\n")
	b.WriteString("─────────┼────────────────────────────────────────────\n")
	b.WriteString("Email    │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		if m.signup {
			b.WriteString("\nCreating account...")
		} else {
			b.WriteString("\nSigning in...")
		}
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	title := "SIGN IN"
	hotKeys := "tab: next field • enter: sign in • ctrl+s: create account • esc: continue as guest"
	if m.signup {
		title = "CREATE ACCOUNT"
		hotKeys = "tab: next field • enter: create account • ctrl+s: sign in instead • esc: continue as guest"
	}
	return renderPage(title, b.String(), hotKeys)
}
