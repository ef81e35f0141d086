package tui

import (
	"errors"
	"testing"

	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedRoot(t *testing.T, session *fakeSession, editor *fakeEditor) RootModel {
	t.Helper()
	r := newTestRoot(session, editor, false)
	return settle(r, r.Init())
}

func TestRoot_StartAnonymousShowsLogin(t *testing.T) {
	editor := newFakeEditor(september, nil)
	r := startedRoot(t, &fakeSession{}, editor)

	assert.Equal(t, pageLogin, r.page)
	assert.Empty(t, r.busy)
	assert.Equal(t, []models.MonthRef{september}, editor.loads)
	assert.Contains(t, r.View(), "SIGN IN")
}

func TestRoot_StartAuthenticatedShowsCalendar(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7, Email: "ada@example.com"}}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	assert.Equal(t, pageCalendar, r.page)
	assert.Contains(t, r.View(), "ada@example.com")
}

func TestRoot_StartErrorIsShown(t *testing.T) {
	session := &fakeSession{startFn: func() error { return service.ErrServerUnavailable }}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	assert.Equal(t, pageLogin, r.page)
	assert.Equal(t, service.UserMessage(service.ErrServerUnavailable), r.errMsg)
}

func TestRoot_GuestContinuesWithEsc(t *testing.T) {
	r := startedRoot(t, &fakeSession{}, newFakeEditor(september, nil))

	r, _ = update(r, keyOf(tea.KeyEsc))

	assert.Equal(t, pageCalendar, r.page)
	assert.Contains(t, r.View(), "guest")
}

func TestRoot_LoginSwitchesToCalendar(t *testing.T) {
	session := &fakeSession{}
	editor := newFakeEditor(september, nil)
	r := startedRoot(t, session, editor)

	r, _ = update(r, runes("ada@example.com"))
	r, _ = update(r, keyOf(tea.KeyTab))
	r, _ = update(r, runes("secret"))
	r, cmd := update(r, keyOf(tea.KeyEnter))
	require.True(t, r.login.submitting)

	r = settle(r, cmd)

	assert.Equal(t, pageCalendar, r.page)
	assert.True(t, session.Authenticated())
	assert.Len(t, editor.loads, 2, "the month is reloaded for the signed-in owner")
	assert.Contains(t, r.View(), "ada@example.com")
}

func TestRoot_LoginFailureStaysOnForm(t *testing.T) {
	session := &fakeSession{loginFn: func(models.Credentials) error { return service.ErrInvalidCredentials }}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	r, _ = update(r, runes("ada@example.com"))
	r, _ = update(r, keyOf(tea.KeyTab))
	r, _ = update(r, runes("wrong"))
	r, cmd := update(r, keyOf(tea.KeyEnter))
	r = settle(r, cmd)

	assert.Equal(t, pageLogin, r.page)
	assert.False(t, r.login.submitting)
	assert.Equal(t, "Invalid email or password", r.login.errMsg)
}

func TestRoot_LogoutKey(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7, Email: "ada@example.com"}}
	editor := newFakeEditor(september, nil)
	r := startedRoot(t, session, editor)

	r, cmd := update(r, runes("L"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Logging out...", r.busy)
	assert.Contains(t, r.View(), "Logging out...")

	r = settle(r, cmd)

	assert.Equal(t, 1, session.logouts)
	assert.Equal(t, pageLogin, r.page)
	assert.Empty(t, r.busy)
	assert.Len(t, editor.loads, 2)
}

func TestRoot_GuestLKeyOpensLogin(t *testing.T) {
	session := &fakeSession{}
	r := startedRoot(t, session, newFakeEditor(september, nil))
	r, _ = update(r, keyOf(tea.KeyEsc))
	require.Equal(t, pageCalendar, r.page)

	r, cmd := update(r, runes("L"))

	assert.Nil(t, cmd)
	assert.Equal(t, pageLogin, r.page)
	assert.Zero(t, session.logouts)
}

func TestRoot_QuitKeys(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7}}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	r, cmd := update(r, runes("q"))

	require.NotNil(t, cmd)
	assert.True(t, r.quitByUser)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRoot_QuitKeyTypedWhileEditing(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7}}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	r, _ = update(r, keyOf(tea.KeyEnter))
	require.True(t, r.calendar.isEditing())

	r, _ = update(r, runes("q"))

	assert.False(t, r.quitByUser)
	assert.Equal(t, "q", r.calendar.input.Value())
}

func TestRoot_VersionWindow(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7}}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	r, _ = update(r, runes("v"))
	require.True(t, r.showBuildInfo)
	assert.Contains(t, r.View(), "Version: v1.2.3")
	assert.Contains(t, r.View(), "Commit: N/A")

	r, _ = update(r, runes("L"))
	assert.True(t, r.showBuildInfo, "keys are swallowed while the window is open")

	r, _ = update(r, keyOf(tea.KeyEsc))
	assert.False(t, r.showBuildInfo)
}

func TestRoot_ConflictPrompt(t *testing.T) {
	r := startedRoot(t, &fakeSession{}, newFakeEditor(september, nil))
	reply := make(chan service.Choice, 1)

	r, _ = update(r, conflictMsg{
		local:  models.Summary{Months: 1, Entries: 1, First: "2025-09", Last: "2025-09"},
		server: models.Summary{Months: 1, Entries: 4, First: "2025-08", Last: "2025-08"},
		reply:  reply,
	})
	require.NotNil(t, r.conflict)
	assert.Contains(t, r.View(), "differs between this device and the server")

	r, _ = update(r, runes("x"))
	require.NotNil(t, r.conflict, "login form does not receive keys under the prompt")
	assert.Empty(t, r.login.inputs[0].Value())

	r, _ = update(r, runes("2"))

	assert.Nil(t, r.conflict)
	assert.Equal(t, service.ChoiceServer, <-reply)
}

func TestRoot_CtrlCReleasesConflict(t *testing.T) {
	r := startedRoot(t, &fakeSession{}, newFakeEditor(september, nil))
	reply := make(chan service.Choice, 1)
	r, _ = update(r, conflictMsg{reply: reply})

	r, cmd := update(r, keyOf(tea.KeyCtrlC))

	assert.True(t, r.quitByUser)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, service.ChoiceMerge, <-reply)
}

func TestRoot_BackgroundSignOutReloads(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7}}
	editor := newFakeEditor(september, nil)
	r := startedRoot(t, session, editor)

	r, cmd := update(r, sessionStateMsg{state: models.SessionAnonymous})
	r = settle(r, cmd)

	assert.Len(t, editor.loads, 2)
	assert.False(t, r.calendar.loading)
}

func TestRoot_SaveStatusReachesCalendar(t *testing.T) {
	session := &fakeSession{authed: true, user: models.User{UserID: 7}}
	r := startedRoot(t, session, newFakeEditor(september, nil))

	r, _ = update(r, saveStatusMsg{status: service.SaveSaving})

	assert.Equal(t, service.SaveSaving, r.calendar.saveStatus)
}

func TestLogin_Validation(t *testing.T) {
	tests := []struct {
		name    string
		signup  bool
		email   string
		pass    string
		wantErr string
	}{
		{name: "empty", wantErr: "Email and password are required"},
		{name: "missing password", email: "ada@example.com", wantErr: "Email and password are required"},
		{name: "signup short password", signup: true, email: "ada@example.com", pass: "short", wantErr: "Enter a valid email and a password of 8-72 characters"},
		{name: "signup bad email", signup: true, email: "ada", pass: "long-enough", wantErr: "Enter a valid email and a password of 8-72 characters"},
		{name: "login skips password rules", email: "ada@example.com", pass: "short"},
		{name: "signup ok", signup: true, email: "ada@example.com", pass: "long-enough"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{}
			r := newTestRoot(session, newFakeEditor(september, nil), false)
			m := r.login
			m.signup = tt.signup
			m.inputs[0].SetValue(tt.email)
			m.inputs[1].SetValue(tt.pass)

			m, cmd := m.submit()

			assert.Equal(t, tt.wantErr, m.errMsg)
			if tt.wantErr != "" {
				assert.Nil(t, cmd)
				assert.False(t, m.submitting)
				return
			}
			require.NotNil(t, cmd)
			assert.True(t, m.submitting)
			done, ok := cmd().(authDoneMsg)
			require.True(t, ok)
			assert.NoError(t, done.err)
			if tt.signup {
				assert.Len(t, session.signups, 1)
			} else {
				assert.Empty(t, session.signups)
			}
		})
	}
}

func TestLogin_SignupToggle(t *testing.T) {
	r := newTestRoot(&fakeSession{}, newFakeEditor(september, nil), false)
	m := r.login

	m, _ = m.Update(keyOf(tea.KeyCtrlS))
	assert.True(t, m.signup)
	assert.Contains(t, m.View(), "CREATE ACCOUNT")

	m, _ = m.Update(keyOf(tea.KeyCtrlS))
	assert.False(t, m.signup)
	assert.Contains(t, m.View(), "SIGN IN")
}

func TestHumanizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "refused", err: errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"), want: "No network or the server is unavailable"},
		{name: "timeout", err: errors.New("Get \"http://x\": context deadline exceeded"), want: "No network or the server is unavailable"},
		{name: "credentials", err: service.ErrInvalidCredentials, want: "Invalid email or password"},
		{name: "unknown", err: errors.New("boom"), want: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeError(tt.err))
		})
	}
}
