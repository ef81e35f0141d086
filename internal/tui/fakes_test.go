package tui

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	tea "github.com/charmbracelet/bubbletea"
)

// fixedNow is a Monday in the middle of September 2025.
var fixedNow = time.Date(2025, time.September, 15, 9, 30, 0, 0, time.Local)

func clock() time.Time { return fixedNow }

type fakeEditor struct {
	mu      sync.Mutex
	ref     models.MonthRef
	weights models.MonthMap
	drafts  map[string]string
	errs    map[string]string

	loads   []models.MonthRef
	commits []string
	loadErr error
}

func newFakeEditor(ref models.MonthRef, weights models.MonthMap) *fakeEditor {
	if weights == nil {
		weights = models.MonthMap{}
	}
	return &fakeEditor{ref: ref, weights: weights, drafts: map[string]string{}, errs: map[string]string{}}
}

func (e *fakeEditor) Load(_ context.Context, ref models.MonthRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loads = append(e.loads, ref)
	e.ref = ref
	e.drafts = map[string]string{}
	e.errs = map[string]string{}
	return e.loadErr
}

func (e *fakeEditor) Month() models.MonthRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ref
}

func (e *fakeEditor) SetDraft(day, raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[day] = raw
}

func (e *fakeEditor) Commit(_ context.Context, ref models.MonthRef, day, raw string) (service.CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ref != e.ref {
		return service.CommitResult{}, service.ErrMonthChanged
	}
	e.commits = append(e.commits, day+"="+raw)

	value := strings.TrimSpace(raw)
	if value == "" {
		delete(e.weights, day)
		delete(e.drafts, day)
		delete(e.errs, day)
		return service.CommitResult{Accepted: true, Removed: true}, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || !models.InRange(v) {
		e.drafts[day] = raw
		e.errs[day] = app.MsgWeightOutOfRange
		return service.CommitResult{Error: app.MsgWeightOutOfRange}, nil
	}
	e.weights[day] = v
	e.drafts[day] = value
	delete(e.errs, day)
	return service.CommitResult{Accepted: true, Value: v}, nil
}

func (e *fakeEditor) Weights() models.MonthMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weights.Clone()
}

func (e *fakeEditor) Drafts() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.drafts))
	for k, v := range e.drafts {
		out[k] = v
	}
	return out
}

func (e *fakeEditor) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

func (e *fakeEditor) Calendar(now time.Time) service.Calendar {
	return service.BuildCalendar(e.Month(), e.Weights(), now)
}

type fakeSession struct {
	mu      sync.Mutex
	authed  bool
	user    models.User
	startFn func() error
	loginFn func(models.Credentials) error
	signups []models.Credentials
	logouts int
}

func (s *fakeSession) Start(context.Context) error {
	if s.startFn != nil {
		return s.startFn()
	}
	return nil
}

func (s *fakeSession) Login(_ context.Context, creds models.Credentials) error {
	if s.loginFn != nil {
		if err := s.loginFn(creds); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authed = true
	s.user = models.User{UserID: 7, Email: creds.Email}
	return nil
}

func (s *fakeSession) Signup(ctx context.Context, creds models.Credentials) error {
	s.mu.Lock()
	s.signups = append(s.signups, creds)
	s.mu.Unlock()
	return s.Login(ctx, creds)
}

func (s *fakeSession) Logout(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	s.authed = false
	s.user = models.User{}
	return nil
}

func (s *fakeSession) State() models.SessionState {
	if s.Authenticated() {
		return models.SessionAuthenticated
	}
	return models.SessionAnonymous
}

func (s *fakeSession) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.authed
}

func (s *fakeSession) Owner() string {
	if u, ok := s.User(); ok {
		return u.OwnerID()
	}
	return models.GuestOwner
}

func (s *fakeSession) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

func (s *fakeSession) Subscribe(func(models.SessionState)) {}

func (s *fakeSession) Close() {}

func newTestRoot(session *fakeSession, editor *fakeEditor, freeEdit bool) RootModel {
	services := &service.ClientServices{Session: session, Editor: editor}
	return NewRootModel(context.Background(), services, config.ClientUI{FreeEdit: freeEdit}, models.NewAppBuildInfo("v1.2.3", "", ""), clock)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// update feeds msg to the root and returns the new root with its command.
func update(r RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	next, cmd := r.Update(msg)
	return next.(RootModel), cmd
}

// settle runs cmd and feeds its message back until no command is left. Only
// messages produced by the test's own commands are followed.
func settle(r RootModel, cmd tea.Cmd) RootModel {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case sessionStartedMsg, authDoneMsg, loggedOutMsg, monthLoadedMsg, committedMsg:
		default:
			return r
		}
		r, cmd = update(r, msg)
	}
	return r
}
