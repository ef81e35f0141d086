package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// SessionOptions holds the session timings.
type SessionOptions struct {
	// RefreshLead is how long before expiry the access token is renewed, and
	// how long to wait before retrying a refresh that failed in transport.
	RefreshLead time.Duration
	// FlushConcurrency bounds the parallel month uploads on logout.
	FlushConcurrency int
}

type session struct {
	remote     adapter.ServerAdapter
	local      store.LocalWeightStore
	store      store.SessionStore
	reconciler Reconciler
	autosave   Autosaver
	sched      Scheduler
	opts       SessionOptions
	logger     *logger.Logger

	refreshGroup singleflight.Group

	mu           sync.Mutex
	state        models.SessionState
	user         models.User
	refreshTimer Timer
	// epoch invalidates refresh timers scheduled for an earlier session.
	epoch     uint64
	listeners []func(models.SessionState)
}

// NewSession constructs the session controller in the loading state.
func NewSession(
	remote adapter.ServerAdapter,
	local store.LocalWeightStore,
	sessionStore store.SessionStore,
	reconciler Reconciler,
	autosave Autosaver,
	sched Scheduler,
	opts SessionOptions,
	logger *logger.Logger,
) Session {
	if opts.FlushConcurrency <= 0 {
		opts.FlushConcurrency = 1
	}

	return &session{
		remote:     remote,
		local:      local,
		store:      sessionStore,
		reconciler: reconciler,
		autosave:   autosave,
		sched:      sched,
		opts:       opts,
		logger:     logger,
		state:      models.SessionLoading,
	}
}

// Start restores the stored session. Without a refresh token the client is
// anonymous. An expired or revoked refresh token signs the stored user out
// (their months move to the guest namespace). When the server is unreachable
// the stored access token is used as is and the refresh is retried later.
func (s *session) Start(ctx context.Context) error {
	refreshToken, ok, err := s.store.Get(ctx, models.SessionKeyRefreshToken)
	if err != nil {
		s.setAnonymous()
		return fmt.Errorf("error reading refresh token: %w", err)
	}
	if !ok || refreshToken == "" {
		s.dropCredentials(ctx)
		s.setAnonymous()
		return nil
	}

	user, err := s.storedUser(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "*session.Start").Msg("invalid stored user, signing out")
		s.dropCredentials(ctx)
		s.setAnonymous()
		return nil
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	resp, err := s.refresh(ctx)
	switch {
	case err == nil:
		if err = s.applyRefresh(ctx, resp); err != nil {
			return err
		}
	case forcesLogout(err):
		s.logger.Err(err).Str("func", "*session.Start").Msg("stored session expired")
		return s.signOut(ctx, user.OwnerID())
	default:
		s.logger.Err(err).Str("func", "*session.Start").Msg("silent refresh failed, restoring offline session")
		token, _, _ := s.store.Get(ctx, models.SessionKeyToken)
		s.remote.SetToken(token)
	}

	s.mu.Lock()
	user = s.user
	s.mu.Unlock()

	s.reconcile(ctx, user.OwnerID())
	s.markAuthenticated()

	if err != nil {
		s.scheduleRetry()
	} else {
		s.scheduleRefresh(s.remote.Token())
	}
	return nil
}

func (s *session) Login(ctx context.Context, creds models.Credentials) error {
	pair, err := s.remote.Login(ctx, creds)
	if err != nil {
		return mapAdapterError(err)
	}

	if err = s.autosave.Flush(ctx); err != nil {
		s.logger.Err(err).Str("func", "*session.Login").Msg("flush before login failed")
	}
	s.autosave.Cancel()

	if err = s.storeCredentials(ctx, pair); err != nil {
		return err
	}
	s.remote.SetToken(pair.AccessToken)

	s.mu.Lock()
	s.user = pair.User
	s.mu.Unlock()

	s.reconcile(ctx, pair.User.OwnerID())

	s.markAuthenticated()
	s.scheduleRefresh(pair.AccessToken)
	return nil
}

func (s *session) Signup(ctx context.Context, creds models.Credentials) error {
	if err := s.remote.Signup(ctx, creds); err != nil {
		return mapAdapterError(err)
	}
	return s.Login(ctx, creds)
}

// Logout uploads the user's months (best effort), copies them into the guest
// namespace and forgets the user's cache, credentials and migration flag.
func (s *session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.stopRefreshLocked()
	authenticated := s.state == models.SessionAuthenticated
	owner := s.user.OwnerID()
	s.mu.Unlock()

	if !authenticated {
		s.dropCredentials(ctx)
		s.setAnonymous()
		return nil
	}

	return s.signOut(ctx, owner)
}

func (s *session) signOut(ctx context.Context, owner string) error {
	log := s.logger.WithOwner(owner)

	if err := s.autosave.Flush(ctx); err != nil {
		log.Err(err).Str("func", "*session.signOut").Msg("autosave flush failed")
	}
	s.autosave.Cancel()

	months, err := s.local.ListMonths(ctx, owner)
	if err != nil {
		log.Err(err).Str("func", "*session.signOut").Msg("failed to list months")
	}
	months = months.StripEmpty()

	s.uploadAll(ctx, log, months)

	var errs []error
	for key, month := range months {
		ref, err := models.ParseMonthKey(key)
		if err != nil {
			continue
		}
		if err = s.local.Write(ctx, models.GuestOwner, ref, month); err != nil {
			errs = append(errs, fmt.Errorf("copy %s to guest: %w", key, err))
		}
	}

	if err = s.local.Clear(ctx, owner); err != nil {
		errs = append(errs, fmt.Errorf("clear %s: %w", owner, err))
	}
	if err = s.store.Set(ctx, models.SessionKeyLastUserID, owner); err != nil {
		errs = append(errs, fmt.Errorf("store last user id: %w", err))
	}

	s.dropCredentials(ctx)
	s.setAnonymous()

	if err = errors.Join(errs...); err != nil {
		log.Err(err).Str("func", "*session.signOut").Msg("logout finished with errors")
		return err
	}
	return nil
}

// uploadAll saves every month to the server. Failures are logged only: the
// server copy may lag until the next sign-in reconciles it.
func (s *session) uploadAll(ctx context.Context, log *logger.Logger, months models.WeightDocument) {
	if len(months) == 0 || s.remote.Token() == "" {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.opts.FlushConcurrency)

	for key, month := range months {
		ref, err := models.ParseMonthKey(key)
		if err != nil {
			continue
		}
		g.Go(func() error {
			if err := s.remote.SaveMonth(ctx, ref, month); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Err(err).Str("func", "*session.uploadAll").Msg("best-effort upload on logout failed")
	}
}

func (s *session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionAuthenticated {
		return models.User{}, false
	}
	return s.user, true
}

func (s *session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.SessionAuthenticated {
		return models.GuestOwner
	}
	return s.user.OwnerID()
}

func (s *session) Authenticated() bool {
	return s.State() == models.SessionAuthenticated
}

func (s *session) Subscribe(fn func(models.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRefreshLocked()
}

// ── token refresh ────────────────────────────────────────────────────────────

// refresh exchanges the stored refresh token. Concurrent callers share one
// request.
func (s *session) refresh(ctx context.Context) (models.RefreshResponse, error) {
	v, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		token, ok, err := s.store.Get(ctx, models.SessionKeyRefreshToken)
		if err != nil {
			return models.RefreshResponse{}, err
		}
		if !ok || token == "" {
			return models.RefreshResponse{}, ErrNoRefreshToken
		}
		return s.remote.Refresh(ctx, token)
	})
	if err != nil {
		return models.RefreshResponse{}, err
	}
	return v.(models.RefreshResponse), nil
}

func (s *session) applyRefresh(ctx context.Context, resp models.RefreshResponse) error {
	if err := s.store.Set(ctx, models.SessionKeyToken, resp.AccessToken); err != nil {
		return fmt.Errorf("error storing access token: %w", err)
	}
	s.remote.SetToken(resp.AccessToken)

	if resp.User.UserID == 0 {
		return nil
	}

	s.mu.Lock()
	s.user = resp.User
	s.mu.Unlock()

	if err := s.storeUser(ctx, resp.User); err != nil {
		s.logger.Err(err).Str("func", "*session.applyRefresh").Msg("failed to store user")
	}
	return nil
}

func (s *session) scheduleRefresh(token string) {
	_, exp, err := utils.ReadUnverifiedClaims(token)
	if err != nil {
		s.logger.Err(err).Str("func", "*session.scheduleRefresh").Msg("cannot read token expiry, refresh not scheduled")
		return
	}

	delay := max(exp.Sub(s.sched.Now())-s.opts.RefreshLead, 0)
	s.scheduleAfter(delay)
}

func (s *session) scheduleRetry() {
	s.scheduleAfter(s.opts.RefreshLead)
}

func (s *session) scheduleAfter(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopRefreshLocked()
	epoch := s.epoch
	s.refreshTimer = s.sched.AfterFunc(delay, func() { s.onRefreshTimer(epoch) })
}

func (s *session) onRefreshTimer(epoch uint64) {
	s.mu.Lock()
	stale := epoch != s.epoch || s.state != models.SessionAuthenticated
	s.mu.Unlock()
	if stale {
		return
	}

	ctx := context.Background()
	resp, err := s.refresh(ctx)
	if err != nil {
		if forcesLogout(err) {
			s.logger.Err(err).Str("func", "*session.onRefreshTimer").Msg("token refresh rejected, signing out")
			if err = s.Logout(ctx); err != nil {
				s.logger.Err(err).Str("func", "*session.onRefreshTimer").Msg("forced logout failed")
			}
			return
		}
		s.logger.Err(err).Str("func", "*session.onRefreshTimer").Msg("token refresh failed, retrying")
		s.scheduleRetry()
		return
	}

	if err = s.applyRefresh(ctx, resp); err != nil {
		s.logger.Err(err).Str("func", "*session.onRefreshTimer").Msg("failed to apply refreshed token")
		s.scheduleRetry()
		return
	}
	s.scheduleRefresh(resp.AccessToken)
}

func (s *session) stopRefreshLocked() {
	s.epoch++
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
		s.refreshTimer = nil
	}
}

// forcesLogout reports whether a refresh failure means the refresh token is no
// longer usable. The server words those failures as "Invalid or expired
// refresh token".
func forcesLogout(err error) bool {
	if errors.Is(err, ErrNoRefreshToken) || errors.Is(err, adapter.ErrUnauthorized) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "expired") || strings.Contains(msg, "invalid")
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *session) reconcile(ctx context.Context, owner string) {
	outcome, err := s.reconciler.Reconcile(ctx, owner)
	if err != nil {
		s.logger.Err(err).Str("func", "*session.reconcile").Str("owner", owner).Msg("reconciliation failed, will retry on next sign-in")
		return
	}
	s.logger.Debug().Str("func", "*session.reconcile").Stringer("outcome", outcome).Msg("reconciled")
}

func (s *session) storeCredentials(ctx context.Context, pair models.TokenPair) error {
	if err := s.store.Delete(ctx, models.SessionKeyMigrated); err != nil {
		return fmt.Errorf("error clearing migration flag: %w", err)
	}
	if err := s.store.Set(ctx, models.SessionKeyToken, pair.AccessToken); err != nil {
		return fmt.Errorf("error storing access token: %w", err)
	}
	if err := s.store.Set(ctx, models.SessionKeyRefreshToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	return s.storeUser(ctx, pair.User)
}

func (s *session) storeUser(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}
	if err = s.store.Set(ctx, models.SessionKeyUser, string(data)); err != nil {
		return fmt.Errorf("error storing user: %w", err)
	}
	return nil
}

func (s *session) storedUser(ctx context.Context) (models.User, error) {
	raw, ok, err := s.store.Get(ctx, models.SessionKeyUser)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, errors.New("no stored user")
	}

	var user models.User
	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, err
	}
	if user.UserID == 0 {
		return models.User{}, errors.New("stored user has no id")
	}
	return user, nil
}

func (s *session) dropCredentials(ctx context.Context) {
	err := s.store.Delete(ctx,
		models.SessionKeyToken,
		models.SessionKeyRefreshToken,
		models.SessionKeyUser,
		models.SessionKeyMigrated,
	)
	if err != nil {
		s.logger.Err(err).Str("func", "*session.dropCredentials").Msg("failed to delete credentials")
	}
	s.remote.SetToken("")
}

func (s *session) markAuthenticated() {
	s.setState(models.SessionAuthenticated)
}

func (s *session) setAnonymous() {
	s.mu.Lock()
	s.user = models.User{}
	s.mu.Unlock()
	s.setState(models.SessionAnonymous)
}

func (s *session) setState(state models.SessionState) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		emit(listeners, state)
	}
}
