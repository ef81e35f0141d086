package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// ── manual scheduler ─────────────────────────────────────────────────────────

type manualTimer struct {
	s       *manualScheduler
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler is a fake clock. Timers fire only from Advance, on the
// calling goroutine, in deadline order.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

func newManualScheduler(now time.Time) *manualScheduler {
	return &manualScheduler{now: now}
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now.Add(d), seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including timers scheduled by callbacks within the window.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		if next.at.After(s.now) {
			s.now = next.at
		}
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of armed timers.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// ── in-memory local store ────────────────────────────────────────────────────

type memLocalStore struct {
	mu      sync.Mutex
	months  map[string]models.MonthMap
	pending map[string]bool
	// writeErr fails every Write when set.
	writeErr error
}

var _ store.LocalWeightStore = (*memLocalStore)(nil)

func newMemLocalStore() *memLocalStore {
	return &memLocalStore{months: map[string]models.MonthMap{}, pending: map[string]bool{}}
}

func (m *memLocalStore) Read(_ context.Context, owner string, ref models.MonthRef) models.MonthMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	month, ok := m.months[store.MonthKey(owner, ref)]
	if !ok {
		return models.MonthMap{}
	}
	return month.Clone()
}

func (m *memLocalStore) Write(_ context.Context, owner string, ref models.MonthRef, month models.MonthMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.months[store.MonthKey(owner, ref)] = month.Clone()
	return nil
}

func (m *memLocalStore) ListKeys(_ context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := "weights-" + owner + "-"
	var keys []string
	for k := range m.months {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memLocalStore) ListMonths(_ context.Context, owner string) (models.WeightDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := "weights-" + owner + "-"
	doc := models.WeightDocument{}
	for k, month := range m.months {
		if strings.HasPrefix(k, prefix) {
			doc[strings.TrimPrefix(k, prefix)] = month.Clone()
		}
	}
	return doc, nil
}

func (m *memLocalStore) Clear(_ context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.months {
		if strings.HasPrefix(k, "weights-"+owner+"-") {
			delete(m.months, k)
		}
	}
	for k := range m.pending {
		if strings.HasPrefix(k, "pending-"+owner+"-") {
			delete(m.pending, k)
		}
	}
	return nil
}

func (m *memLocalStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.months = map[string]models.MonthMap{}
	m.pending = map[string]bool{}
	return nil
}

func (m *memLocalStore) SetPending(_ context.Context, owner string, ref models.MonthRef, pending bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "pending-" + owner + "-" + ref.Key()
	if pending {
		m.pending[key] = true
	} else {
		delete(m.pending, key)
	}
	return nil
}

func (m *memLocalStore) IsPending(_ context.Context, owner string, ref models.MonthRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending["pending-"+owner+"-"+ref.Key()]
}

// month returns a stored month or nil when the key is absent.
func (m *memLocalStore) month(owner string, ref models.MonthRef) models.MonthMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.months[store.MonthKey(owner, ref)]
}

// ── in-memory session store ──────────────────────────────────────────────────

type memSessionStore struct {
	mu     sync.Mutex
	values map[string]string
}

var _ store.SessionStore = (*memSessionStore)(nil)

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{values: map[string]string{}}
}

func (m *memSessionStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memSessionStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memSessionStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// ── owner source ─────────────────────────────────────────────────────────────

type staticOwner struct {
	mu    sync.Mutex
	owner string
	// onOwner runs once, on the next Owner call, outside the lock.
	onOwner func()
}

func (o *staticOwner) Owner() string {
	o.mu.Lock()
	hook := o.onOwner
	o.onOwner = nil
	owner := o.owner
	o.mu.Unlock()

	if hook != nil {
		hook()
	}
	return owner
}

func (o *staticOwner) Authenticated() bool {
	return o.Owner() != models.GuestOwner
}

func (o *staticOwner) set(owner string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owner = owner
}
