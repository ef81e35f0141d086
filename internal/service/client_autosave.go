// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// SaveStatus is the autosave indicator shown next to the calendar.
type SaveStatus int

const (
	SaveIdle SaveStatus = iota
	SaveSaving
	SaveSaved
	SaveError
)

func (s SaveStatus) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveSaving:
		return "saving"
	case SaveSaved:
		return "saved"
	case SaveError:
		return "error"
	default:
		return "unknown"
	}
}

type pendingSave struct {
	owner string
	ref   models.MonthRef
	month models.MonthMap
	dirty bool
}

type autosaver struct {
	remote adapter.WeightAPI
	local  store.LocalWeightStore
	sched  Scheduler

	debounce     time.Duration
	savedDisplay time.Duration

	logger *logger.Logger

	mu        sync.Mutex
	pending   []pendingSave
	timer     Timer
	idleTimer Timer
	status    SaveStatus
	listeners []func(SaveStatus)

	// saveMu is held for the whole duration of one batch of remote saves.
	saveMu sync.Mutex
}

// NewAutosaver constructs the debounced month uploader. Snapshots handed to
// Schedule are saved with [adapter.WeightAPI.SaveMonth] once no new edit has
// arrived for debounce.
func NewAutosaver(remote adapter.WeightAPI, local store.LocalWeightStore, sched Scheduler, debounce, savedDisplay time.Duration, logger *logger.Logger) Autosaver {
	return &autosaver{
		remote:       remote,
		local:        local,
		sched:        sched,
		debounce:     debounce,
		savedDisplay: savedDisplay,
		logger:       logger,
	}
}

// Schedule queues snapshot as the latest state of (owner, ref) and restarts the
// debounce timer. A dirty snapshot is a real user edit: it turns the status to
// saving and earns a "saved" confirmation. A later snapshot of the same month
// replaces the earlier one but keeps its dirty bit.
func (a *autosaver) Schedule(owner string, ref models.MonthRef, snapshot models.MonthMap, dirty bool) {
	a.mu.Lock()
	a.stopTimersLocked()

	replaced := false
	for i := range a.pending {
		if a.pending[i].owner == owner && a.pending[i].ref == ref {
			a.pending[i].month = snapshot.Clone()
			a.pending[i].dirty = a.pending[i].dirty || dirty
			replaced = true
			break
		}
	}
	if !replaced {
		a.pending = append(a.pending, pendingSave{owner: owner, ref: ref, month: snapshot.Clone(), dirty: dirty})
	}

	a.timer = a.sched.AfterFunc(a.debounce, a.fire)

	notify := dirty && a.status != SaveSaving
	if dirty {
		a.status = SaveSaving
	}
	listeners := a.listeners
	a.mu.Unlock()

	if notify {
		emit(listeners, SaveSaving)
	}
}

// Flush cancels the debounce timer and saves everything queued, waiting for
// a save already in flight first. Once it returns, no save queued before the
// call can start any more.
func (a *autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	return a.run(ctx)
}

// Cancel drops queued snapshots and stops every timer. Pending markers in the
// local store are left in place, so the months are resynced later.
func (a *autosaver) Cancel() {
	a.mu.Lock()
	a.stopTimersLocked()
	a.pending = nil
	changed := a.status != SaveIdle
	a.status = SaveIdle
	listeners := a.listeners
	a.mu.Unlock()

	if changed {
		emit(listeners, SaveIdle)
	}
}

func (a *autosaver) Status() SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *autosaver) Subscribe(fn func(SaveStatus)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *autosaver) fire() {
	if err := a.run(context.Background()); err != nil {
		a.logger.Err(err).Str("func", "*autosaver.fire").Msg("debounced save failed")
	}
}

func (a *autosaver) run(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	batch := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var (
		firstErr error
		dirty    bool
	)
	for _, p := range batch {
		dirty = dirty || p.dirty

		if err := a.remote.SaveMonth(ctx, p.ref, p.month); err != nil {
			a.logger.Err(err).
				Str("func", "*autosaver.run").
				Str("owner", p.owner).
				Str("month", p.ref.Key()).
				Msg("failed to save month")
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %w", ErrAutosaveFailed, p.ref.Key(), err)
			}
			continue
		}

		if !a.requeued(p.owner, p.ref) {
			if err := a.local.SetPending(ctx, p.owner, p.ref, false); err != nil {
				a.logger.Err(err).Str("func", "*autosaver.run").Str("month", p.ref.Key()).Msg("failed to clear pending marker")
			}
		}
	}

	if firstErr != nil {
		a.setStatus(SaveError)
		return firstErr
	}

	if dirty {
		a.markSaved()
	}
	return nil
}

// requeued reports whether a newer snapshot of the month arrived while it was
// being saved.
func (a *autosaver) requeued(owner string, ref models.MonthRef) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.pending {
		if p.owner == owner && p.ref == ref {
			return true
		}
	}
	return false
}

// markSaved shows "saved" and schedules the return to idle, unless a newer
// edit is already waiting.
func (a *autosaver) markSaved() {
	a.mu.Lock()
	if len(a.pending) > 0 {
		a.mu.Unlock()
		return
	}
	if a.idleTimer != nil {
		a.idleTimer.Stop()
	}
	a.status = SaveSaved
	a.idleTimer = a.sched.AfterFunc(a.savedDisplay, a.toIdle)
	listeners := a.listeners
	a.mu.Unlock()

	emit(listeners, SaveSaved)
}

func (a *autosaver) toIdle() {
	a.mu.Lock()
	if a.status != SaveSaved {
		a.mu.Unlock()
		return
	}
	a.status = SaveIdle
	a.idleTimer = nil
	listeners := a.listeners
	a.mu.Unlock()

	emit(listeners, SaveIdle)
}

func (a *autosaver) setStatus(s SaveStatus) {
	a.mu.Lock()
	if a.idleTimer != nil {
		a.idleTimer.Stop()
		a.idleTimer = nil
	}
	a.status = s
	listeners := a.listeners
	a.mu.Unlock()

	emit(listeners, s)
}

func (a *autosaver) stopTimersLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.idleTimer != nil {
		a.idleTimer.Stop()
		a.idleTimer = nil
	}
}

func emit[T any](listeners []func(T), v T) {
	for _, fn := range listeners {
		fn(v)
	}
}
