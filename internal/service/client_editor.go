package service

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// CommitResult describes the outcome of [WeightEditor.Commit].
type CommitResult struct {
	// Accepted is true when the month changed (set or removed).
	Accepted bool
	// Removed is true when an empty value deleted the day.
	Removed bool
	Value   float64
	// Error is the inline message for a rejected value, empty otherwise.
	Error string
}

type weightEditor struct {
	local    store.LocalWeightStore
	remote   adapter.WeightAPI
	autosave Autosaver
	owners   OwnerSource
	flags    store.SessionStore
	logger   *logger.Logger

	mu      sync.Mutex
	ref     models.MonthRef
	owner   string
	weights models.MonthMap
	drafts  map[string]string
	errors  map[string]string
	// switching is set from the start of Load until ref's local copy is in
	// place. Commits are refused meanwhile.
	switching bool
	// gen increases on every Load so a slow server fetch cannot overwrite a
	// month that is no longer displayed.
	gen uint64
}

// NewWeightEditor constructs the editor. It starts on ref with an empty month;
// call Load to populate it. flags is read for the migration flag: until
// reconciliation completes, server months never replace local ones.
func NewWeightEditor(local store.LocalWeightStore, remote adapter.WeightAPI, autosave Autosaver, owners OwnerSource, flags store.SessionStore, ref models.MonthRef, logger *logger.Logger) WeightEditor {
	return &weightEditor{
		local:    local,
		remote:   remote,
		autosave: autosave,
		owners:   owners,
		flags:    flags,
		logger:   logger,
		ref:      ref,
		owner:    owners.Owner(),
		weights:  models.MonthMap{},
		drafts:   map[string]string{},
		errors:   map[string]string{},
	}
}

func (e *weightEditor) Load(ctx context.Context, ref models.MonthRef) error {
	if !ref.Valid() {
		return fmt.Errorf("%w: %s", models.ErrInvalidMonthKey, ref.Key())
	}

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.ref = ref
	e.switching = true
	e.mu.Unlock()

	if err := e.autosave.Flush(ctx); err != nil {
		// the pending marker stays set, the month is resynced on its next load
		e.logger.Err(err).Str("func", "*weightEditor.Load").Msg("flush before month switch failed")
	}
	e.autosave.Cancel()

	owner := e.owners.Owner()
	authenticated := e.owners.Authenticated() && owner != models.GuestOwner
	month := e.local.Read(ctx, owner, ref)

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return nil
	}
	e.owner = owner
	e.switching = false
	e.resetLocked(month)
	e.mu.Unlock()

	if !authenticated {
		return nil
	}

	server, err := e.remote.FetchMonth(ctx, ref)
	if err != nil {
		e.logger.Err(err).
			Str("func", "*weightEditor.Load").
			Str("month", ref.Key()).
			Msg("failed to fetch month, keeping local copy")
		return nil
	}

	reconciled := e.reconciled(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return nil
	}

	pending := e.local.IsPending(ctx, owner, ref)

	switch {
	case !reconciled:
		// local still holds the guest copy adopted at sign-in; it must
		// survive until reconciliation runs again
		merged := underlay(server, e.weights)
		if len(server) > 0 {
			if err = e.local.Write(ctx, owner, ref, merged); err != nil {
				return fmt.Errorf("error caching merged month: %w", err)
			}
			e.resetLocked(merged)
		}
		if pending {
			e.autosave.Schedule(owner, ref, merged, false)
		}
	case pending:
		e.autosave.Schedule(owner, ref, e.weights, false)
	case len(server) > 0:
		if err = e.local.Write(ctx, owner, ref, server); err != nil {
			return fmt.Errorf("error caching server month: %w", err)
		}
		e.resetLocked(server)
	case len(e.weights) > 0:
		e.autosave.Schedule(owner, ref, e.weights, false)
	}

	return nil
}

// reconciled reports whether the migration flag says reconciliation has
// completed. A read error counts as not reconciled.
func (e *weightEditor) reconciled(ctx context.Context) bool {
	v, ok, err := e.flags.Get(ctx, models.SessionKeyMigrated)
	if err != nil {
		e.logger.Err(err).Str("func", "*weightEditor.reconciled").Msg("failed to read migration flag")
		return false
	}
	return ok && models.MigrationFlag(v).Completed()
}

// underlay returns server with every day of local laid over it.
func underlay(server, local models.MonthMap) models.MonthMap {
	merged := make(models.MonthMap, len(server)+len(local))
	maps.Copy(merged, server)
	maps.Copy(merged, local)
	return merged
}

func (e *weightEditor) resetLocked(month models.MonthMap) {
	e.weights = month.Clone()
	e.drafts = make(map[string]string, len(month))
	for day, v := range month {
		e.drafts[day] = formatWeight(v)
	}
	e.errors = map[string]string{}
}

func (e *weightEditor) Month() models.MonthRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ref
}

func (e *weightEditor) SetDraft(day, raw string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[day] = raw
}

func (e *weightEditor) Commit(ctx context.Context, ref models.MonthRef, day, raw string) (CommitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.switching || ref != e.ref {
		return CommitResult{}, fmt.Errorf("%w: %s, showing %s", ErrMonthChanged, ref.Key(), e.ref.Key())
	}

	if !e.validDayLocked(day) {
		return CommitResult{}, fmt.Errorf("%w: %q in %s", ErrInvalidDay, day, e.ref.Key())
	}

	owner := e.owners.Owner()
	if owner != e.owner {
		return CommitResult{}, ErrOwnerChanged
	}

	value := strings.TrimSpace(raw)
	var result CommitResult

	next := e.weights.Clone()
	if value == "" {
		delete(next, day)
		result = CommitResult{Accepted: true, Removed: true}
	} else {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) || !models.InRange(v) {
			e.drafts[day] = raw
			e.errors[day] = app.MsgWeightOutOfRange
			return CommitResult{Error: app.MsgWeightOutOfRange}, nil
		}
		next[day] = v
		result = CommitResult{Accepted: true, Value: v}
	}

	if err := e.local.Write(ctx, owner, e.ref, next); err != nil {
		return CommitResult{}, fmt.Errorf("error persisting month: %w", err)
	}

	e.weights = next
	delete(e.errors, day)
	if result.Removed {
		delete(e.drafts, day)
	} else {
		e.drafts[day] = value
	}

	if e.owners.Authenticated() && owner != models.GuestOwner {
		if err := e.local.SetPending(ctx, owner, e.ref, true); err != nil {
			e.logger.Err(err).Str("func", "*weightEditor.Commit").Msg("failed to mark month pending")
		}
		e.autosave.Schedule(owner, e.ref, next, true)
	}

	return result, nil
}

func (e *weightEditor) validDayLocked(day string) bool {
	if !models.ValidDay(day) {
		return false
	}
	d, _ := strconv.Atoi(day)
	return d <= DaysIn(e.ref)
}

func (e *weightEditor) Weights() models.MonthMap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weights.Clone()
}

func (e *weightEditor) Drafts() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.drafts)
}

func (e *weightEditor) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.errors)
}

func (e *weightEditor) Calendar(now time.Time) Calendar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildCalendar(e.ref, e.weights, now)
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
