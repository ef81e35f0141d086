// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// Choice is the user's answer to a reconciliation conflict.
type Choice int

const (
	// ChoiceLocal keeps local data only and overwrites the server.
	ChoiceLocal Choice = 1
	// ChoiceServer keeps server data only and discards local changes.
	ChoiceServer Choice = 2
	// ChoiceMerge merges both, local wins on overlapping days. Default.
	ChoiceMerge Choice = 3
	// ChoiceCleanSlate erases local and server data.
	ChoiceCleanSlate Choice = 4
)

func (c Choice) Valid() bool {
	return c >= ChoiceLocal && c <= ChoiceCleanSlate
}

// ParseChoice reads a prompt answer. Empty or unrecognised input selects
// [ChoiceMerge].
func ParseChoice(input string) Choice {
	switch strings.TrimSpace(input) {
	case "1":
		return ChoiceLocal
	case "2":
		return ChoiceServer
	case "4":
		return ChoiceCleanSlate
	default:
		return ChoiceMerge
	}
}

// ConflictResolverFunc adapts a function to [ConflictResolver].
type ConflictResolverFunc func(ctx context.Context, local, server models.Summary) (Choice, error)

func (f ConflictResolverFunc) Resolve(ctx context.Context, local, server models.Summary) (Choice, error) {
	return f(ctx, local, server)
}

// Outcome reports which branch a reconciliation took.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeAlreadyDone
	OutcomeInFlight
	OutcomeAdoptedServer
	OutcomeUnchanged
	OutcomeMerged
	OutcomeLocalKept
	OutcomeServerKept
	OutcomeCleanSlate
	OutcomeAdoptedLocal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyDone:
		return "already_done"
	case OutcomeInFlight:
		return "in_flight"
	case OutcomeAdoptedServer:
		return "adopted_server"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeMerged:
		return "merged"
	case OutcomeLocalKept:
		return "local_kept"
	case OutcomeServerKept:
		return "server_kept"
	case OutcomeCleanSlate:
		return "clean_slate"
	case OutcomeAdoptedLocal:
		return "adopted_local"
	default:
		return "failed"
	}
}

type reconciler struct {
	local    store.LocalWeightStore
	session  store.SessionStore
	remote   adapter.WeightAPI
	resolver ConflictResolver
	logger   *logger.Logger

	inFlight atomic.Bool
}

// NewReconciler constructs the reconciliation engine. The re-entrancy guard
// belongs to the returned instance, so each session controller owns its own.
func NewReconciler(local store.LocalWeightStore, session store.SessionStore, remote adapter.WeightAPI, resolver ConflictResolver, logger *logger.Logger) Reconciler {
	return &reconciler{
		local:    local,
		session:  session,
		remote:   remote,
		resolver: resolver,
		logger:   logger,
	}
}

// Reconcile folds the guest cache into owner's namespace and agrees on one
// document with the server. Any failure returns [OutcomeFailed] and leaves
// the migration flag unset so the next sign-in retries.
func (r *reconciler) Reconcile(ctx context.Context, owner string) (Outcome, error) {
	log := r.logger.WithOwner(owner)

	if !r.inFlight.CompareAndSwap(false, true) {
		log.Debug().Str("func", "*reconciler.Reconcile").Msg("reconciliation already running")
		return OutcomeInFlight, nil
	}
	defer r.inFlight.Store(false)

	flag, err := r.flag(ctx)
	if err != nil {
		return r.fail(log, "read migration flag", err)
	}
	if flag.Completed() {
		return OutcomeAlreadyDone, nil
	}

	if err = r.adoptGuest(ctx, owner); err != nil {
		return r.fail(log, "copy guest months", err)
	}

	localDoc, err := r.local.ListMonths(ctx, owner)
	if err != nil {
		return r.fail(log, "list local months", err)
	}

	serverDoc, err := r.remote.FetchAll(ctx)
	if err != nil {
		return r.fail(log, "fetch server document", err)
	}

	localDoc = localDoc.StripEmpty()
	serverDoc = serverDoc.StripEmpty()

	if len(localDoc) == 0 {
		if err = r.persist(ctx, owner, serverDoc); err != nil {
			return r.fail(log, "adopt server document", err)
		}
		return r.finish(ctx, log, OutcomeAdoptedServer, models.MigrationDone)
	}

	if localDoc.Equivalent(serverDoc) {
		return r.finish(ctx, log, OutcomeUnchanged, models.MigrationSkip)
	}

	if len(serverDoc) == 0 {
		// nothing on the server to lose, every choice but clean slate ends the same
		result, err := r.remote.Migrate(ctx, localDoc, false)
		if err != nil {
			return r.fail(log, "upload local document", err)
		}
		if err = r.persist(ctx, owner, result); err != nil {
			return r.fail(log, "persist uploaded document", err)
		}
		return r.finish(ctx, log, OutcomeAdoptedLocal, models.MigrationDone)
	}

	choice := ChoiceMerge
	if r.returningUser(ctx, owner) {
		// a known device merges silently even when local and server differ
		log.Info().Str("func", "*reconciler.Reconcile").Msg("returning user, merging without prompt")
	} else {
		choice = r.ask(ctx, log, localDoc.Summarize(), serverDoc.Summarize())
	}

	if choice == ChoiceCleanSlate {
		if err = r.remote.Reset(ctx); err != nil {
			return r.fail(log, "reset server document", err)
		}
		if err = r.purge(ctx, owner); err != nil {
			return r.fail(log, "purge local months", err)
		}
		return r.finish(ctx, log, OutcomeCleanSlate, models.MigrationDone)
	}

	var (
		final   models.WeightDocument
		outcome Outcome
	)
	switch choice {
	case ChoiceLocal:
		final, outcome = localDoc, OutcomeLocalKept
	case ChoiceServer:
		final, outcome = serverDoc, OutcomeServerKept
	default:
		final, outcome = models.MergeDocuments(serverDoc, localDoc), OutcomeMerged
	}

	overwrite := choice == ChoiceLocal || choice == ChoiceServer
	result, err := r.remote.Migrate(ctx, final, overwrite)
	if err != nil {
		return r.fail(log, "migrate", err)
	}

	if err = r.persist(ctx, owner, result); err != nil {
		return r.fail(log, "persist migrated document", err)
	}

	return r.finish(ctx, log, outcome, models.MigrationDone)
}

func (r *reconciler) flag(ctx context.Context) (models.MigrationFlag, error) {
	v, ok, err := r.session.Get(ctx, models.SessionKeyMigrated)
	if err != nil || !ok {
		return models.MigrationUnset, err
	}
	return models.MigrationFlag(v), nil
}

// adoptGuest copies every guest month into owner's namespace. Guest days win
// over days already cached for owner. Guest keys are kept.
func (r *reconciler) adoptGuest(ctx context.Context, owner string) error {
	guest, err := r.local.ListMonths(ctx, models.GuestOwner)
	if err != nil {
		return err
	}

	for key, month := range guest.StripEmpty() {
		ref, err := models.ParseMonthKey(key)
		if err != nil {
			continue
		}

		merged := r.local.Read(ctx, owner, ref)
		for day, v := range month {
			merged[day] = v
		}
		if err = r.local.Write(ctx, owner, ref, merged); err != nil {
			return fmt.Errorf("error copying %s: %w", key, err)
		}
	}
	return nil
}

func (r *reconciler) returningUser(ctx context.Context, owner string) bool {
	last, ok, err := r.session.Get(ctx, models.SessionKeyLastUserID)
	if err != nil {
		r.logger.Err(err).Str("func", "*reconciler.returningUser").Msg("failed to read last user id")
		return false
	}
	return ok && last == owner
}

func (r *reconciler) ask(ctx context.Context, log *logger.Logger, local, server models.Summary) Choice {
	if r.resolver == nil {
		return ChoiceMerge
	}

	choice, err := r.resolver.Resolve(ctx, local, server)
	if err != nil {
		log.Err(err).Str("func", "*reconciler.ask").Msg("conflict prompt failed, merging")
		return ChoiceMerge
	}
	if !choice.Valid() {
		log.Warn().Str("func", "*reconciler.ask").Int("choice", int(choice)).Msg("invalid choice, merging")
		return ChoiceMerge
	}
	return choice
}

// persist replaces owner's cached months with doc. An empty doc purges both
// owner's and the guest namespace instead of writing empty months.
func (r *reconciler) persist(ctx context.Context, owner string, doc models.WeightDocument) error {
	doc = doc.StripEmpty()
	if len(doc) == 0 {
		return r.purge(ctx, owner)
	}

	if err := r.local.Clear(ctx, owner); err != nil {
		return err
	}

	var errs []error
	for key, month := range doc {
		ref, err := models.ParseMonthKey(key)
		if err != nil {
			r.logger.Warn().Str("func", "*reconciler.persist").Str("month", key).Msg("skipping server month with invalid key")
			continue
		}
		if err = r.local.Write(ctx, owner, ref, month); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (r *reconciler) purge(ctx context.Context, owner string) error {
	if err := r.local.Clear(ctx, owner); err != nil {
		return err
	}
	return r.local.Clear(ctx, models.GuestOwner)
}

func (r *reconciler) finish(ctx context.Context, log *logger.Logger, outcome Outcome, flag models.MigrationFlag) (Outcome, error) {
	if err := r.session.Set(ctx, models.SessionKeyMigrated, string(flag)); err != nil {
		return r.fail(log, "store migration flag", err)
	}

	log.Info().Str("func", "*reconciler.Reconcile").Stringer("outcome", outcome).Msg("reconciliation finished")
	return outcome, nil
}

func (r *reconciler) fail(log *logger.Logger, step string, err error) (Outcome, error) {
	log.Err(err).Str("func", "*reconciler.Reconcile").Str("step", step).Msg("reconciliation failed")
	return OutcomeFailed, fmt.Errorf("%w: %s: %w", ErrReconciliationFailed, step, err)
}
