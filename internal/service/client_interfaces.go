package service

import (
	"context"
	"time"

	"github.com/ggowrisankar/weight-tracker/models"
)

// Autosaver uploads edited months to the server after a quiet period.
//
// Only one debounce timer exists at a time: every Schedule call replaces it,
// so rapid edits coalesce into a single save per month.
type Autosaver interface {
	// Schedule queues snapshot as the latest state of (owner, ref) and
	// (re)starts the debounce timer. dirty marks a real user edit as opposed
	// to a resync triggered by loading a month.
	Schedule(owner string, ref models.MonthRef, snapshot models.MonthMap, dirty bool)

	// Flush cancels the debounce timer and saves everything queued
	// immediately, waiting for completion.
	Flush(ctx context.Context) error

	// Cancel drops queued snapshots and stops all timers.
	Cancel()

	Status() SaveStatus

	// Subscribe registers fn to be called on every status change. fn runs on
	// the goroutine causing the change and must not block.
	Subscribe(fn func(SaveStatus))
}

// OwnerSource tells the editor whose namespace it is working in.
type OwnerSource interface {
	// Owner returns the user id of the signed-in user, or [models.GuestOwner].
	Owner() string
	Authenticated() bool
}

// WeightEditor is the draft and validation layer over one displayed month.
type WeightEditor interface {
	// Load flushes pending saves of the previous month, resets drafts and
	// errors, and loads ref from the local cache, refreshing it from the
	// server when signed in.
	Load(ctx context.Context, ref models.MonthRef) error

	// Month returns the displayed month.
	Month() models.MonthRef

	// SetDraft records raw as the text shown for day. It never touches the
	// committed weights.
	SetDraft(day, raw string)

	// Commit validates raw and, if it is empty or a weight within range,
	// applies it to the month and persists it locally. A rejected value is
	// reported in CommitResult.Error and leaves the month unchanged. The
	// returned error is reserved for storage failures, bad days and a ref
	// that is no longer the displayed month ([ErrMonthChanged]).
	Commit(ctx context.Context, ref models.MonthRef, day, raw string) (CommitResult, error)

	Weights() models.MonthMap
	Drafts() map[string]string
	Errors() map[string]string

	// Calendar lays out the displayed month with its averages.
	Calendar(now time.Time) Calendar
}

// ConflictResolver asks the user how to reconcile differing local and server
// data.
type ConflictResolver interface {
	Resolve(ctx context.Context, local, server models.Summary) (Choice, error)
}

// Reconciler merges the local caches and the server document once per
// signed-in session.
type Reconciler interface {
	Reconcile(ctx context.Context, owner string) (Outcome, error)
}

// Session owns the authentication lifecycle of the client.
type Session interface {
	OwnerSource

	// Start restores a stored session, renewing the access token first when
	// a refresh token exists.
	Start(ctx context.Context) error

	// Login signs in, reconciles local and server data and only then exposes
	// the user.
	Login(ctx context.Context, creds models.Credentials) error

	// Signup creates the account and signs in with it.
	Signup(ctx context.Context, creds models.Credentials) error

	// Logout hands the user's months over to the guest namespace and forgets
	// every credential. Upload failures are logged and do not block it.
	Logout(ctx context.Context) error

	State() models.SessionState
	User() (models.User, bool)

	// Subscribe registers fn to be called on every state change.
	Subscribe(fn func(models.SessionState))

	// Close stops the refresh timer.
	Close()
}
