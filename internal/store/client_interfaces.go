package store

import (
	"context"

	"github.com/ggowrisankar/weight-tracker/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalWeightStore is the client's persistent month cache, namespaced by
// owner ("guest" or a user id).
//
// Read never fails: a missing or corrupt entry reads as an empty MonthMap and
// the corruption is logged.
type LocalWeightStore interface {
	Read(ctx context.Context, owner string, ref models.MonthRef) models.MonthMap
	// Write replaces the whole month.
	Write(ctx context.Context, owner string, ref models.MonthRef, month models.MonthMap) error
	ListKeys(ctx context.Context, owner string) ([]string, error)
	// ListMonths returns every cached month of owner keyed by "YYYY-MM".
	ListMonths(ctx context.Context, owner string) (models.WeightDocument, error)
	// Clear removes every month and pending marker of owner.
	Clear(ctx context.Context, owner string) error
	// ClearAll removes every month and pending marker of every owner.
	ClearAll(ctx context.Context) error

	// SetPending marks or unmarks a month as holding commits the server has
	// not acknowledged yet.
	SetPending(ctx context.Context, owner string, ref models.MonthRef, pending bool) error
	IsPending(ctx context.Context, owner string, ref models.MonthRef) bool
}

// SessionStore persists the session singletons (tokens, user, migration flag,
// last logged-in user id).
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
