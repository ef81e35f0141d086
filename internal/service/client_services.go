package service

import (
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/models"
)

// ClientServices wires the offline-first client core.
type ClientServices struct {
	Autosaver  Autosaver
	Reconciler Reconciler
	Session    Session
	Editor     WeightEditor
}

// NewClientServices builds the client services around one adapter and one
// local store. resolver answers reconciliation conflicts (the TUI prompt); a
// nil resolver always merges.
func NewClientServices(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	resolver ConflictResolver,
	sched Scheduler,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) *ClientServices {
	autosave := NewAutosaver(serverAdapter, storages.Weights, sched, cfg.Autosave.Debounce, cfg.Autosave.SavedDisplay, logger)
	reconciler := NewReconciler(storages.Weights, storages.Session, serverAdapter, resolver, logger)
	session := NewSession(serverAdapter, storages.Weights, storages.Session, reconciler, autosave, sched, SessionOptions{
		RefreshLead:      cfg.Session.RefreshLead,
		FlushConcurrency: cfg.Session.FlushConcurrency,
	}, logger)

	now := sched.Now()
	editor := NewWeightEditor(storages.Weights, serverAdapter, autosave, session, storages.Session, CurrentMonth(now), logger)

	return &ClientServices{
		Autosaver:  autosave,
		Reconciler: reconciler,
		Session:    session,
		Editor:     editor,
	}
}

// CurrentMonth returns the month containing t.
func CurrentMonth(t time.Time) models.MonthRef {
	return models.MonthRef{Year: t.Year(), Month: int(t.Month())}
}
