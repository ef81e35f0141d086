package workers

import (
	"context"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker and blocks until all of them have returned.
func (w *Workers) Run(ctx context.Context) {
	var g errgroup.Group
	for _, worker := range w.workers {
		g.Go(func() error {
			worker.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// ticker abstracts time.Ticker for tests.
type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// PeriodicWorker runs its tasks in order on every tick. A failing task is
// logged and does not stop the others.
type PeriodicWorker struct {
	name     string
	interval time.Duration
	tasks    map[string]Task
	order    []string

	newTicker func(time.Duration) ticker
	logger    *logger.Logger
}

func NewPeriodicWorker(name string, interval time.Duration, logger *logger.Logger) *PeriodicWorker {
	return &PeriodicWorker{
		name:     name,
		interval: interval,
		tasks:    make(map[string]Task),
		newTicker: func(d time.Duration) ticker {
			return timeTicker{time.NewTicker(d)}
		},
		logger: logger,
	}
}

// Add registers a task under name. It must be called before Run.
func (p *PeriodicWorker) Add(name string, task Task) *PeriodicWorker {
	if _, ok := p.tasks[name]; !ok {
		p.order = append(p.order, name)
	}
	p.tasks[name] = task
	return p
}

func (p *PeriodicWorker) Run(ctx context.Context) {
	t := p.newTicker(p.interval)
	defer t.Stop()

	p.logger.Info().Str("worker", p.name).Dur("interval", p.interval).Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Str("worker", p.name).Msg("worker stopped")
			return
		case <-t.C():
			p.runOnce(ctx)
		}
	}
}

func (p *PeriodicWorker) runOnce(ctx context.Context) {
	for _, name := range p.order {
		if ctx.Err() != nil {
			return
		}

		n, err := p.tasks[name](ctx)
		if err != nil {
			p.logger.Err(err).Str("worker", p.name).Str("task", name).Msg("task failed")
			continue
		}
		if n > 0 {
			p.logger.Info().Str("worker", p.name).Str("task", name).Int64("removed", n).Send()
		}
	}
}
