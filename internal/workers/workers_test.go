// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Workers ----

type blockingWorker struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (b *blockingWorker) Run(ctx context.Context) {
	b.started.Add(1)
	<-ctx.Done()
	b.stopped.Add(1)
}

func TestWorkers_RunUntilCancelled(t *testing.T) {
	w1, w2 := &blockingWorker{}, &blockingWorker{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewWorkers(w1, w2).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(1), w1.stopped.Load())
	assert.Equal(t, int32(1), w2.stopped.Load())
}

func TestWorkers_Empty(t *testing.T) {
	NewWorkers().Run(context.Background())
	(&Workers{}).Run(context.Background())
}

// ---- PeriodicWorker ----

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

func newManualWorker(interval time.Duration) (*PeriodicWorker, *manualTicker) {
	mt := &manualTicker{ch: make(chan time.Time)}
	w := NewPeriodicWorker("test", interval, logger.Nop())
	w.newTicker = func(d time.Duration) ticker {
		if d != interval {
			panic("unexpected interval")
		}
		return mt
	}
	return w, mt
}

func TestPeriodicWorker_RunsTasksInOrderOnTick(t *testing.T) {
	w, mt := newManualWorker(time.Minute)

	var mu sync.Mutex
	var calls []string
	record := func(name string, err error) Task {
		return func(context.Context) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, name)
			return 1, err
		}
	}
	w.Add("a", record("a", nil)).Add("b", record("b", errors.New("boom"))).Add("c", record("c", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	mt.ch <- time.Now()
	mt.ch <- time.Now() // unbuffered: the first round has been picked up

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 6
	}, time.Second, time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, calls, "a failing task does not stop the rest")
	assert.True(t, mt.stopped.Load())
}

func TestPeriodicWorker_NoTickNoWork(t *testing.T) {
	w, _ := newManualWorker(time.Hour)
	var called atomic.Bool
	w.Add("x", func(context.Context) (int64, error) {
		called.Store(true)
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	assert.False(t, called.Load())
}

func TestPeriodicWorker_AddReplaces(t *testing.T) {
	w := NewPeriodicWorker("test", time.Minute, logger.Nop())
	w.Add("x", func(context.Context) (int64, error) { return 1, nil })
	w.Add("x", func(context.Context) (int64, error) { return 2, nil })

	assert.Equal(t, []string{"x"}, w.order)
	n, err := w.tasks["x"](context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// ---- cleanup ----

type countingWeather struct {
	service.WeatherService
	purged atomic.Int32
}

func (c *countingWeather) PurgeExpired(context.Context) (int64, error) {
	c.purged.Add(1)
	return 3, nil
}

type countingAuth struct {
	service.AuthService
	purged atomic.Int32
}

func (c *countingAuth) PurgeExpiredResetTokens(context.Context) (int64, error) {
	c.purged.Add(1)
	return 0, errors.New("db down")
}

type countingPruner struct{ calls atomic.Int32 }

func (c *countingPruner) PruneRateLimiters() int {
	c.calls.Add(1)
	return 2
}

func TestNewCleanupWorker(t *testing.T) {
	weather, auth, pruner := &countingWeather{}, &countingAuth{}, &countingPruner{}
	services := &service.Services{WeatherService: weather, AuthService: auth}

	w := NewCleanupWorker(services, pruner, 30*time.Minute, logger.Nop()).(*PeriodicWorker)
	assert.Equal(t, []string{"weather_cache", "reset_tokens", "rate_limiters"}, w.order)
	assert.Equal(t, 30*time.Minute, w.interval)

	w.runOnce(context.Background())

	assert.Equal(t, int32(1), weather.purged.Load())
	assert.Equal(t, int32(1), auth.purged.Load())
	assert.Equal(t, int32(1), pruner.calls.Load(), "runs after a failing task")
}

func TestNewCleanupWorker_WithoutPruner(t *testing.T) {
	services := &service.Services{WeatherService: &countingWeather{}, AuthService: &countingAuth{}}

	w := NewCleanupWorker(services, nil, time.Minute, logger.Nop()).(*PeriodicWorker)

	assert.Equal(t, []string{"weather_cache", "reset_tokens"}, w.order)
}
