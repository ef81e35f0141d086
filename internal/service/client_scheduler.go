package service

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer.
	Stop() bool
}

// Scheduler runs callbacks after a delay and tells the time. The client
// services never touch the wall clock directly, so tests can drive them with
// a manual implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type realScheduler struct{}

// NewRealScheduler returns a [Scheduler] backed by [time.AfterFunc].
func NewRealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realScheduler) Now() time.Time {
	return time.Now()
}
