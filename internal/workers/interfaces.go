// Package workers runs the server's background jobs.
//
// A [Worker] blocks in Run until its context is cancelled. [Workers] starts
// a set of them together and waits for all to return, which the server does
// on shutdown.
package workers

import "context"

// Worker is a background job bound to the lifetime of ctx.
//
// Example implementation:
//
//	type heartbeat struct{}
//
//	func (heartbeat) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}

// Task is one unit of periodic work. The returned count is logged.
type Task func(ctx context.Context) (int64, error)
