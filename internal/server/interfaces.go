package server

import "context"

// Server defines the lifecycle of the process-level server.
type Server interface {
	// RunServer serves requests until ctx is cancelled, then shuts down and
	// returns. It returns early with an error if the listener fails.
	RunServer(ctx context.Context) error
}
