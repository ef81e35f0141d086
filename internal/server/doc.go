// Package server runs the HTTP API and the background workers of the
// weight-tracker server, and shuts both down gracefully when the run context
// is cancelled (SIGINT, SIGTERM or SIGQUIT in production).
package server
