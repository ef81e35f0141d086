package adapter

import "errors"

var (
	// ErrNoAuthToken is returned locally, before any request is sent, when an
	// authenticated call is attempted without a bearer token.
	ErrNoAuthToken = errors.New("No auth token found") //nolint:staticcheck,revive

	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrTooManyRequests = errors.New("too many requests")
	ErrServerError     = errors.New("server error")
)
