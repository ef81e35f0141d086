package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates a missing database DSN or an
	// unsupported in-memory cache path.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates missing or reused signing keys or
	// non-positive token lifetimes.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or a
	// non-positive rate limit.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates a non-positive cleanup interval or
	// cache TTL.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidClientConfigs indicates invalid autosave or session timings.
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
)
