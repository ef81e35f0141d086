// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// weight-tracker server and client. It is populated by merging values from
// environment variables, command-line flags, an optional JSON file and
// finally built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token signing material, token lifetimes and links.
	App App `envPrefix:"APP_"`

	// Storage holds the server database and the client cache locations.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network, timeout and rate-limit settings of the REST API.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Weather configures the forecast proxy.
	Weather Weather `envPrefix:"WEATHER_"`

	// Mail configures outgoing verification and reset e-mails.
	Mail Mail `envPrefix:"MAIL_"`

	// Workers holds background job settings of the server.
	Workers Workers `envPrefix:"WORKERS_"`

	// Client holds autosave and session timings of the client.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds security and lifecycle settings of issued tokens.
type App struct {
	// AccessTokenSignKey signs access tokens.
	// Env: APP_ACCESS_TOKEN_SIGN_KEY
	AccessTokenSignKey string `env:"ACCESS_TOKEN_SIGN_KEY"`

	// RefreshTokenSignKey signs refresh tokens. Must differ from the access key.
	// Env: APP_REFRESH_TOKEN_SIGN_KEY
	RefreshTokenSignKey string `env:"REFRESH_TOKEN_SIGN_KEY"`

	// VerifyTokenSignKey signs e-mail verification tokens.
	// Env: APP_VERIFY_TOKEN_SIGN_KEY
	VerifyTokenSignKey string `env:"VERIFY_TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenDuration defaults to 1h.
	// Env: APP_ACCESS_TOKEN_DURATION
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION"`

	// RefreshTokenDuration defaults to 7 days.
	// Env: APP_REFRESH_TOKEN_DURATION
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION"`

	// VerifyTokenDuration defaults to 24h.
	// Env: APP_VERIFY_TOKEN_DURATION
	VerifyTokenDuration time.Duration `env:"VERIFY_TOKEN_DURATION"`

	// ResetTokenDuration is the validity of password reset links, default 10m.
	// Env: APP_RESET_TOKEN_DURATION
	ResetTokenDuration time.Duration `env:"RESET_TOKEN_DURATION"`

	// ClientURL is the base of links put into e-mails.
	// Env: APP_CLIENT_URL
	ClientURL string `env:"CLIENT_URL"`
}

// Storage groups the persistence backends.
type Storage struct {
	// DB holds the server's PostgreSQL settings.
	DB DB `envPrefix:"DB_"`

	// Local holds the client's SQLite cache settings.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Local holds the client cache location.
type Local struct {
	// DSN is the path of the SQLite file.
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RateLimit configures per-IP request limiters.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
}

// RateLimit holds per-IP request budgets. Each budget is a count per window.
type RateLimit struct {
	// GlobalPerMinute applies to every route. Default 100.
	// Env: SERVER_RATE_LIMIT_GLOBAL_PER_MINUTE
	GlobalPerMinute int `env:"GLOBAL_PER_MINUTE"`

	// Verification applies to send-verification. Default 3 per 10 minutes.
	// Env: SERVER_RATE_LIMIT_VERIFICATION
	Verification int `env:"VERIFICATION"`

	// PasswordReset applies to request-password-reset. Default 5 per 10 minutes.
	// Env: SERVER_RATE_LIMIT_PASSWORD_RESET
	PasswordReset int `env:"PASSWORD_RESET"`

	// SensitiveWindow is the window of the verification and reset budgets.
	// Env: SERVER_RATE_LIMIT_SENSITIVE_WINDOW
	SensitiveWindow time.Duration `env:"SENSITIVE_WINDOW"`
}

// Adapter holds the client's outbound settings.
type Adapter struct {
	// HTTPAddress is the base address of the weight-tracker server.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Weather configures the forecast proxy.
type Weather struct {
	// BaseURL is the Open-Meteo compatible forecast endpoint.
	// Env: WEATHER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// CacheTTL is how long a cached forecast is served. Default 6h.
	// Env: WEATHER_CACHE_TTL
	CacheTTL time.Duration `env:"CACHE_TTL"`
}

// Mail configures the transactional e-mail API. An empty APIKey selects the
// log-only mailer.
type Mail struct {
	// APIURL is the send endpoint.
	// Env: MAIL_API_URL
	APIURL string `env:"API_URL"`
	// APIKey authenticates against the mail API.
	// Env: MAIL_API_KEY
	APIKey string `env:"API_KEY"`
	// From is the sender address.
	// Env: MAIL_FROM
	From string `env:"FROM"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// CleanupInterval is how often expired cache rows and reset tokens are
	// purged. Default 30m.
	// Env: WORKERS_CLEANUP_INTERVAL
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// Client holds timings of the offline-first client.
type Client struct {
	// AutosaveDebounce coalesces edits before a save. Default 800ms.
	// Env: CLIENT_AUTOSAVE_DEBOUNCE
	AutosaveDebounce time.Duration `env:"AUTOSAVE_DEBOUNCE"`

	// SavedDisplay is how long the "saved" status stays visible. Default 1.5s.
	// Env: CLIENT_SAVED_DISPLAY
	SavedDisplay time.Duration `env:"SAVED_DISPLAY"`

	// RefreshLead is how long before access-token expiry the refresh runs.
	// Default 30s.
	// Env: CLIENT_REFRESH_LEAD
	RefreshLead time.Duration `env:"REFRESH_LEAD"`

	// FlushConcurrency bounds parallel month uploads on logout. Default 4.
	// Env: CLIENT_FLUSH_CONCURRENCY
	FlushConcurrency int `env:"FLUSH_CONCURRENCY"`

	// FreeEdit allows editing any day instead of today only.
	// Env: CLIENT_FREE_EDIT
	FreeEdit bool `env:"FREE_EDIT"`
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order (first source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := loadStructuredConfig()
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func loadStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
