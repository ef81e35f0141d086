// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the weight-tracker
// server.
//
// [ServerAdapter] bundles the three remote surfaces the client consumes: the
// weight document ([WeightAPI]), account management ([AuthAPI]) and the
// weather proxy ([WeatherAPI]). The only implementation speaks HTTP/REST
// through resty ([NewHTTPServerAdapter]).
//
// Non-2xx responses are mapped by mapHTTPError to the sentinels in errors.go
// so callers can use [errors.Is] (e.g. [ErrUnauthorized] for 401/403). The
// server's {"error": "..."} message text is kept in the wrapped error, which
// the session controller relies on to detect expired refresh tokens.
package adapter

import (
	"context"

	"github.com/ggowrisankar/weight-tracker/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// WeightAPI is the remote store of the signed-in user's weight document.
// Every method fails with [ErrNoAuthToken], without touching the network,
// when no bearer token is set.
type WeightAPI interface {
	// FetchAll returns the whole document, empty when none exists yet.
	FetchAll(ctx context.Context) (models.WeightDocument, error)

	// FetchMonth returns one month, empty when absent.
	FetchMonth(ctx context.Context, ref models.MonthRef) (models.MonthMap, error)

	// SaveMonth replaces the stored month with month.
	SaveMonth(ctx context.Context, ref models.MonthRef, month models.MonthMap) error

	// SaveAll replaces the whole document.
	SaveAll(ctx context.Context, doc models.WeightDocument) error

	// Migrate folds data into the stored document (replacing whole months when
	// overwrite is set) and returns the resulting full document.
	Migrate(ctx context.Context, data models.WeightDocument, overwrite bool) (models.WeightDocument, error)

	// Reset clears the stored document.
	Reset(ctx context.Context) error
}

// AuthAPI covers account management.
type AuthAPI interface {
	Signup(ctx context.Context, creds models.Credentials) error

	// Login returns the token pair and the user record.
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)

	Me(ctx context.Context) (models.User, error)
	SendVerification(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, req models.NewPasswordRequest) error
}

// WeatherAPI reads forecasts through the server's caching proxy.
type WeatherAPI interface {
	// Forecast returns the upstream forecast body unchanged.
	Forecast(ctx context.Context, lat, lon float64) ([]byte, error)
}

// ServerAdapter is the complete client transport. The bearer token it holds
// is attached to every authenticated request.
type ServerAdapter interface {
	WeightAPI
	AuthAPI
	WeatherAPI

	// SetToken stores the bearer token used by subsequent requests. An empty
	// token signs the adapter out.
	SetToken(token string)

	// Token returns the current bearer token or "".
	Token() string

	// Ping checks that the server is reachable.
	Ping(ctx context.Context) error
}
