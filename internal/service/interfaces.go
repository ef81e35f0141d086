// Package service holds the business logic of both binaries.
//
// Server side: [AuthService] (accounts and tokens), [WeightService] (one
// weight document per user), [WeatherService] (caching forecast proxy) and
// [Mailer]. Client side: the offline-first sync core declared in
// client_interfaces.go.
package service

import (
	"context"

	"github.com/ggowrisankar/weight-tracker/models"
)

// AuthService manages accounts and the JWTs issued for them.
type AuthService interface {
	// Signup creates an account with a bcrypt password hash.
	Signup(ctx context.Context, creds models.Credentials) (models.User, error)

	// Login checks the credentials and issues an access and a refresh token.
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)

	// ParseAccessToken validates a bearer token.
	ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error)

	Me(ctx context.Context, userID int64) (models.User, error)

	// SendVerification mails a verification link. It returns
	// [ErrAlreadyVerified] when there is nothing to verify.
	SendVerification(ctx context.Context, userID int64) error

	// Verify marks the owner of a verification token as verified.
	Verify(ctx context.Context, token string) error

	// RequestPasswordReset mails a one-time reset link. Unknown e-mails are
	// not reported.
	RequestPasswordReset(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, token string, req models.NewPasswordRequest) error

	// PurgeExpiredResetTokens clears reset tokens past their expiry.
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// WeightService reads and mutates the weight document of a user.
type WeightService interface {
	GetAll(ctx context.Context, userID int64) (models.WeightDocument, error)
	GetMonth(ctx context.Context, userID int64, ref models.MonthRef) (models.MonthMap, error)

	// SaveMonth replaces one month, creating the document when needed.
	SaveMonth(ctx context.Context, userID int64, ref models.MonthRef, month models.MonthMap) (models.MonthMap, error)

	// SaveAll replaces the whole document.
	SaveAll(ctx context.Context, userID int64, doc models.WeightDocument) (models.WeightDocument, error)

	// Migrate folds req.Data into the stored document and returns the result.
	Migrate(ctx context.Context, userID int64, req models.MigrateRequest) (models.WeightDocument, error)

	// Reset empties the document.
	Reset(ctx context.Context, userID int64) (models.WeightDocument, error)
}

// WeatherService proxies forecasts through a read-through cache.
type WeatherService interface {
	Forecast(ctx context.Context, lat, lon float64) ([]byte, error)

	// PurgeExpired drops cache rows older than the cache TTL.
	PurgeExpired(ctx context.Context) (int64, error)
}

// Mailer delivers transactional e-mail.
type Mailer interface {
	Send(ctx context.Context, mail models.Mail) error
}

// WeightServiceWrapper decorates a WeightService, e.g. with validation.
type WeightServiceWrapper interface {
	Wrap(WeightService) WeightService
}

// AppInfoService exposes build metadata of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.VersionResponse
}
