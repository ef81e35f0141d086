package store

import (
	"context"
	"time"

	"github.com/ggowrisankar/weight-tracker/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts in the "users" table.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	MarkVerified(ctx context.Context, userID int64) error
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	FindUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// DocumentMutation receives the current document of a user (empty when none
// exists yet) and returns the document to store.
type DocumentMutation func(current models.WeightDocument, exists bool) (models.WeightDocument, error)

// WeightRepository persists one weight document per user in the "weights"
// table.
type WeightRepository interface {
	// GetDocument returns the stored document, or an empty one and
	// exists=false when the user never saved anything.
	GetDocument(ctx context.Context, userID int64) (doc models.WeightDocument, exists bool, err error)

	// UpdateDocument applies mutate under a row lock and stores the result.
	UpdateDocument(ctx context.Context, userID int64, mutate DocumentMutation) (models.WeightDocument, error)
}

// WeatherCacheRepository stores upstream forecast bodies by cache key.
type WeatherCacheRepository interface {
	// Get returns the body stored under key if it is younger than maxAge.
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
