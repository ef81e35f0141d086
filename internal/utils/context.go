// Package utils provides general-purpose helpers used across the server and
// the client: typed context keys, token hashing, JSON response writing, the
// resty HTTP client and JWT issuing and validation.
package utils

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys, so keys cannot collide with
// string keys of other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key under which the auth middleware stores the
// authenticated user id (int64).
var UserIDCtxKey = contextKey("userID")

// EmailCtxKey is the key under which the auth middleware stores the e-mail
// claim of the access token.
var EmailCtxKey = contextKey("email")

// GetUserIDFromContext retrieves the user identifier from the context.
// ok is false when the value is missing or of the wrong type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetEmailFromContext retrieves the e-mail claim stored by the auth middleware.
func GetEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailCtxKey).(string)
	return email
}

// NewTraceID returns a time-ordered UUIDv7, falling back to a random v4.
func NewTraceID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
