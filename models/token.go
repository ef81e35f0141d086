package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim. They keep an access token from being
// accepted where a refresh or verification token is expected.
const (
	TokenTypeAccess      = "access"
	TokenTypeRefresh     = "refresh"
	TokenTypeEmailVerify = "email_verify"
)

// Token wraps a JWT with the claims the weight tracker issues.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry, etc.).
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// Email is copied into access and refresh tokens so the server can answer
	// /auth/me and refresh without a database round trip.
	Email string `json:"email,omitempty"`

	// Type is one of the TokenType constants.
	Type string `json:"typ"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier parsed from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID extracts the user identifier from the token's "sub" claim.
func (t *Token) GetUserID() (int64, error) {
	userIDString, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// TokenPair is what a successful login yields.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}
