package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongTokenType is returned when a valid token of one kind is presented
// where another kind is expected (e.g. a refresh token as a bearer token).
var ErrWrongTokenType = errors.New("wrong token type")

// TokenParams describes a token to issue.
type TokenParams struct {
	Issuer   string
	User     models.User
	Type     string
	Duration time.Duration
	SignKey  string
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT.
//
// The token carries iss, sub (user id), iat, exp, a random jti, the user's
// e-mail and the token type. Issuer, type, duration and key are required.
func GenerateJWTToken(p TokenParams) (models.Token, error) {
	if p.Issuer == "" || p.Type == "" || p.Duration <= 0 || p.SignKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &models.Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   strconv.FormatInt(p.User.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Email: p.User.Email,
		Type:  p.Type,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.SignKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.UserID = p.User.UserID
	return *claims, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer, expiry and type of
// tokenString and returns its claims with UserID populated.
//
// Expiry failures wrap [jwt.ErrTokenExpired] and type mismatches wrap
// [ErrWrongTokenType], so callers can tell them apart with errors.Is.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer, tokenType string) (models.Token, error) {
	claims := &models.Token{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Type != tokenType {
		return models.Token{}, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.Type, tokenType)
	}

	userID, err := claims.GetUserID()
	if err != nil {
		return models.Token{}, err
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.UserID = userID
	return *claims, nil
}

// ParseBearerToken extracts the credentials from an "Authorization: Bearer x"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// ReadUnverifiedClaims decodes the user id and expiry of a token without
// checking its signature. The client uses it to schedule refreshes; it must
// never be used for authorization.
func ReadUnverifiedClaims(tokenString string) (int64, time.Time, error) {
	claims := &models.Token{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0, time.Time{}, err
	}

	userID, err := claims.GetUserID()
	if err != nil {
		return 0, time.Time{}, err
	}

	if claims.ExpiresAt == nil {
		return userID, time.Time{}, errors.New("token has no expiry")
	}
	return userID, claims.ExpiresAt.Time, nil
}
