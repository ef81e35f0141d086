package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// with [service.AuthService.ParseAccessToken] and stores the user id and the
// e-mail claim in the request context under [utils.UserIDCtxKey] and
// [utils.EmailCtxKey].
//
// Requests are rejected with 401 when the header is missing or malformed
// ("No token provided") and when the token is expired, of the wrong type or
// otherwise invalid ("Invalid or expired token"). The client detects the
// latter by substring and signs out.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, app.MsgNoTokenProvided, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseAccessToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)
		ctx = context.WithValue(ctx, utils.EmailCtxKey, token.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the token of a "Bearer <token>" header
// value.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	tokenString, err := utils.ParseBearerToken(authHeader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err)
	}

	return tokenString, nil
}
