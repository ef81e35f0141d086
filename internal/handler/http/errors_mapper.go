package http

import (
	"errors"
	"net/http"

	"github.com/ggowrisankar/weight-tracker/internal/app"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/internal/store"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
)

type errorResponse struct {
	status  int
	message string
}

// errorStatusMap lists the errors a client may see, with their status and the
// message written to the body. Anything else is a 500.
var errorStatusMap = map[error]errorResponse{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, app.MsgEmailPasswordRequired},
	service.ErrInvalidCredentials:  {http.StatusUnauthorized, app.MsgInvalidCredentials},
	service.ErrUserAlreadyExists:   {http.StatusConflict, app.MsgUserAlreadyExists},
	service.ErrUserNotFound:        {http.StatusNotFound, app.MsgUserNotFound},

	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrWrongTokenType:          {http.StatusBadRequest, app.MsgInvalidTokenType},
	service.ErrInvalidRefreshToken:     {http.StatusForbidden, app.MsgInvalidRefreshToken},

	service.ErrResetAlreadyRequested: {http.StatusTooManyRequests, app.MsgPasswordResetPending},
	service.ErrInvalidResetToken:     {http.StatusBadRequest, app.MsgTokenIsExpiredOrInvalid},

	service.ErrInvalidMonth:                          {http.StatusBadRequest, app.MsgMissingData},
	service.ErrInvalidWeightData:                     {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrValidationNoUserID:                    {http.StatusUnauthorized, app.MsgNoTokenProvided},
	service.ErrUnauthorizedAccessToDifferentUserData: {http.StatusForbidden, http.StatusText(http.StatusForbidden)},

	service.ErrInvalidLocation:    {http.StatusBadRequest, app.MsgNoLocationProvided},
	service.ErrWeatherUnavailable: {http.StatusBadGateway, app.MsgWeatherFailed},

	service.ErrMailNotSent: {http.StatusInternalServerError, app.MsgInternalServerError},

	store.ErrNoUserWasFound:     {http.StatusNotFound, app.MsgUserNotFound},
	store.ErrEmailAlreadyExists: {http.StatusConflict, app.MsgUserAlreadyExists},
}

// statusFromError returns the status and the client-facing message for err.
func statusFromError(err error) (int, string) {
	for target, resp := range errorStatusMap {
		if errors.Is(err, target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeServiceError logs err and writes its mapped {"error": ...} body.
// fallback replaces the generic message of unmapped (500) errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := statusFromError(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Int("status", status).Str("uri", r.URL.Path).Msg("request failed")

	utils.WriteError(w, message, status)
}
