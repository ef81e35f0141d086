// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ggowrisankar/weight-tracker/internal/adapter"
	"github.com/ggowrisankar/weight-tracker/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. The original error stays in the chain.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgUserAlreadyExists, app.MsgUserAlreadyExists + ".":
			return fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
		case app.MsgInvalidCredentials:
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)

	case errors.Is(err, adapter.ErrConflict):
		return fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)

	case errors.Is(err, adapter.ErrUnauthorized):
		if msg == app.MsgInvalidCredentials {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)

	case errors.Is(err, adapter.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)

	case errors.Is(err, adapter.ErrServerError):
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}

// UserMessage returns the short text the client shows for err. Raw server
// messages are never shown.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrUserAlreadyExists):
		return "An account with this email already exists"
	case errors.Is(err, ErrInvalidDataProvided):
		return "Please check the entered data"
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts, try again later"
	case errors.Is(err, ErrTokenIsExpiredOrInvalid), errors.Is(err, adapter.ErrNoAuthToken):
		return "Your session has expired, please log in again"
	case errors.Is(err, ErrServerUnavailable):
		return "Server unavailable, changes are kept on this device"
	case errors.Is(err, ErrMonthChanged):
		return "The month changed before the value was saved, enter it again"
	case errors.Is(err, ErrAutosaveFailed):
		return app.MsgSaveFailed
	default:
		return "Something went wrong"
	}
}
