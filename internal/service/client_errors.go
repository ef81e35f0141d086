package service

import "errors"

var (
	ErrAutosaveFailed       = errors.New("autosave failed")
	ErrReconciliationFailed = errors.New("reconciliation failed")
	ErrNoRefreshToken       = errors.New("no refresh token stored")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidDay           = errors.New("invalid day")
	ErrOwnerChanged         = errors.New("session changed since the month was loaded")
	ErrMonthChanged         = errors.New("displayed month changed before the value was saved")
)
