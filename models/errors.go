package models

import "errors"

var (
	// ErrInvalidMonthKey is returned when a month key is not of the form
	// YYYY-MM with a month in 1..12.
	ErrInvalidMonthKey = errors.New("invalid month key")
)
