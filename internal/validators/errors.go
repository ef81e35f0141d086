package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrInvalidField wraps a struct tag violation of a request DTO.
	ErrInvalidField = errors.New("invalid field")

	ErrInvalidMonthKey  = errors.New("invalid month key")
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrWeightOutOfRange = errors.New("weight out of range")
	ErrInvalidLocation  = errors.New("invalid location")
)
