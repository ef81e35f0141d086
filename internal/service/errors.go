package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrWrongTokenType          = errors.New("wrong token type")
	ErrInvalidRefreshToken     = errors.New("invalid or expired refresh token")

	ErrAlreadyVerified       = errors.New("user already verified")
	ErrNotVerified           = errors.New("user is not verified")
	ErrResetAlreadyRequested = errors.New("password reset already requested")
	ErrInvalidResetToken     = errors.New("invalid or expired reset token")

	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidWeightData = errors.New("invalid weight data")

	ErrValidationNoUserID                    = errors.New("no user id in context")
	ErrUnauthorizedAccessToDifferentUserData = errors.New("access to data of a different user")

	ErrInvalidLocation    = errors.New("invalid location")
	ErrWeatherUnavailable = errors.New("weather upstream unavailable")

	ErrMailNotSent = errors.New("failed to send email")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrRateLimited       = errors.New("too many requests")
	ErrServerUnavailable = errors.New("server unavailable")
)
