// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// weight-tracker server handlers, middleware and the terminal client.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or shown by the client. Keeping them in one place keeps
// the wording consistent; the client matches some of them (token expiry) by
// substring.
package app

// Server messages.
const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "Invalid data format"

	// MsgMissingData is returned when a weights request arrives without a
	// body or month path parameters.
	MsgMissingData = "Missing or Invalid data format"

	// MsgEmailPasswordRequired is returned when signup or login omits a field.
	MsgEmailPasswordRequired = "Email/Password is required"

	// MsgInvalidCredentials is returned when the email/password pair does not
	// match any account.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgUserAlreadyExists is returned on signup with a taken email.
	MsgUserAlreadyExists = "User already exists"

	// MsgUserCreated acknowledges a successful signup.
	MsgUserCreated = "User created successfully!"

	// MsgUserNotFound is returned when the token subject no longer exists.
	MsgUserNotFound = "User not found"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "Server error"

	// MsgMigrationFailed is returned when POST /weights/migrate fails.
	MsgMigrationFailed = "Server error during migration"

	MsgNoTokenProvided = "No token provided"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified or its expiry has passed.
	MsgTokenIsExpiredOrInvalid = "Invalid or expired token"

	// MsgInvalidTokenType is returned when a token of one type is presented
	// where another is expected (e.g. a refresh token as bearer).
	MsgInvalidTokenType = "Invalid token type"

	MsgMissingRefreshToken = "Missing refresh token"

	// MsgInvalidRefreshToken is returned by /auth/refresh. Clients detect it
	// by the "expired"/"invalid" substrings and sign out.
	MsgInvalidRefreshToken = "Invalid or expired refresh token"

	MsgDataSaved         = "Data saved"
	MsgMigrationSucceded = "Migrated data successfully"

	MsgVerificationSent    = "Verification email sent"
	MsgUserAlreadyVerified = "User already verified"
	MsgVerified            = "Verified!"

	// MsgPasswordResetRequested is always returned by the reset request
	// endpoint so that account existence cannot be probed.
	MsgPasswordResetRequested = "If an account exists, a reset link has been sent to your email."

	MsgPasswordResetPending = "Password reset already requested. Please check your email or try again later."
	MsgVerifyBeforeReset    = "Please verify your email before resetting password."
	MsgPasswordResetDone    = "Password reset successful. You can now log in."

	MsgTooManyRequests             = "Too many requests from this IP. Please try again in a minute."
	MsgTooManyVerificationRequests = "Too many verification requests attempted. Please try again later."
	MsgTooManyResetRequests        = "Too many password reset requests attempted. Please try again later."

	MsgNoLocationProvided = "No location provided"
	MsgWeatherFailed      = "Failed to fetch weather data"
)

// Client messages.
const (
	// MsgWeightOutOfRange is shown inline under a day whose draft was rejected.
	MsgWeightOutOfRange = "Only 30-300kgs"

	MsgSaving     = "Saving..."
	MsgSaved      = "Saved"
	MsgSaveFailed = "Save failed"
)
