package models

// MigrateRequest is the body of POST /weights/migrate.
type MigrateRequest struct {
	// Data is the (possibly partial) document to fold into the stored one.
	Data WeightDocument `json:"data" validate:"required"`
	// Overwrite replaces whole months instead of merging day by day.
	Overwrite bool `json:"overwrite"`
}

// MigrateResponse carries the full stored document after a migration so the
// client can resync its cache.
type MigrateResponse struct {
	Message    string         `json:"message,omitempty"`
	WeightData WeightDocument `json:"weightData"`
}

// ResetResponse is returned by POST /weights/reset.
type ResetResponse struct {
	Message string         `json:"message,omitempty"`
	Data    WeightDocument `json:"data"`
}

// SaveMonthResponse acknowledges POST /weights/{year}/{month}.
type SaveMonthResponse struct {
	Message string   `json:"message"`
	DataKey string   `json:"dataKey"`
	Data    MonthMap `json:"data"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// PasswordResetRequest is the body of POST /auth/request-password-reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewPasswordRequest is the body of POST /auth/reset-password/{token}.
type NewPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// PingResponse is returned by GET /ping.
type PingResponse struct {
	Status string `json:"status"`
}

// VersionResponse is returned by GET /version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// UserResponse wraps the user returned by GET /auth/me.
type UserResponse struct {
	User User `json:"user"`
}
