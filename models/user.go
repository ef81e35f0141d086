package models

import (
	"strconv"
	"time"
)

// User represents an account of the weight tracker.
// Credential material never leaves the server: PasswordHash and the reset
// token fields are excluded from JSON.
type User struct {
	// UserID is the server-assigned identifier. The client uses its decimal
	// form as the local cache namespace.
	UserID int64 `json:"id"`

	// Email is the unique login of the user.
	Email string `json:"email"`

	// IsVerified is set once the user follows the e-mail verification link.
	IsVerified bool `json:"isVerified"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string `json:"-"`

	// ResetTokenHash is the hex SHA-256 of an outstanding password reset token.
	ResetTokenHash string `json:"-"`

	// ResetExpiresAt is the moment the outstanding reset token stops being valid.
	ResetExpiresAt *time.Time `json:"-"`
}

// OwnerID returns the local cache namespace for the user.
func (u User) OwnerID() string {
	return strconv.FormatInt(u.UserID, 10)
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the body of signup and login requests.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
