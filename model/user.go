package model

import "time"

// User is an account holder. PasswordHash and the refresh token digest are
// never serialized.
type User struct {
	ID                    int        `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	RefreshTokenHash      *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
}
