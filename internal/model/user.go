// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash holds the argon2id digest and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated (user id, username) pair derived from a
// verified token. It is the sole basis for ownership decisions.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}
