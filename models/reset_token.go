package models

import "time"

// ResetToken is a single-use, time-boxed secret authorizing one password
// change without re-authentication.
//
// Only the SHA-256 digest of the secret is ever persisted; the plaintext is
// handed to the notification channel once and never stored, so a leaked
// reset_tokens table cannot be replayed.
type ResetToken struct {
	// TokenID is a server-assigned identifier used for audit correlation.
	TokenID string `json:"-"`

	// UserID is the single account the token is bound to.
	UserID int64 `json:"-"`

	// Digest is the hex-encoded SHA-256 of the secret.
	Digest string `json:"-"`

	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the ResetToken model.
func (t ResetToken) TableName() string {
	return "reset_tokens"
}
