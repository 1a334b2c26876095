package models

import "time"

// SessionResponse is the payload returned after a successful login or
// refresh. It exposes the session snapshot consumed by other subsystems:
// permission checks must treat wildcard membership as "all permissions"
// before falling back to exact-code lookup.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ResetAcceptedResponse is the fixed, identifier-independent body returned by
// the password-reset request endpoint. It must be byte-identical whether or
// not the submitted identifier matched an account.
type ResetAcceptedResponse struct {
	Message string `json:"message"`
}

// ResetAcceptedMessage is the only message ever placed in a
// ResetAcceptedResponse.
const ResetAcceptedMessage = "If the account exists, a reset link has been sent."

// ErrorResponse is the generic JSON error body of the HTTP API.
// Violations is populated only for password-policy failures.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}
