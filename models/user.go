package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes, credential data and the lockout bookkeeping
// fields maintained by the authentication core.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique login identifier of the user.
	Username string `json:"username"`

	// Email is the unique email address of the user. A user may authenticate
	// with either Username or Email.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// The digest is self-describing (algorithm and cost are embedded),
	// so verification needs no separately stored parameters.
	PasswordHash string `json:"-"`

	// PasswordExpiresAt is the moment after which the current password may no
	// longer be used to open a session. Re-checked on every login.
	PasswordExpiresAt time.Time `json:"-"`

	// MustChangePassword forces a password change before the next session can
	// be opened. Cleared by a successful password reset.
	MustChangePassword bool `json:"-"`

	// Active indicates whether the account may authenticate at all.
	Active bool `json:"active"`

	// EmailVerified indicates whether the account's email address has been
	// confirmed. Informational for this core; the verification flow lives
	// outside the subsystem.
	EmailVerified bool `json:"email_verified"`

	// FailedLoginAttempts is the consecutive failed-verification counter.
	// Below the lockout threshold Locked is always false.
	FailedLoginAttempts int `json:"-"`

	// Locked marks the account as being in the LOCKED lockout state.
	Locked bool `json:"-"`

	// LockExpiresAt is the moment the lock lapses. Non-nil and in the future
	// at the moment a lock is set; nil while the account is ACTIVE.
	LockExpiresAt *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last mutation of the record.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// LockedNow reports whether the account is in the LOCKED state at the given
// instant. A lock whose expiry has elapsed is treated as already lifted
// (lazy expiry; no background sweep is required for correctness).
func (u User) LockedNow(now time.Time) bool {
	if !u.Locked {
		return false
	}
	if u.LockExpiresAt == nil {
		return true
	}
	return now.Before(*u.LockExpiresAt)
}

// LockoutState is the durable per-user lockout snapshot returned by the store
// after an atomic counter mutation.
type LockoutState struct {
	FailedAttempts int
	Locked         bool
	LockExpiresAt  *time.Time
}
