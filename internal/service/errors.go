package service

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password. The two cases are deliberately indistinguishable so that a
	// caller cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned for a deactivated account, on login and
	// on refresh alike.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrAccountLocked is returned while an unexpired lockout is in effect.
	ErrAccountLocked = errors.New("account is locked")

	// ErrPasswordExpired is returned when the credential verified but the
	// password is past its validity window or flagged for forced change.
	ErrPasswordExpired = errors.New("password has expired")

	// ErrInvalidOrExpiredToken covers malformed, expired, never-issued and
	// already-consumed tokens alike.
	ErrInvalidOrExpiredToken = errors.New("token is invalid or expired")

	// ErrPolicyViolation is the sentinel matched by errors.Is against a
	// [PolicyViolationError].
	ErrPolicyViolation = errors.New("password violates policy")

	// ErrUnauthorized is returned when the resolved permission set lacks the
	// required code.
	ErrUnauthorized = errors.New("permission denied")
)

// PolicyViolationError reports a password rejected by the policy, carrying
// the full violated-rule list for the caller to surface.
type PolicyViolationError struct {
	Violations []string
}

func (e *PolicyViolationError) Error() string {
	return "password violates policy: " + strings.Join(e.Violations, "; ")
}

// Unwrap lets errors.Is match against [ErrPolicyViolation].
func (e *PolicyViolationError) Unwrap() error {
	return ErrPolicyViolation
}
