package service

import (
	"context"
	"time"

	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
)

// PolicyResult is the outcome of validating a candidate password.
type PolicyResult struct {
	// Valid is true only when every mandatory rule passed.
	Valid bool

	// Score counts satisfied complexity classes, 0 through 5.
	Score int

	// Violations lists the human-readable rules the candidate broke.
	Violations []string
}

// PasswordPolicy validates, hashes and verifies password strings. All
// methods are pure functions of their inputs plus the configured policy
// constants; implementations carry no mutable state.
type PasswordPolicy interface {
	// Validate checks the candidate against every mandatory rule.
	Validate(password string) PolicyResult

	// Hash produces a salted, self-describing digest of the password.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. Execution time does
	// not depend on how much of the password matches.
	Verify(password, digest string) bool

	// ExpiryDate returns the expiry for a password set at the given time.
	ExpiryDate(from time.Time) time.Time

	// HistoryCheck reports whether candidate matches any of the previous
	// digests, i.e. whether the password is being reused.
	HistoryCheck(candidate string, previousDigests []string) bool
}

// LockoutTracker maintains the per-user failed-attempt counter and timed
// lock state. All mutations go through atomic store operations.
type LockoutTracker interface {
	// RecordFailure durably increments the counter and returns the updated
	// state, including whether this failure tripped the lock.
	RecordFailure(ctx context.Context, userID int64) (models.LockoutState, error)

	// Reset clears the counter and any lock.
	Reset(ctx context.Context, userID int64) error

	// ClearExpired lifts every elapsed lock. Lazy expiry already keeps
	// behavior correct without it; this only tidies stored state.
	ClearExpired(ctx context.Context) (int64, error)
}

// PermissionResolver flattens a user's active role assignments into role
// names and a permission set. Resolution always reads current store state
// and is never cached across calls.
type PermissionResolver interface {
	Resolve(ctx context.Context, userID int64) (roles []string, permissions models.PermissionSet, err error)
}

// AuditService records security-relevant events. Record returns only after
// the entry is durably committed.
type AuditService interface {
	Record(ctx context.Context, actor, action, resourceType, resourceID, outcome string) error
	Find(ctx context.Context, filter store.AuditFilter) ([]models.AuditEntry, error)
}

// AuthService verifies submitted credentials and produces a principal.
type AuthService interface {
	// Authenticate resolves the user, applies the status and lockout checks,
	// verifies the password and returns the resolved principal. Every
	// outcome is audited before the call returns.
	Authenticate(ctx context.Context, identifier, password string) (models.Principal, error)
}

// SessionService issues, refreshes and validates session tokens.
type SessionService interface {
	// Issue opens a new session for the principal with the fixed lifetime
	// ceiling measured from now.
	Issue(ctx context.Context, principal models.Principal) (models.Session, error)

	// Parse validates a raw token and rebuilds its session snapshot.
	Parse(ctx context.Context, raw string) (models.Session, error)

	// Refresh validates the token, re-checks the account and re-resolves
	// permissions, returning a new snapshot with the original ceiling.
	Refresh(ctx context.Context, raw string) (models.Session, error)

	// SignOut audits an explicit logout. Tokens are stateless; the client
	// discards its copy.
	SignOut(ctx context.Context, raw string) error
}

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService interface {
	// RequestReset issues a reset token when the identifier matches an
	// account. The response is byte-identical whether or not it does.
	RequestReset(ctx context.Context, identifier string) (models.ResetAcceptedResponse, error)

	// ConfirmReset redeems a token and installs the new password.
	ConfirmReset(ctx context.Context, secret, newPassword string) error
}

// Notifier delivers out-of-band notifications such as reset links. Delivery
// is fire-and-forget from the core's perspective.
type Notifier interface {
	SendNotification(ctx context.Context, userID int64, kind string, payload map[string]string) error
}
