package store

import (
	"context"
	"time"

	"github.com/avelkov/go-access-gate/models"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implementations inspect driver-level errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository is the persistence contract for user accounts and their
// authentication-relevant fields. The core reads whole records but mutates
// only the credential and lockout fields.
type UserRepository interface {
	// FindUserByIdentifier resolves a user by username or email.
	// Returns ErrNoUserWasFound when nothing matches.
	FindUserByIdentifier(ctx context.Context, identifier string) (models.User, error)

	// FindUserByID resolves a user by primary key.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// RecordFailedAttempt atomically increments the failed-login counter and,
	// when the new value reaches threshold, sets the lock flag with an expiry
	// of now plus lockFor. The increment and the conditional lock are one SQL
	// statement: concurrent failed attempts on the same account can never
	// lose an update, and the counter is durable before this call returns.
	RecordFailedAttempt(ctx context.Context, userID int64, threshold int, lockFor time.Duration) (models.LockoutState, error)

	// ClearLockout resets the counter to zero, clears the lock flag and the
	// lock expiry.
	ClearLockout(ctx context.Context, userID int64) error

	// ClearExpiredLocks lifts every lock whose expiry has elapsed.
	// Used by the background sweeper; lazy expiry makes this optional.
	ClearExpiredLocks(ctx context.Context) (int64, error)

	// UpdateUser applies a partial update of the given column/value pairs.
	UpdateUser(ctx context.Context, userID int64, fields map[string]any) error

	// UpdatePasswordHash installs a new password digest with its expiry and
	// clears the must-change-password flag.
	UpdatePasswordHash(ctx context.Context, userID int64, digest string, expiresAt time.Time) error

	// AppendPasswordHistory records a digest in the user's password history.
	AppendPasswordHistory(ctx context.Context, userID int64, digest string) error

	// RecentPasswordDigests returns up to limit most recent history digests,
	// newest first.
	RecentPasswordDigests(ctx context.Context, userID int64, limit int) ([]string, error)
}

// RoleRepository is the persistence contract for roles and role assignments.
type RoleRepository interface {
	// FindActiveRoleAssignments returns only assignments whose active flag is
	// set; historical (inactive) assignments are never returned.
	FindActiveRoleAssignments(ctx context.Context, userID int64) ([]models.RoleAssignment, error)

	// FindRoleByCode resolves a role and its full permission set.
	// Returns ErrRoleNotFound when the code matches nothing.
	FindRoleByCode(ctx context.Context, code string) (models.Role, error)
}

// ResetTokenRepository is the persistence contract for single-use
// password-reset tokens. Only digests of token secrets are stored.
type ResetTokenRepository interface {
	// CreateResetToken persists a new token bound to one user.
	CreateResetToken(ctx context.Context, token models.ResetToken) error

	// ConsumeResetToken atomically deletes and returns the unexpired token
	// with the given digest. Exactly one of two concurrent consumers of the
	// same token can succeed; the other receives ErrResetTokenNotFound, as
	// does any caller presenting an expired or never-issued digest.
	ConsumeResetToken(ctx context.Context, digest string) (models.ResetToken, error)

	// PurgeExpiredResetTokens removes tokens past their expiry.
	// Used by the background sweeper.
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// AuditFilter narrows an audit-trail query. Zero-valued fields are ignored.
type AuditFilter struct {
	Actor        string
	Action       string
	ResourceType string
	Since        time.Time
	Until        time.Time
	Limit        uint64
}

// AuditRepository is the persistence contract for the append-only audit
// trail. Entries are never updated or deleted through this interface.
type AuditRepository interface {
	// Append durably commits one audit entry.
	Append(ctx context.Context, entry models.AuditEntry) error

	// Find returns entries matching the filter, newest first.
	Find(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
}
