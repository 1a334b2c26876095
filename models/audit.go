package models

import "time"

// Audit action codes recorded by the security core.
const (
	AuditActionLoginSuccess         = "LOGIN_SUCCESS"
	AuditActionLoginFailure         = "LOGIN_FAILURE"
	AuditActionLoginBlockedExpired  = "LOGIN_BLOCKED_EXPIRED_PASSWORD"
	AuditActionAccountLocked        = "ACCOUNT_LOCKED"
	AuditActionLogout               = "LOGOUT"
	AuditActionSessionRefreshed     = "SESSION_REFRESHED"
	AuditActionPasswordResetRequest = "PASSWORD_RESET_REQUESTED"
	AuditActionPasswordReset        = "PASSWORD_RESET"
)

// Audit outcome values.
const (
	AuditOutcomeSuccess = "SUCCESS"
	AuditOutcomeFailure = "FAILURE"
	AuditOutcomeBlocked = "BLOCKED"
)

// AuditEntry is an immutable security-event record. Entries are appended by
// every state transition in the authentication core and are never updated or
// deleted by it.
type AuditEntry struct {
	// EntryID is a server-generated UUID.
	EntryID string `json:"entry_id"`

	// CreatedAt is when the event occurred.
	CreatedAt time.Time `json:"created_at"`

	// Actor identifies who triggered the event. For failed logins of unknown
	// identifiers this is the submitted identifier, not a user ID.
	Actor string `json:"actor"`

	// Action is one of the AuditAction* codes.
	Action string `json:"action"`

	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`

	// Outcome is one of the AuditOutcome* values.
	Outcome string `json:"outcome"`
}

// TableName returns the name of the database table
// associated with the AuditEntry model.
func (e AuditEntry) TableName() string {
	return "audit_entries"
}
