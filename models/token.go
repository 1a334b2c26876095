package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT claim set carried by a session token.
//
// Besides the registered claims it embeds the principal snapshot (username,
// role names, permission codes) and the original issuance time. The original
// issuance time survives every refresh so that the fixed session ceiling is
// always computed from the first issuance, never from the latest refresh.
type SessionClaims struct {
	Username         string           `json:"username"`
	Roles            []string         `json:"roles"`
	Permissions      []string         `json:"permissions"`
	OriginalIssuedAt *jwt.NumericDate `json:"orig_iat"`

	jwt.RegisteredClaims
}

// Session is an issued session token together with its decoded snapshot.
// A Session is immutable: refresh produces a new Session rather than
// mutating an existing one.
type Session struct {
	// SignedString is the serialized, signed JWT handed to the caller.
	SignedString string `json:"-"`

	UserID      int64         `json:"user_id"`
	Username    string        `json:"username"`
	Roles       []string      `json:"roles"`
	Permissions PermissionSet `json:"permissions"`

	// IssuedAt is when this snapshot was produced (login or refresh).
	IssuedAt time.Time `json:"issued_at"`

	// OriginalIssuedAt is when the session was first opened. The expiry
	// ceiling is always OriginalIssuedAt plus the configured session TTL.
	OriginalIssuedAt time.Time `json:"-"`

	// ExpiresAt is the fixed maximum lifetime of the session. It does not
	// slide on refresh.
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal reconstructs the principal snapshot carried by the session.
func (s Session) Principal() Principal {
	return Principal{
		UserID:      s.UserID,
		Username:    s.Username,
		Roles:       s.Roles,
		Permissions: s.Permissions,
	}
}
