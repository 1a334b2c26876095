package models

import (
	"encoding/json"
	"sort"
	"time"
)

// PermissionWildcard is the distinguished permission code meaning "every
// permission is granted". Callers must check for it before falling back to
// exact-code membership.
const PermissionWildcard = "*"

// Role is a named bundle of permission codes.
type Role struct {
	// RoleID is the internal unique identifier of the role.
	RoleID int64 `json:"-"`

	// Code is the stable machine-readable identifier of the role
	// (e.g. "qc_inspector", "admin").
	Code string `json:"code"`

	// Name is the human-readable role name.
	Name string `json:"name"`

	// Permissions is the set of permission codes granted by the role.
	// May contain PermissionWildcard.
	Permissions PermissionSet `json:"permissions"`
}

// TableName returns the name of the database table
// associated with the Role model.
func (r Role) TableName() string {
	return "roles"
}

// RoleAssignment links a user to a role. Assignments carry their own active
// flag: an inactive assignment is ignored during permission resolution even
// though it remains in the store for history.
type RoleAssignment struct {
	AssignmentID int64     `json:"-"`
	UserID       int64     `json:"-"`
	RoleCode     string    `json:"role_code"`
	Active       bool      `json:"active"`
	AssignedBy   string    `json:"assigned_by"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// TableName returns the name of the database table
// associated with the RoleAssignment model.
func (a RoleAssignment) TableName() string {
	return "role_assignments"
}

// PermissionSet is a set of permission codes with wildcard-aware membership.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a PermissionSet from the given codes.
func NewPermissionSet(codes ...string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Add inserts a permission code into the set.
func (s PermissionSet) Add(code string) {
	s[code] = struct{}{}
}

// HasWildcard reports whether the set contains the wildcard code.
func (s PermissionSet) HasWildcard() bool {
	_, ok := s[PermissionWildcard]
	return ok
}

// Has reports whether the set grants the given permission code.
// The wildcard is checked first: a set containing PermissionWildcard grants
// everything without enumerating individual codes.
func (s PermissionSet) Has(code string) bool {
	if s.HasWildcard() {
		return true
	}
	_, ok := s[code]
	return ok
}

// Codes returns the permission codes of the set in sorted order.
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MarshalJSON serializes the set as a sorted JSON array of codes.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Codes())
}

// UnmarshalJSON restores a set from a JSON array of codes.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*s = NewPermissionSet(codes...)
	return nil
}
