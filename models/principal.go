package models

// Principal is the resolved identity produced by a successful authentication:
// user identity plus the flattened permission set and role names. It is
// ephemeral and derived; it is never persisted independently and is recomputed
// fresh at login and at every session refresh.
type Principal struct {
	UserID      int64         `json:"user_id"`
	Username    string        `json:"username"`
	Roles       []string      `json:"roles"`
	Permissions PermissionSet `json:"permissions"`
}

// HasPermission reports whether the principal holds the given permission
// code, honouring the wildcard before exact membership.
func (p Principal) HasPermission(code string) bool {
	return p.Permissions.Has(code)
}
