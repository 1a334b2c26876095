package store

import "github.com/avelkov/go-access-gate/internal/logger"

// Repositories bundles every persistence contract behind one value so the
// service layer takes a single dependency.
type Repositories struct {
	UserRepository       UserRepository
	RoleRepository       RoleRepository
	ResetTokenRepository ResetTokenRepository
	AuditRepository      AuditRepository
}

// NewRepositories wires all PostgreSQL-backed repositories over one shared
// connection pool.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db, logger),
		RoleRepository:       NewRoleRepository(db, logger),
		ResetTokenRepository: NewResetTokenRepository(db, logger),
		AuditRepository:      NewAuditRepository(db, logger),
	}
}
