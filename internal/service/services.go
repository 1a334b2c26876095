package service

import (
	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
)

type Services struct {
	PasswordPolicy       PasswordPolicy
	LockoutTracker       LockoutTracker
	PermissionResolver   PermissionResolver
	AuditService         AuditService
	AuthService          AuthService
	SessionService       SessionService
	PasswordResetService PasswordResetService
}

func NewServices(repositories *store.Repositories, cfg config.StructuredConfig, notifier Notifier, logger *logger.Logger) *Services {
	passwordPolicy := NewPasswordPolicy(cfg.Policy, logger)
	lockoutTracker := NewLockoutTracker(repositories.UserRepository, cfg.Policy, logger)
	resolver := NewPermissionResolver(repositories.RoleRepository, logger)
	audit := NewAuditService(repositories.AuditRepository, logger)

	return &Services{
		PasswordPolicy:     passwordPolicy,
		LockoutTracker:     lockoutTracker,
		PermissionResolver: resolver,
		AuditService:       audit,
		AuthService: NewAuthService(
			repositories.UserRepository, passwordPolicy, lockoutTracker, resolver, audit, logger),
		SessionService: NewSessionService(
			repositories.UserRepository, resolver, audit, cfg.App, cfg.Policy, logger),
		PasswordResetService: NewPasswordResetService(
			repositories.UserRepository, repositories.ResetTokenRepository,
			passwordPolicy, lockoutTracker, audit, notifier, cfg.Policy, logger),
	}
}
