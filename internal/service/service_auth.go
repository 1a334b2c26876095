// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
)

// authService is the concrete implementation of [AuthService].
//
// Authenticate applies a fixed short-circuit order: lookup, active check,
// lockout check, password verification, expiry check, principal resolution.
// Each step maps to a distinct error, and every outcome that constitutes a
// security event is audited before the call returns.
type authService struct {
	userRepository store.UserRepository
	passwordPolicy PasswordPolicy
	lockoutTracker LockoutTracker
	resolver       PermissionResolver
	audit          AuditService
	logger         *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to its collaborators.
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	userRepository store.UserRepository,
	passwordPolicy PasswordPolicy,
	lockoutTracker LockoutTracker,
	resolver PermissionResolver,
	audit AuditService,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository: userRepository,
		passwordPolicy: passwordPolicy,
		lockoutTracker: lockoutTracker,
		resolver:       resolver,
		audit:          audit,
		logger:         logger,
	}
}

// Authenticate verifies the submitted credential and returns the resolved
// principal.
//
// Returned errors:
//   - [ErrInvalidCredentials] for an unknown identifier or a wrong password,
//     indistinguishably.
//   - [ErrAccountInactive] for a deactivated account.
//   - [ErrAccountLocked] while an unexpired lockout is in effect.
//   - [ErrPasswordExpired] when the credential verified but the password is
//     past its validity window or flagged for forced change. The lockout
//     counter is not reset and no session material is produced.
//   - [store.ErrStoreUnavailable] (wrapped) for transient store failures;
//     the whole attempt is safe to retry.
func (a *authService) Authenticate(ctx context.Context, identifier, password string) (models.Principal, error) {
	log := logger.FromContext(ctx)

	if identifier == "" || password == "" {
		return models.Principal{}, ErrInvalidCredentials
	}

	user, err := a.userRepository.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			if auditErr := a.audit.Record(ctx, identifier, models.AuditActionLoginFailure, "user", "", models.AuditOutcomeFailure); auditErr != nil {
				return models.Principal{}, auditErr
			}
			return models.Principal{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user lookup failed")
		return models.Principal{}, fmt.Errorf("user lookup failed: %w", err)
	}

	userID := strconv.FormatInt(user.UserID, 10)
	now := time.Now()

	if !user.Active {
		return models.Principal{}, ErrAccountInactive
	}

	if user.LockedNow(now) {
		log.Warn().Int64("user_id", user.UserID).Msg("login attempt on locked account")
		return models.Principal{}, ErrAccountLocked
	}

	// A lock whose expiry elapsed is lifted lazily, before the password
	// check, so a post-lock failure starts counting from one again.
	if user.Locked {
		if err := a.lockoutTracker.Reset(ctx, user.UserID); err != nil {
			return models.Principal{}, err
		}
	}

	if !a.passwordPolicy.Verify(password, user.PasswordHash) {
		state, err := a.lockoutTracker.RecordFailure(ctx, user.UserID)
		if err != nil {
			return models.Principal{}, err
		}
		if err := a.audit.Record(ctx, user.Username, models.AuditActionLoginFailure, "user", userID, models.AuditOutcomeFailure); err != nil {
			return models.Principal{}, err
		}
		if state.Locked {
			if err := a.audit.Record(ctx, user.Username, models.AuditActionAccountLocked, "user", userID, models.AuditOutcomeBlocked); err != nil {
				return models.Principal{}, err
			}
		}
		return models.Principal{}, ErrInvalidCredentials
	}

	if user.MustChangePassword || user.PasswordExpiresAt.Before(now) {
		if err := a.audit.Record(ctx, user.Username, models.AuditActionLoginBlockedExpired, "user", userID, models.AuditOutcomeBlocked); err != nil {
			return models.Principal{}, err
		}
		return models.Principal{}, ErrPasswordExpired
	}

	if err := a.lockoutTracker.Reset(ctx, user.UserID); err != nil {
		return models.Principal{}, err
	}

	roles, permissions, err := a.resolver.Resolve(ctx, user.UserID)
	if err != nil {
		return models.Principal{}, err
	}

	if err := a.audit.Record(ctx, user.Username, models.AuditActionLoginSuccess, "user", userID, models.AuditOutcomeSuccess); err != nil {
		return models.Principal{}, err
	}

	return models.Principal{
		UserID:      user.UserID,
		Username:    user.Username,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}
