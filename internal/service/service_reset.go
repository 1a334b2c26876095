// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
)

// notificationKindPasswordReset is the outbound notification kind carrying a
// reset link.
const notificationKindPasswordReset = "password_reset"

// resetActorUnknown is the audit actor recorded for failed confirmations
// whose token never resolved to a user.
const resetActorUnknown = "unknown"

// passwordResetService is the concrete implementation of
// [PasswordResetService].
//
// Only the SHA-256 digest of a reset secret is ever persisted. The plaintext
// secret exists in the notification payload and nowhere else, so a leaked
// copy of the reset_tokens table cannot be replayed as valid links.
type passwordResetService struct {
	userRepository  store.UserRepository
	resetRepository store.ResetTokenRepository
	passwordPolicy  PasswordPolicy
	lockoutTracker  LockoutTracker
	audit           AuditService
	notifier        Notifier
	resetTokenTTL   time.Duration
	historyLimit    int
	uuidGenerator   *utils.UUIDGenerator
	logger          *logger.Logger
}

// NewPasswordResetService constructs a [PasswordResetService] wired to its
// collaborators, with token lifetime and history depth from the policy.
func NewPasswordResetService(
	userRepository store.UserRepository,
	resetRepository store.ResetTokenRepository,
	passwordPolicy PasswordPolicy,
	lockoutTracker LockoutTracker,
	audit AuditService,
	notifier Notifier,
	cfg config.Policy,
	logger *logger.Logger,
) PasswordResetService {
	return &passwordResetService{
		userRepository:  userRepository,
		resetRepository: resetRepository,
		passwordPolicy:  passwordPolicy,
		lockoutTracker:  lockoutTracker,
		audit:           audit,
		notifier:        notifier,
		resetTokenTTL:   cfg.ResetTokenTTL,
		historyLimit:    cfg.PasswordHistoryLimit,
		uuidGenerator:   utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// RequestReset issues a single-use reset token when the identifier matches
// an account.
//
// The returned response is byte-identical whether or not the account exists.
// Notification delivery is fire-and-forget: a delivery failure is logged but
// never rolls back token issuance and never changes the response.
func (p *passwordResetService) RequestReset(ctx context.Context, identifier string) (models.ResetAcceptedResponse, error) {
	log := logger.FromContext(ctx)
	accepted := models.ResetAcceptedResponse{Message: models.ResetAcceptedMessage}

	user, err := p.userRepository.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			// Same response as the found case; only the audit trail differs.
			if auditErr := p.audit.Record(ctx, identifier, models.AuditActionPasswordResetRequest, "user", "", models.AuditOutcomeFailure); auditErr != nil {
				return models.ResetAcceptedResponse{}, auditErr
			}
			return accepted, nil
		}
		log.Err(err).Msg("user lookup failed during reset request")
		return models.ResetAcceptedResponse{}, fmt.Errorf("user lookup failed during reset request: %w", err)
	}

	secret, err := utils.NewResetSecret()
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to generate reset secret")
		return models.ResetAcceptedResponse{}, err
	}

	now := time.Now()
	token := models.ResetToken{
		TokenID:   p.uuidGenerator.Generate(),
		UserID:    user.UserID,
		Digest:    utils.DigestSecret(secret),
		IssuedAt:  now,
		ExpiresAt: now.Add(p.resetTokenTTL),
	}

	if err := p.resetRepository.CreateResetToken(ctx, token); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to store reset token")
		return models.ResetAcceptedResponse{}, fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := p.notifier.SendNotification(ctx, user.UserID, notificationKindPasswordReset, map[string]string{
		"token":      secret,
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
	}); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("reset notification delivery failed")
	}

	if err := p.audit.Record(ctx, user.Username, models.AuditActionPasswordResetRequest, "user", strconv.FormatInt(user.UserID, 10), models.AuditOutcomeSuccess); err != nil {
		return models.ResetAcceptedResponse{}, err
	}

	return accepted, nil
}

// ConfirmReset redeems a reset token and installs the new password.
//
// The candidate is checked against the strength rules before the token is
// consumed, so a weak password does not burn the token. Consumption itself
// is atomic and single-use: of two concurrent confirmations with the same
// secret exactly one proceeds past it.
//
// Every rejected confirmation is audited with a FAILURE outcome before the
// error is returned, under the token's user when the token resolved and a
// placeholder actor otherwise.
//
// Returned errors:
//   - [*PolicyViolationError] when the new password fails strength or
//     history rules.
//   - [ErrInvalidOrExpiredToken] for an unknown, expired or already-consumed
//     token, indistinguishably.
func (p *passwordResetService) ConfirmReset(ctx context.Context, secret, newPassword string) error {
	log := logger.FromContext(ctx)

	if result := p.passwordPolicy.Validate(newPassword); !result.Valid {
		// The token has not been consumed yet, so no user is known.
		if auditErr := p.audit.Record(ctx, resetActorUnknown, models.AuditActionPasswordReset, "user", "", models.AuditOutcomeFailure); auditErr != nil {
			return auditErr
		}
		return &PolicyViolationError{Violations: result.Violations}
	}

	token, err := p.resetRepository.ConsumeResetToken(ctx, utils.DigestSecret(secret))
	if err != nil {
		if errors.Is(err, store.ErrResetTokenNotFound) {
			if auditErr := p.audit.Record(ctx, resetActorUnknown, models.AuditActionPasswordReset, "user", "", models.AuditOutcomeFailure); auditErr != nil {
				return auditErr
			}
			return ErrInvalidOrExpiredToken
		}
		log.Err(err).Msg("failed to consume reset token")
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	userID := strconv.FormatInt(token.UserID, 10)

	previous, err := p.userRepository.RecentPasswordDigests(ctx, token.UserID, p.historyLimit)
	if err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("failed to load password history")
		return fmt.Errorf("failed to load password history: %w", err)
	}
	if p.passwordPolicy.HistoryCheck(newPassword, previous) {
		if auditErr := p.audit.Record(ctx, userID, models.AuditActionPasswordReset, "user", userID, models.AuditOutcomeFailure); auditErr != nil {
			return auditErr
		}
		return &PolicyViolationError{Violations: []string{"password was used recently"}}
	}

	digest, err := p.passwordPolicy.Hash(newPassword)
	if err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("failed to hash new password")
		return err
	}

	now := time.Now()
	if err := p.userRepository.UpdatePasswordHash(ctx, token.UserID, digest, p.passwordPolicy.ExpiryDate(now)); err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("failed to install new password")
		return fmt.Errorf("failed to install new password: %w", err)
	}

	if err := p.userRepository.AppendPasswordHistory(ctx, token.UserID, digest); err != nil {
		log.Err(err).Int64("user_id", token.UserID).Msg("failed to append password history")
		return fmt.Errorf("failed to append password history: %w", err)
	}

	if err := p.lockoutTracker.Reset(ctx, token.UserID); err != nil {
		return err
	}

	return p.audit.Record(ctx, userID, models.AuditActionPasswordReset, "user", userID, models.AuditOutcomeSuccess)
}
