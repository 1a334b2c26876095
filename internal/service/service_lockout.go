package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
)

// lockoutTracker is the concrete implementation of [LockoutTracker].
//
// It holds no per-user state of its own: the counter and lock flag live in
// the store and every mutation is a single atomic SQL statement, so
// concurrent failed attempts on the same account cannot lose updates.
type lockoutTracker struct {
	userRepository store.UserRepository
	threshold      int
	lockDuration   time.Duration
	logger         *logger.Logger
}

// NewLockoutTracker constructs a [LockoutTracker] with the configured
// threshold and lock duration.
func NewLockoutTracker(userRepository store.UserRepository, cfg config.Policy, logger *logger.Logger) LockoutTracker {
	return &lockoutTracker{
		userRepository: userRepository,
		threshold:      cfg.LockoutThreshold,
		lockDuration:   cfg.LockoutDuration,
		logger:         logger,
	}
}

// RecordFailure durably increments the failed-attempt counter. When the new
// count reaches the threshold the same statement sets the lock with its
// expiry, so the returned state reflects exactly the transition this call
// caused.
func (l *lockoutTracker) RecordFailure(ctx context.Context, userID int64) (models.LockoutState, error) {
	log := logger.FromContext(ctx)

	state, err := l.userRepository.RecordFailedAttempt(ctx, userID, l.threshold, l.lockDuration)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to record failed login attempt")
		return models.LockoutState{}, fmt.Errorf("failed to record failed login attempt: %w", err)
	}

	if state.Locked {
		log.Warn().
			Int64("user_id", userID).
			Int("failed_attempts", state.FailedAttempts).
			Msg("account locked after repeated failed attempts")
	}

	return state, nil
}

// Reset clears the counter and any lock after a successful verification.
func (l *lockoutTracker) Reset(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := l.userRepository.ClearLockout(ctx, userID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to reset lockout state")
		return fmt.Errorf("failed to reset lockout state: %w", err)
	}

	return nil
}

// ClearExpired lifts every elapsed lock and returns how many were lifted.
func (l *lockoutTracker) ClearExpired(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	cleared, err := l.userRepository.ClearExpiredLocks(ctx)
	if err != nil {
		log.Err(err).Msg("failed to clear expired locks")
		return 0, fmt.Errorf("failed to clear expired locks: %w", err)
	}

	return cleared, nil
}
