// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package workers

import (
	"context"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
)

// lockSweeper lifts timed locks whose window has elapsed.
type lockSweeper interface {
	ClearExpired(ctx context.Context) (int64, error)
}

// tokenPurger removes reset tokens that can no longer be redeemed.
type tokenPurger interface {
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// sweeper periodically clears expired account locks and purges expired
// password-reset tokens.
//
// The sweep is an optimization only: lock expiry is also evaluated lazily at
// authentication time and token expiry at redemption time, so correctness
// does not depend on the sweeper ever running. It merely keeps stored state
// tidy and the reset_tokens table small.
type sweeper struct {
	lockouts lockSweeper
	tokens   tokenPurger

	interval time.Duration

	logger *logger.Logger
}

func newSweeper(lockouts lockSweeper, tokens tokenPurger, interval time.Duration, logger *logger.Logger) *sweeper {
	return &sweeper{
		lockouts: lockouts,
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the periodic sweep in a background goroutine and returns
// immediately. The goroutine runs for the lifetime of the process.
func (s *sweeper) Run() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting expiry sweeper")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for range ticker.C {
			s.sweep(context.Background())
		}
	}()
}

// sweep performs a single pass. Errors are logged and swallowed so that one
// failed pass never stops the ticker.
func (s *sweeper) sweep(ctx context.Context) {
	clearedLocks, err := s.lockouts.ClearExpired(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("clearing expired locks failed")
	}

	purgedTokens, err := s.tokens.PurgeExpiredResetTokens(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("purging expired reset tokens failed")
	}

	if clearedLocks > 0 || purgedTokens > 0 {
		s.logger.Info().
			Int64("cleared_locks", clearedLocks).
			Int64("purged_tokens", purgedTokens).
			Msg("expiry sweep finished")
	}
}
