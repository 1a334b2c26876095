// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
)

// stubLockSweeper counts ClearExpired calls and returns a fixed result.
type stubLockSweeper struct {
	calls   atomic.Int64
	cleared int64
	err     error
}

func (s *stubLockSweeper) ClearExpired(_ context.Context) (int64, error) {
	s.calls.Add(1)
	return s.cleared, s.err
}

// stubTokenPurger counts PurgeExpiredResetTokens calls.
type stubTokenPurger struct {
	calls  atomic.Int64
	purged int64
	err    error
}

func (s *stubTokenPurger) PurgeExpiredResetTokens(_ context.Context) (int64, error) {
	s.calls.Add(1)
	return s.purged, s.err
}

func TestSweeper_Sweep_CallsBothStores(t *testing.T) {
	locks := &stubLockSweeper{cleared: 3}
	tokens := &stubTokenPurger{purged: 7}

	s := newSweeper(locks, tokens, time.Minute, logger.Nop())
	s.sweep(context.Background())

	if got := locks.calls.Load(); got != 1 {
		t.Errorf("expected 1 ClearExpired call, got %d", got)
	}
	if got := tokens.calls.Load(); got != 1 {
		t.Errorf("expected 1 PurgeExpiredResetTokens call, got %d", got)
	}
}

func TestSweeper_Sweep_LockErrorDoesNotSkipPurge(t *testing.T) {
	locks := &stubLockSweeper{err: errors.New("store down")}
	tokens := &stubTokenPurger{}

	s := newSweeper(locks, tokens, time.Minute, logger.Nop())
	s.sweep(context.Background())

	if got := tokens.calls.Load(); got != 1 {
		t.Errorf("expected purge to run despite lock sweep error, got %d calls", got)
	}
}

func TestSweeper_Run_TicksPeriodically(t *testing.T) {
	locks := &stubLockSweeper{}
	tokens := &stubTokenPurger{}

	s := newSweeper(locks, tokens, 10*time.Millisecond, logger.Nop())
	s.Run()

	deadline := time.After(2 * time.Second)
	for locks.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", locks.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
