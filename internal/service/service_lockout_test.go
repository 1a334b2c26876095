package service

import (
	"context"
	"testing"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/mock"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLockoutTracker_RecordFailure_PassesPolicyConstants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mock.NewMockUserRepository(ctrl)
	tracker := NewLockoutTracker(mockUsers, testPolicyConfig(), logger.Nop())
	ctx := context.Background()

	mockUsers.EXPECT().RecordFailedAttempt(ctx, int64(1), 5, 30*time.Minute).
		Return(models.LockoutState{FailedAttempts: 2}, nil)

	state, err := tracker.RecordFailure(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.FailedAttempts)
	assert.False(t, state.Locked)
}

func TestLockoutTracker_RecordFailure_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mock.NewMockUserRepository(ctrl)
	tracker := NewLockoutTracker(mockUsers, testPolicyConfig(), logger.Nop())
	ctx := context.Background()

	mockUsers.EXPECT().RecordFailedAttempt(ctx, int64(1), 5, 30*time.Minute).
		Return(models.LockoutState{}, assert.AnError)

	_, err := tracker.RecordFailure(ctx, 1)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLockoutTracker_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mock.NewMockUserRepository(ctrl)
	tracker := NewLockoutTracker(mockUsers, testPolicyConfig(), logger.Nop())
	ctx := context.Background()

	mockUsers.EXPECT().ClearLockout(ctx, int64(1)).Return(nil)

	assert.NoError(t, tracker.Reset(ctx, 1))
}

func TestLockoutTracker_ClearExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mock.NewMockUserRepository(ctrl)
	tracker := NewLockoutTracker(mockUsers, testPolicyConfig(), logger.Nop())
	ctx := context.Background()

	mockUsers.EXPECT().ClearExpiredLocks(ctx).Return(int64(3), nil)

	cleared, err := tracker.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cleared)
}
