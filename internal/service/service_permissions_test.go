package service

import (
	"context"
	"testing"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/mock"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResolve_UnionOfActiveRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoles := mock.NewMockRoleRepository(ctrl)
	resolver := NewPermissionResolver(mockRoles, logger.Nop())
	ctx := context.Background()

	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).
		Return([]models.RoleAssignment{
			{UserID: 1, RoleCode: "editor", Active: true},
			{UserID: 1, RoleCode: "reviewer", Active: true},
		}, nil)
	mockRoles.EXPECT().FindRoleByCode(ctx, "editor").
		Return(models.Role{Code: "editor", Permissions: models.NewPermissionSet("document:read", "document:write")}, nil)
	mockRoles.EXPECT().FindRoleByCode(ctx, "reviewer").
		Return(models.Role{Code: "reviewer", Permissions: models.NewPermissionSet("document:read", "review:approve")}, nil)

	roles, permissions, err := resolver.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"editor", "reviewer"}, roles)
	assert.ElementsMatch(t, []string{"document:read", "document:write", "review:approve"}, permissions.Codes())
}

func TestResolve_NoAssignments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoles := mock.NewMockRoleRepository(ctrl)
	resolver := NewPermissionResolver(mockRoles, logger.Nop())
	ctx := context.Background()

	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).Return(nil, nil)

	roles, permissions, err := resolver.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roles)
	assert.False(t, permissions.Has("anything"))
}

func TestResolve_WildcardGrantsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoles := mock.NewMockRoleRepository(ctrl)
	resolver := NewPermissionResolver(mockRoles, logger.Nop())
	ctx := context.Background()

	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).
		Return([]models.RoleAssignment{{UserID: 1, RoleCode: "admin", Active: true}}, nil)
	mockRoles.EXPECT().FindRoleByCode(ctx, "admin").
		Return(models.Role{Code: "admin", Permissions: models.NewPermissionSet(models.PermissionWildcard)}, nil)

	_, permissions, err := resolver.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.True(t, permissions.HasWildcard())
	assert.True(t, permissions.Has("any:code:whatsoever"))
}

func TestResolve_AssignmentLookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoles := mock.NewMockRoleRepository(ctrl)
	resolver := NewPermissionResolver(mockRoles, logger.Nop())
	ctx := context.Background()

	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).Return(nil, assert.AnError)

	_, _, err := resolver.Resolve(ctx, 1)
	assert.Error(t, err)
}
