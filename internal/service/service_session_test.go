package service

import (
	"context"
	"testing"
	"time"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/mock"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSessionSvc(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	SessionService,
	*mock.MockUserRepository,
	*mock.MockRoleRepository,
	*mock.MockAuditRepository,
) {
	t.Helper()
	mockUsers := mock.NewMockUserRepository(ctrl)
	mockRoles := mock.NewMockRoleRepository(ctrl)
	mockAudit := mock.NewMockAuditRepository(ctrl)

	l := logger.Nop()
	resolver := NewPermissionResolver(mockRoles, l)
	audit := NewAuditService(mockAudit, l)
	app := config.App{TokenSignKey: "test-sign-key", TokenIssuer: "gate-test"}

	svc := NewSessionService(mockUsers, resolver, audit, app, testPolicyConfig(), l)
	return svc, mockUsers, mockRoles, mockAudit
}

func sessionPrincipal() models.Principal {
	return models.Principal{
		UserID:      1,
		Username:    "jdoe",
		Roles:       []string{"editor"},
		Permissions: models.NewPermissionSet("document:read", "document:write"),
	}
}

func TestSessionIssueAndParse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)
	assert.NotEmpty(t, session.SignedString)
	assert.WithinDuration(t, session.IssuedAt.Add(8*time.Hour), session.ExpiresAt, time.Second)

	parsed, err := svc.Parse(ctx, session.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(1), parsed.UserID)
	assert.Equal(t, "jdoe", parsed.Username)
	assert.True(t, parsed.Permissions.Has("document:read"))
}

func TestSessionParse_Garbage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestSessionSvc(t, ctrl)

	_, err := svc.Parse(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestSessionRefresh_DropsRevokedPermissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockRoles, mockAudit := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)
	require.True(t, session.Permissions.Has("document:write"))

	// The editor role was revoked after issuance; only reviewer remains.
	mockUsers.EXPECT().FindUserByID(ctx, int64(1)).
		Return(models.User{UserID: 1, Username: "jdoe", Active: true}, nil)
	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).
		Return([]models.RoleAssignment{{UserID: 1, RoleCode: "reviewer", Active: true}}, nil)
	mockRoles.EXPECT().FindRoleByCode(ctx, "reviewer").
		Return(models.Role{Code: "reviewer", Permissions: models.NewPermissionSet("document:read")}, nil)
	mockAudit.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	refreshed, err := svc.Refresh(ctx, session.SignedString)
	require.NoError(t, err)
	assert.False(t, refreshed.Permissions.Has("document:write"))
	assert.True(t, refreshed.Permissions.Has("document:read"))
	assert.Equal(t, []string{"reviewer"}, refreshed.Roles)
}

func TestSessionRefresh_CeilingDoesNotSlide(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockRoles, mockAudit := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)

	mockUsers.EXPECT().FindUserByID(ctx, int64(1)).
		Return(models.User{UserID: 1, Username: "jdoe", Active: true}, nil)
	mockRoles.EXPECT().FindActiveRoleAssignments(ctx, int64(1)).Return(nil, nil)
	mockAudit.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	refreshed, err := svc.Refresh(ctx, session.SignedString)
	require.NoError(t, err)

	// New snapshot, same ceiling anchored to the original issuance.
	assert.Equal(t, session.ExpiresAt.Unix(), refreshed.ExpiresAt.Unix())
	assert.Equal(t, session.OriginalIssuedAt.Unix(), refreshed.OriginalIssuedAt.Unix())
}

func TestSessionRefresh_DeactivatedUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)

	mockUsers.EXPECT().FindUserByID(ctx, int64(1)).
		Return(models.User{UserID: 1, Username: "jdoe", Active: false}, nil)

	_, err = svc.Refresh(ctx, session.SignedString)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSessionRefresh_RemovedUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _ := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)

	mockUsers.EXPECT().FindUserByID(ctx, int64(1)).
		Return(models.User{}, store.ErrNoUserWasFound)

	_, err = svc.Refresh(ctx, session.SignedString)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestSessionRefresh_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestSessionSvc(t, ctrl)

	_, err := svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestSessionSignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, mockAudit := newTestSessionSvc(t, ctrl)
	ctx := context.Background()

	session, err := svc.Issue(ctx, sessionPrincipal())
	require.NoError(t, err)

	mockAudit.EXPECT().
		Append(gomock.Any(), cond(func(e models.AuditEntry) bool {
			return e.Action == models.AuditActionLogout && e.Actor == "jdoe"
		})).
		Return(nil)

	assert.NoError(t, svc.SignOut(ctx, session.SignedString))
}

func TestSessionSignOut_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestSessionSvc(t, ctrl)

	err := svc.SignOut(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
