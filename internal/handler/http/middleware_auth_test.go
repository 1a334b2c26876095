// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelkov/go-access-gate/internal/service"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// getTokenFromAuthHeader
// ─────────────────────────────────────────────

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"missing token part", "Bearer", "", ErrInvalidAuthorizationHeader},
		{"empty token part", "Bearer ", "", ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ─────────────────────────────────────────────
// auth middleware
// ─────────────────────────────────────────────

// nextRecorder is a terminal handler that captures the principal placed in
// the request context by the auth middleware.
type nextRecorder struct {
	called    bool
	principal models.Principal
	ok        bool
}

func (n *nextRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.called = true
		n.principal, n.ok = utils.GetPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestAuth_ValidToken verifies that a valid bearer token lets the request
// through and exposes the principal to downstream handlers.
func TestAuth_ValidToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.session.EXPECT().
		Parse(gomock.Any(), "valid.jwt.token").
		Return(stubSession("valid.jwt.token"), nil)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer valid.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.called)
	require.True(t, next.ok)
	assert.Equal(t, int64(42), next.principal.UserID)
	assert.Equal(t, "jdoe", next.principal.Username)
	assert.True(t, next.principal.HasPermission("inspection.read"))
}

func TestAuth_NoHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

func TestAuth_ExpiredToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.session.EXPECT().
		Parse(gomock.Any(), "expired.jwt.token").
		Return(models.Session{}, service.ErrInvalidOrExpiredToken)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer expired.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

// ─────────────────────────────────────────────
// requirePermission middleware
// ─────────────────────────────────────────────

// TestRequirePermission verifies the permission gate, including the wildcard
// short-circuit and the rejection of principals without the exact code.
func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		principal  models.Principal
		wantStatus int
		wantNext   bool
	}{
		{
			name: "exact permission",
			principal: models.Principal{
				UserID: 1, Username: "auditor",
				Permissions: models.NewPermissionSet(PermissionAuditRead),
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name: "wildcard grants everything",
			principal: models.Principal{
				UserID: 2, Username: "admin",
				Permissions: models.NewPermissionSet(models.PermissionWildcard),
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name: "missing permission",
			principal: models.Principal{
				UserID: 3, Username: "operator",
				Permissions: models.NewPermissionSet("inspection.read"),
			},
			wantStatus: http.StatusForbidden,
			wantNext:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t)
			mocks.session.EXPECT().
				Parse(gomock.Any(), gomock.Any()).
				Return(models.Session{
					SignedString: "token",
					UserID:       tt.principal.UserID,
					Username:     tt.principal.Username,
					Permissions:  tt.principal.Permissions,
				}, nil)

			next := &nextRecorder{}
			guarded := h.auth(h.requirePermission(PermissionAuditRead)(next.handler()))

			req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()

			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, next.called)
		})
	}
}

// TestRequirePermission_NoPrincipal verifies that the gate rejects requests
// that bypassed the auth middleware.
func TestRequirePermission_NoPrincipal(t *testing.T) {
	h, _ := newTestHandler(t)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	rec := httptest.NewRecorder()

	h.requirePermission(PermissionAuditRead)(next.handler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}
