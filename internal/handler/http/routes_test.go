package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestRoutes_SessionIntrospection drives the full router: the auth middleware
// parses the bearer token and the introspection endpoint echoes the principal.
func TestRoutes_SessionIntrospection(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.session.EXPECT().
		Parse(gomock.Any(), "valid.jwt.token").
		Return(stubSession("valid.jwt.token"), nil)

	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer valid.jwt.token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	var got models.Principal
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "jdoe", got.Username)
	assert.Equal(t, []string{"qc_inspector"}, got.Roles)
	assert.ElementsMatch(t, []string{"inspection.read", "inspection.write"}, got.Permissions.Codes())
}

func TestRoutes_SessionWithoutToken(t *testing.T) {
	h, _ := newTestHandler(t)

	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestRoutes_TraceIDPropagated verifies that a caller-supplied trace ID is
// echoed back instead of being replaced.
func TestRoutes_TraceIDPropagated(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		RequestReset(gomock.Any(), gomock.Any()).
		Return(models.ResetAcceptedResponse{Message: models.ResetAcceptedMessage}, nil)

	router := h.Init()

	body := jsonBody(t, resetRequest{Identifier: "jdoe"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset", body)
	req.Header.Set(traceIDHeader, "trace-1234")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "trace-1234", rec.Header().Get(traceIDHeader))
}

// TestRoutes_AuditTrail drives the guarded audit endpoint end to end,
// including the query-parameter filter translation.
func TestRoutes_AuditTrail(t *testing.T) {
	entries := []models.AuditEntry{
		{EntryID: "e-1", Actor: "jdoe", Action: "LOGIN_SUCCESS", Outcome: "SUCCESS"},
	}

	h, mocks := newTestHandler(t)
	mocks.session.EXPECT().
		Parse(gomock.Any(), gomock.Any()).
		Return(models.Session{
			SignedString: "token",
			UserID:       7,
			Username:     "auditor",
			Permissions:  models.NewPermissionSet(PermissionAuditRead),
		}, nil)
	mocks.audit.EXPECT().
		Find(gomock.Any(), store.AuditFilter{
			Actor:  "jdoe",
			Action: "LOGIN_SUCCESS",
			Since:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Limit:  50,
		}).
		Return(entries, nil)

	router := h.Init()

	req := httptest.NewRequest(http.MethodGet,
		"/api/audit?actor=jdoe&action=LOGIN_SUCCESS&since=2026-08-01T00:00:00Z&limit=50", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.AuditEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "LOGIN_SUCCESS", got[0].Action)
}

// TestRoutes_AuditTrailForbidden verifies the permission gate on the audit
// endpoint for a principal without audit.read.
func TestRoutes_AuditTrailForbidden(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.session.EXPECT().
		Parse(gomock.Any(), gomock.Any()).
		Return(models.Session{
			SignedString: "token",
			UserID:       8,
			Username:     "operator",
			Permissions:  models.NewPermissionSet("inspection.read"),
		}, nil)

	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_UnknownPath(t *testing.T) {
	h, _ := newTestHandler(t)

	router := h.Init()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
