// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelkov/go-access-gate/internal/service"
	"github.com/avelkov/go-access-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// password-reset request
// ─────────────────────────────────────────────

// TestRequestPasswordReset_Accepted verifies that a reset request returns 202
// with the fixed acknowledgement body.
func TestRequestPasswordReset_Accepted(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		RequestReset(gomock.Any(), "jdoe@example.com").
		Return(models.ResetAcceptedResponse{Message: models.ResetAcceptedMessage}, nil)

	body := jsonBody(t, resetRequest{Identifier: "jdoe@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset", body)
	rec := httptest.NewRecorder()

	h.requestPasswordReset(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var got models.ResetAcceptedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, models.ResetAcceptedMessage, got.Message)
}

// TestRequestPasswordReset_SameBodyForUnknownIdentifier verifies that the
// endpoint does not reveal whether the identifier matched an account.
func TestRequestPasswordReset_SameBodyForUnknownIdentifier(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		RequestReset(gomock.Any(), gomock.Any()).
		Return(models.ResetAcceptedResponse{Message: models.ResetAcceptedMessage}, nil).
		Times(2)

	var bodies []string
	for _, identifier := range []string{"real-user", "no-such-user"} {
		body := jsonBody(t, resetRequest{Identifier: identifier})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset", body)
		rec := httptest.NewRecorder()

		h.requestPasswordReset(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}

	assert.Equal(t, bodies[0], bodies[1])
}

func TestRequestPasswordReset_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.requestPasswordReset(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// password-reset confirmation
// ─────────────────────────────────────────────

func TestConfirmPasswordReset_Success(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		ConfirmReset(gomock.Any(), "opaque-secret", "N3w&Sufficient!pass").
		Return(nil)

	body := jsonBody(t, resetConfirmRequest{Token: "opaque-secret", NewPassword: "N3w&Sufficient!pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", body)
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConfirmPasswordReset_InvalidToken(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		ConfirmReset(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(service.ErrInvalidOrExpiredToken)

	body := jsonBody(t, resetConfirmRequest{Token: "burned", NewPassword: "N3w&Sufficient!pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", body)
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestConfirmPasswordReset_PolicyViolation verifies that a weak replacement
// password maps to 422 and that the broken rules reach the client.
func TestConfirmPasswordReset_PolicyViolation(t *testing.T) {
	violations := []string{
		"password must be at least 12 characters long",
		"password must contain an uppercase letter",
	}

	h, mocks := newTestHandler(t)
	mocks.reset.EXPECT().
		ConfirmReset(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.PolicyViolationError{Violations: violations})

	body := jsonBody(t, resetConfirmRequest{Token: "opaque-secret", NewPassword: "weak"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", body)
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var got models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, service.ErrPolicyViolation.Error(), got.Error)
	assert.Equal(t, violations, got.Violations)
}
