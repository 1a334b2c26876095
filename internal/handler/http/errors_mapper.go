package http

import (
	"errors"
	"net/http"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/service"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidCredentials:    http.StatusUnauthorized,
	service.ErrInvalidOrExpiredToken: http.StatusUnauthorized,
	service.ErrAccountInactive:       http.StatusForbidden,
	service.ErrPasswordExpired:       http.StatusForbidden,
	service.ErrUnauthorized:          http.StatusForbidden,
	service.ErrAccountLocked:         http.StatusLocked,
	service.ErrPolicyViolation:       http.StatusUnprocessableEntity,

	store.ErrStoreUnavailable: http.StatusServiceUnavailable,

	// Both not-found kinds map to 401, never 404: a raw escape of either
	// must not confirm whether the account or token exists.
	store.ErrNoUserWasFound:     http.StatusUnauthorized,
	store.ErrResetTokenNotFound: http.StatusUnauthorized,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to an HTTP status via statusFromError and writes the
// JSON error body. Password-policy failures additionally carry the list of
// broken rules so that clients can show them to the user.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	body := models.ErrorResponse{Error: err.Error()}

	var policyErr *service.PolicyViolationError
	if errors.As(err, &policyErr) {
		body.Error = service.ErrPolicyViolation.Error()
		body.Violations = policyErr.Violations
	}

	if status == http.StatusInternalServerError {
		// Do not leak internals to the caller.
		body.Error = http.StatusText(http.StatusInternalServerError)
	}

	log.Err(err).Int("status", status).Send()
	utils.WriteJSON(w, body, status)
}
