package http

import (
	"encoding/json"
	"net/http"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/utils"
)

// resetRequest is the body of the password-reset request endpoint.
type resetRequest struct {
	Identifier string `json:"identifier"`
}

// resetConfirmRequest is the body of the password-reset confirmation
// endpoint. Token is the opaque secret delivered out of band.
type resetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// requestPasswordReset accepts a reset request for an identifier. The
// response is identical whether or not the identifier matches an account, so
// the endpoint cannot be used to probe which accounts exist.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request resetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	accepted, err := h.services.PasswordResetService.RequestReset(ctx, request.Identifier)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, accepted, http.StatusAccepted)
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.ConfirmReset(ctx, request.Token, request.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
