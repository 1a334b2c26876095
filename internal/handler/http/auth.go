package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
)

// credentialsRequest is the body of the login endpoint. Identifier matches
// either the username or the e-mail address of an account.
type credentialsRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	principal, err := h.services.AuthService.Authenticate(ctx, credentials.Identifier, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Int64("id", principal.UserID).Str("username", principal.Username).Msg("user successfully authenticated")

	session, err := h.services.SessionService.Issue(ctx, principal)
	if err != nil {
		log.Err(err).Msg("creation of session token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", session.SignedString))
	utils.WriteJSON(w, sessionResponse(session), http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	tokenString, err := tokenFromRequest(r)
	if err != nil {
		log.Err(err).Send()
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	session, err := h.services.SessionService.Refresh(ctx, tokenString)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", session.SignedString))
	utils.WriteJSON(w, sessionResponse(session), http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	tokenString, err := tokenFromRequest(r)
	if err != nil {
		log.Err(err).Send()
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	if err := h.services.SessionService.SignOut(ctx, tokenString); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// session is the introspection endpoint for an authenticated caller. The
// principal was placed in the request context by the auth middleware.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		log.Error().Msg("no principal in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, principal, http.StatusOK)
}

// tokenFromRequest extracts the bearer token of the "Authorization" header.
func tokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrEmptyAuthorizationHeader
	}
	return getTokenFromAuthHeader(authHeader)
}

// sessionResponse converts an issued session into its HTTP payload.
func sessionResponse(session models.Session) models.SessionResponse {
	return models.SessionResponse{
		AccessToken: session.SignedString,
		TokenType:   "Bearer",
		UserID:      session.UserID,
		Username:    session.Username,
		Roles:       session.Roles,
		Permissions: session.Permissions.Codes(),
		IssuedAt:    session.IssuedAt,
		ExpiresAt:   session.ExpiresAt,
	}
}
