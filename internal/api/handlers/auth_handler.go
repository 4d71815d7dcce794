package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/auth"
	"github.com/avelez/photodeck-be/internal/services"
)

// AuthHandler handles login and token verification.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, apperrors.New(apperrors.KindValidation, "invalid request body"))
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUnauthorized) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Verify confirms the presented token is valid and returns its user. The
// token itself was already checked by the middleware.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.New(apperrors.KindUnauthorized, "no subject in token"))
		return
	}

	user, err := h.service.GetByUsername(r.Context(), subject)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
