package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelez/photodeck-be/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds to HTTP statuses. Storage and unclassified
// errors are logged and answered with a generic body so internal detail
// never reaches the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindValidation:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperrors.KindNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperrors.KindConflict:
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case apperrors.KindUnauthorized:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	default:
		log.Error().Err(err).Str("kind", string(kind)).Str("path", r.URL.Path).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
