package api

import (
	"encoding/json"
	"net/http"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain error kinds to HTTP statuses.
// Infrastructure errors surface as an opaque 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case domain.KindForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case domain.KindInvalidInput:
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.KindInvalidTransition, domain.KindConflict:
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON rejects unknown fields so typos in client payloads fail
// loudly instead of being silently dropped.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
