package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("[writeJSON] encode failed")
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]any{
		"error":  message,
		"status": statusCode,
	})
}

// writeResult writes a proxy result: the upstream body on success, otherwise
// the {error, status} shape.
func writeResult(w http.ResponseWriter, result reload.Result) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(result.Status)
	_, _ = w.Write(result.Body())
}

func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
