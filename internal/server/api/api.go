// Package api provides HTTP API handlers for the Mudra pose recognition
// system.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Reloader refreshes the live pose library after the stored poses change.
type Reloader interface {
	LoadPoses() error
}

type errorResponse struct {
	Error string `json:"error"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// resourceID splits /prefix or /prefix/{id} and returns id ("" for the
// collection).
func resourceID(path, prefix string) string {
	return strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
}
