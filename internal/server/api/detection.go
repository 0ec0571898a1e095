package api

import "net/http"

// Toggle turns detection on and off.
type Toggle interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// DetectionHandler exposes the detection toggle at /api/detection.
type DetectionHandler struct {
	toggle Toggle
}

// NewDetectionHandler creates a DetectionHandler.
func NewDetectionHandler(t Toggle) *DetectionHandler {
	return &DetectionHandler{toggle: t}
}

type detectionState struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req detectionState
		if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "Body must be {\"enabled\": true|false}")
			return
		}
		if err := h.toggle.SetEnabled(*req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enabled := h.toggle.IsEnabled()
	writeJSON(w, http.StatusOK, detectionState{Enabled: &enabled})
}
