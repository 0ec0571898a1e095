package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/tracking"
)

// DetectHandler classifies a single hand without dispatching any action.
type DetectHandler struct {
	library *pose.Library
}

// NewDetectHandler creates a DetectHandler that evaluates against library
// unless the request supplies its own definitions.
func NewDetectHandler(library *pose.Library) *DetectHandler {
	return &DetectHandler{library: library}
}

// detectRequest carries either a prepared sample or raw landmarks with the
// viewer's head. A non-null poses list replaces the library for this call.
type detectRequest struct {
	Sample    *pose.HandSample        `json:"sample"`
	Landmarks *tracking.HandLandmarks `json:"landmarks"`
	Head      *tracking.Head          `json:"head"`
	Poses     []pose.Definition       `json:"poses"`
}

type detectResponse struct {
	Matched bool             `json:"matched"`
	Hand    string           `json:"hand"`
	Pose    *pose.Definition `json:"pose"`
}

// ServeHTTP handles POST /api/detect.
func (h *DetectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req detectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	sample, status, msg := req.sample()
	if sample == nil {
		writeError(w, status, msg)
		return
	}

	var (
		matched *pose.Definition
		err     error
	)
	if req.Poses != nil {
		matched, err = pose.Detect(sample, req.Poses)
	} else {
		matched, err = h.library.Detect(sample)
	}
	if err != nil {
		if errors.Is(err, geometry.ErrDegenerateVector) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detectResponse{
		Matched: matched != nil,
		Hand:    sample.Handedness(),
		Pose:    matched,
	})
}

// sample resolves the request to a HandSample, or returns the status and
// message to reject it with.
func (req *detectRequest) sample() (*pose.HandSample, int, string) {
	switch {
	case req.Sample != nil && req.Landmarks != nil:
		return nil, http.StatusBadRequest, "Provide either sample or landmarks, not both"
	case req.Sample != nil:
		return req.Sample, 0, ""
	case req.Landmarks == nil:
		return nil, http.StatusBadRequest, "sample or landmarks is required"
	case req.Head == nil:
		return nil, http.StatusBadRequest, "head is required with landmarks"
	}

	s, err := req.Landmarks.ToSample(*req.Head)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err.Error()
	}
	return &s, 0, ""
}
