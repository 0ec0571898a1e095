package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/tracking"
)

func TestDetectHandler(t *testing.T) {
	handler := NewDetectHandler(pose.NewLibrary(pose.DefaultDefinitions()...))

	thumbsUp := pose.ThumbsUpSample()
	fistOnly := []pose.Definition{pose.DefaultDefinitions()[4]}
	openPalm := tracking.MirrorLandmarks(tracking.OpenPalmLandmarks())

	tests := []struct {
		name     string
		body     detectRequest
		wantPose string
		wantHand string
	}{
		{"sample against library", detectRequest{Sample: &thumbsUp}, "thumbsUp", "right"},
		{"sample against supplied poses", detectRequest{Sample: &thumbsUp, Poses: fistOnly}, "", "right"},
		{"empty supplied poses", detectRequest{Sample: &thumbsUp, Poses: []pose.Definition{}}, "", "right"},
		{"landmarks", detectRequest{Landmarks: &openPalm, Head: &tracking.DefaultHead}, "openPalm", "left"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, handler, http.MethodPost, "/api/detect", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			got := decode[detectResponse](t, rec)
			assert.Equal(t, tt.wantHand, got.Hand)
			if tt.wantPose == "" {
				assert.False(t, got.Matched)
				assert.Nil(t, got.Pose)
				return
			}
			require.True(t, got.Matched)
			assert.Equal(t, tt.wantPose, got.Pose.Name)
		})
	}
}

func TestDetectHandler_Rejects(t *testing.T) {
	handler := NewDetectHandler(pose.NewLibrary(pose.DefaultDefinitions()...))

	thumbsUp := pose.ThumbsUpSample()
	degenerate := pose.ThumbsUpSample()
	degenerate.PalmDirection = geometry.Vec3{}
	landmarks := tracking.ThumbsUpLandmarks()
	badHand := tracking.ThumbsUpLandmarks()
	badHand.Handedness = "Unknown"

	tests := []struct {
		name string
		body any
		want int
	}{
		{"invalid json", `{"sample":`, http.StatusBadRequest},
		{"empty", detectRequest{}, http.StatusBadRequest},
		{"both inputs", detectRequest{Sample: &thumbsUp, Landmarks: &landmarks, Head: &tracking.DefaultHead}, http.StatusBadRequest},
		{"landmarks without head", detectRequest{Landmarks: &landmarks}, http.StatusBadRequest},
		{"unknown handedness", detectRequest{Landmarks: &badHand, Head: &tracking.DefaultHead}, http.StatusUnprocessableEntity},
		{"degenerate sample", detectRequest{Sample: &degenerate}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, handler, http.MethodPost, "/api/detect", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, handler, http.MethodGet, "/api/detect", nil).Code)
}
