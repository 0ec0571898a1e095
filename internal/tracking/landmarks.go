// Package tracking converts raw hand-tracking frames into pose samples.
package tracking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/pose"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

var (
	// ErrUnknownHandedness is returned when a hand is neither "Left" nor "Right".
	ErrUnknownHandedness = errors.New("unknown handedness")
	// ErrNonFiniteLandmark is returned when a landmark has a NaN or infinite coordinate.
	ErrNonFiniteLandmark = errors.New("non-finite landmark")
)

// HandLandmarks is one tracked hand: 21 points in world space (meters,
// X right, Y up, Z forward).
type HandLandmarks struct {
	Points     [NumLandmarks]geometry.Vec3 `json:"points"`
	Handedness string                      `json:"handedness"` // "Left" or "Right"
	Score      float64                     `json:"score"`
}

// Head is the viewer's position and gaze direction in the same frame as the
// hand landmarks.
type Head struct {
	Position  geometry.Vec3 `json:"position"`
	Direction geometry.Vec3 `json:"direction"`
}

// Frame is everything tracked at one instant.
type Frame struct {
	Head  Head            `json:"head"`
	Hands []HandLandmarks `json:"hands"`
}

// IsLeft reports whether the hand is a left hand. Handedness is matched
// case-insensitively.
func (h *HandLandmarks) IsLeft() (bool, error) {
	switch {
	case strings.EqualFold(h.Handedness, "left"):
		return true, nil
	case strings.EqualFold(h.Handedness, "right"):
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownHandedness, h.Handedness)
}

// PalmNormal returns the direction the palm faces. The winding of the
// wrist/index/pinky triangle flips with handedness.
func (h *HandLandmarks) PalmNormal(isLeft bool) geometry.Vec3 {
	wrist := h.Points[Wrist]
	toIndex := h.Points[IndexMCP].Sub(wrist)
	toPinky := h.Points[PinkyMCP].Sub(wrist)
	if isLeft {
		return toIndex.Cross(toPinky)
	}
	return toPinky.Cross(toIndex)
}

// ToSample derives a pose sample from the landmarks and the viewer's head.
// The directions it produces are not normalized.
func (h *HandLandmarks) ToSample(head Head) (pose.HandSample, error) {
	isLeft, err := h.IsLeft()
	if err != nil {
		return pose.HandSample{}, err
	}
	for i, p := range h.Points {
		if !p.IsFinite() {
			return pose.HandSample{}, fmt.Errorf("%w: point %d", ErrNonFiniteLandmark, i)
		}
	}

	p := &h.Points
	fingers := p[MiddleMCP].Sub(p[Wrist])

	return pose.HandSample{
		IsLeftHand:        isLeft,
		HeadPosition:      head.Position,
		HeadDirection:     head.Direction,
		FingersDirection:  fingers,
		PalmDirection:     h.PalmNormal(isLeft),
		ThumbDirection:    p[ThumbTip].Sub(p[ThumbMCP]),
		WristPosition:     p[Wrist],
		WristDirection:    fingers,
		ThumbTipPosition:  p[ThumbTip],
		IndexBasePosition: p[IndexMCP],
		IndexTipPosition:  p[IndexTip],
		MiddleTipPosition: p[MiddleTip],
		RingTipPosition:   p[RingTip],
		PinkyBasePosition: p[PinkyMCP],
		PinkyTipPosition:  p[PinkyTip],
	}, nil
}
