package pose

import "github.com/ayusman/mudra/internal/geometry"

// HandSample is one frame of tracked hand data. All vectors share a single
// coordinate frame and unit (meters; X right, Y up, Z forward).
type HandSample struct {
	IsLeftHand bool `json:"isLeftHand"`

	HeadPosition  geometry.Vec3 `json:"headPosition"`
	HeadDirection geometry.Vec3 `json:"headDirection"`

	// FingersDirection points from the base of the hand towards the knuckles.
	FingersDirection geometry.Vec3 `json:"fingersDirection"`
	// PalmDirection is the direction the palm is facing.
	PalmDirection geometry.Vec3 `json:"palmDirection"`
	// ThumbDirection is roughly the thumb's direction with the fingers spread.
	ThumbDirection geometry.Vec3 `json:"thumbDirection"`

	WristPosition  geometry.Vec3 `json:"wristPosition"`
	WristDirection geometry.Vec3 `json:"wristDirection"`

	ThumbTipPosition  geometry.Vec3 `json:"thumbTipPosition"`
	IndexBasePosition geometry.Vec3 `json:"indexBasePosition"`
	IndexTipPosition  geometry.Vec3 `json:"indexTipPosition"`
	MiddleTipPosition geometry.Vec3 `json:"middleTipPosition"`
	RingTipPosition   geometry.Vec3 `json:"ringTipPosition"`
	PinkyBasePosition geometry.Vec3 `json:"pinkyBasePosition"`
	PinkyTipPosition  geometry.Vec3 `json:"pinkyTipPosition"`
}

// Tip returns the fingertip position of f. FingerNone has no tip; it maps
// to a point 100 units from the wrist that no fingertip can reach.
func (s *HandSample) Tip(f Finger) geometry.Vec3 {
	switch f {
	case FingerThumb:
		return s.ThumbTipPosition
	case FingerIndex:
		return s.IndexTipPosition
	case FingerMiddle:
		return s.MiddleTipPosition
	case FingerRing:
		return s.RingTipPosition
	case FingerPinky:
		return s.PinkyTipPosition
	}
	return s.WristPosition.Add(noneOffset)
}

// Handedness returns "left" or "right".
func (s *HandSample) Handedness() string {
	if s.IsLeftHand {
		return "left"
	}
	return "right"
}
