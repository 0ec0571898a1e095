package pose

import "github.com/ayusman/mudra/internal/geometry"

// DefaultDefinitions returns the built-in pose set in priority order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:      "thumbsUp",
			Direction: &DirectionConstraint{Thumb: Ptr(DirectionUp)},
			Fingers:   &FingerConstraint{Extended: Ptr(false)},
			Thumb:     &FingerConstraint{Extended: Ptr(true)},
		},
		{
			Name:      "okay",
			Direction: &DirectionConstraint{Fingers: Ptr(DirectionUp), Palm: Ptr(DirectionInwards)},
			Index:     &FingerConstraint{Touches: Ptr(FingerThumb)},
		},
		{
			Name:      "openPalm",
			Direction: &DirectionConstraint{Palm: Ptr(DirectionForward)},
			Fingers:   &FingerConstraint{Extended: Ptr(true), OnlyTouches: Ptr(FingerNone)},
		},
		{
			Name:   "point",
			Index:  &FingerConstraint{Extended: Ptr(true)},
			Middle: &FingerConstraint{Extended: Ptr(false)},
			Ring:   &FingerConstraint{Extended: Ptr(false)},
			Pinky:  &FingerConstraint{Extended: Ptr(false)},
		},
		{
			Name:    "fist",
			Fingers: &FingerConstraint{Extended: Ptr(false)},
		},
	}
}

// Preset samples are right hands held 0.4m in front of a standing viewer
// looking along +Z.
var (
	presetWrist = geometry.Vec3{X: 0.2, Y: 1.1, Z: 0.4}
	presetHead  = geometry.Vec3{X: 0, Y: 1.6, Z: 0}
)

func wristOffset(x, y, z float64) geometry.Vec3 {
	return presetWrist.Add(geometry.Vec3{X: x, Y: y, Z: z})
}

// ThumbsUpSample returns a fist with the thumb extended straight up and the
// palm facing inwards.
func ThumbsUpSample() HandSample {
	return HandSample{
		HeadPosition:      presetHead,
		HeadDirection:     geometry.Vec3{Z: 1},
		FingersDirection:  geometry.Vec3{Z: 1},
		PalmDirection:     geometry.Vec3{X: -1},
		ThumbDirection:    geometry.Vec3{Y: 1},
		WristPosition:     presetWrist,
		WristDirection:    geometry.Vec3{Z: 1},
		ThumbTipPosition:  wristOffset(0, 0.09, 0.05),
		IndexBasePosition: wristOffset(0, 0, 0.08),
		IndexTipPosition:  wristOffset(0.02, 0, 0.05),
		MiddleTipPosition: wristOffset(0.02, -0.035, 0.05),
		RingTipPosition:   wristOffset(0.02, -0.07, 0.045),
		PinkyBasePosition: wristOffset(0, -0.06, 0.065),
		PinkyTipPosition:  wristOffset(0.02, -0.1, 0.04),
	}
}

// FistSample returns ThumbsUpSample with the thumb folded onto the index tip.
func FistSample() HandSample {
	s := ThumbsUpSample()
	s.ThumbDirection = geometry.Vec3{Z: 1}
	s.ThumbTipPosition = wristOffset(0.025, 0, 0.075)
	return s
}

// OkaySample returns fingers pointing up, palm facing inwards, with the index
// tip resting on the thumb tip.
func OkaySample() HandSample {
	return HandSample{
		HeadPosition:      presetHead,
		HeadDirection:     geometry.Vec3{Z: 1},
		FingersDirection:  geometry.Vec3{Y: 1},
		PalmDirection:     geometry.Vec3{X: -1},
		ThumbDirection:    geometry.Vec3{Y: 0.6, Z: -0.8},
		WristPosition:     presetWrist,
		WristDirection:    geometry.Vec3{Y: 1},
		ThumbTipPosition:  wristOffset(0.01, 0.1, -0.06),
		IndexBasePosition: wristOffset(0, 0.08, -0.02),
		IndexTipPosition:  wristOffset(0.01, 0.11, -0.075),
		MiddleTipPosition: wristOffset(0, 0.19, 0),
		RingTipPosition:   wristOffset(0, 0.175, 0.035),
		PinkyBasePosition: wristOffset(0, 0.07, 0.03),
		PinkyTipPosition:  wristOffset(0, 0.15, 0.07),
	}
}

// OpenPalmSample returns all five fingers spread and extended with the palm
// facing forward.
func OpenPalmSample() HandSample {
	return HandSample{
		HeadPosition:      presetHead,
		HeadDirection:     geometry.Vec3{Z: 1},
		FingersDirection:  geometry.Vec3{Y: 1},
		PalmDirection:     geometry.Vec3{Z: 1},
		ThumbDirection:    geometry.Vec3{X: -1, Y: 0.3},
		WristPosition:     presetWrist,
		WristDirection:    geometry.Vec3{Y: 1},
		ThumbTipPosition:  wristOffset(-0.09, 0.05, 0),
		IndexBasePosition: wristOffset(-0.02, 0.08, 0),
		IndexTipPosition:  wristOffset(-0.035, 0.17, 0),
		MiddleTipPosition: wristOffset(0, 0.185, 0),
		RingTipPosition:   wristOffset(0.035, 0.175, 0),
		PinkyBasePosition: wristOffset(0.035, 0.07, 0),
		PinkyTipPosition:  wristOffset(0.07, 0.15, 0),
	}
}

// Mirror returns s reflected across the vertical plane through the viewer,
// turning a right hand into a left hand.
func Mirror(s HandSample) HandSample {
	m := func(v geometry.Vec3) geometry.Vec3 { return geometry.Vec3{X: -v.X, Y: v.Y, Z: v.Z} }
	return HandSample{
		IsLeftHand:        !s.IsLeftHand,
		HeadPosition:      m(s.HeadPosition),
		HeadDirection:     m(s.HeadDirection),
		FingersDirection:  m(s.FingersDirection),
		PalmDirection:     m(s.PalmDirection),
		ThumbDirection:    m(s.ThumbDirection),
		WristPosition:     m(s.WristPosition),
		WristDirection:    m(s.WristDirection),
		ThumbTipPosition:  m(s.ThumbTipPosition),
		IndexBasePosition: m(s.IndexBasePosition),
		IndexTipPosition:  m(s.IndexTipPosition),
		MiddleTipPosition: m(s.MiddleTipPosition),
		RingTipPosition:   m(s.RingTipPosition),
		PinkyBasePosition: m(s.PinkyBasePosition),
		PinkyTipPosition:  m(s.PinkyTipPosition),
	}
}
