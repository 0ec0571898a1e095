package pose

import "github.com/ayusman/mudra/internal/geometry"

// Extension and touch thresholds.
const (
	// ThumbExtensionRatio is the pinky-base-to-thumb-tip distance, relative to
	// palm length, above which the thumb counts as extended.
	ThumbExtensionRatio = 0.9
	// FingerExtensionRatio is the wrist-to-fingertip distance, relative to
	// palm length, above which a finger counts as extended.
	FingerExtensionRatio = 1.5
	// TouchDistance is the largest fingertip separation that counts as a touch.
	TouchDistance = 0.03
)

// noneOffset places the FingerNone reference point far from any fingertip.
var noneOffset = geometry.Vec3{X: 100}

// touchCandidates is the fixed, ordered table of touch targets.
var touchCandidates = [...]Finger{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky, FingerNone}

// FingerState holds per-finger extension and touch results, indexed by Finger.
type FingerState struct {
	Extended [NumFingers]bool
	Touches  [NumFingers]FingerSet
}

// IsExtended reports whether a finger counts as extended. For the thumb,
// tipDistance is measured from the pinky base; for every other finger it is
// measured from the wrist.
func IsExtended(finger Finger, tipDistance, palmLength float64) bool {
	if finger == FingerThumb {
		return tipDistance > palmLength*ThumbExtensionRatio
	}
	return tipDistance > palmLength*FingerExtensionRatio
}

// PalmLength returns the wrist-to-index-base distance used to scale extension.
func PalmLength(s *HandSample) float64 {
	return geometry.Distance3D(s.WristPosition, s.IndexBasePosition)
}

// extensionDistance returns the distance IsExtended expects for finger.
func extensionDistance(s *HandSample, finger Finger) float64 {
	if finger == FingerThumb {
		return geometry.Distance3D(s.PinkyBasePosition, s.ThumbTipPosition)
	}
	return geometry.Distance3D(s.WristPosition, s.Tip(finger))
}

// isTouching reports whether two tips at the given distance touch. Coincident
// points never touch, so a fingertip never touches itself.
func isTouching(distance float64) bool {
	return distance > 0 && distance <= TouchDistance
}

// Touches returns the fingertips within TouchDistance of tip.
func Touches(tip geometry.Vec3, s *HandSample) FingerSet {
	var set FingerSet
	for _, candidate := range touchCandidates {
		if isTouching(geometry.Distance3D(tip, s.Tip(candidate))) {
			set = set.Add(candidate)
		}
	}
	return set
}

// ExtractFingerState computes extension and touches for all five fingers.
// Palm length is computed once and shared by every extension check.
func ExtractFingerState(s *HandSample) FingerState {
	var state FingerState
	palmLength := PalmLength(s)
	for _, f := range Fingers {
		state.Extended[f] = IsExtended(f, extensionDistance(s, f), palmLength)
		state.Touches[f] = Touches(s.Tip(f), s)
	}
	return state
}
