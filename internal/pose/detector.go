package pose

import "fmt"

// ExtractFeatures classifies the palm, thumb and fingers directions and
// computes per-finger extension and touches.
//
// Geometry errors are wrapped but otherwise passed through unchanged; use
// errors.Is(err, geometry.ErrDegenerateVector) to detect a malformed sample.
func ExtractFeatures(s *HandSample) (Features, error) {
	fingers, err := ClassifyDirection(s.FingersDirection, s.HeadDirection, s.IsLeftHand)
	if err != nil {
		return Features{}, fmt.Errorf("fingers direction: %w", err)
	}
	thumb, err := ClassifyDirection(s.ThumbDirection, s.HeadDirection, s.IsLeftHand)
	if err != nil {
		return Features{}, fmt.Errorf("thumb direction: %w", err)
	}
	palm, err := ClassifyDirection(s.PalmDirection, s.HeadDirection, s.IsLeftHand)
	if err != nil {
		return Features{}, fmt.Errorf("palm direction: %w", err)
	}

	return Features{
		Fingers:     fingers,
		Thumb:       thumb,
		Palm:        palm,
		PalmLength:  PalmLength(s),
		FingerState: ExtractFingerState(s),
	}, nil
}

// Detect returns the first definition in defs that the sample satisfies.
// It returns nil, nil when nothing matches; an error means the sample itself
// could not be classified and the frame should be skipped. An empty defs
// list matches nothing without inspecting the sample.
func Detect(s *HandSample, defs []Definition) (*Definition, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	features, err := ExtractFeatures(s)
	if err != nil {
		return nil, err
	}
	return Match(features, defs), nil
}
