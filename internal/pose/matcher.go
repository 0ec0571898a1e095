package pose

// Features is everything the matcher needs from one sample.
type Features struct {
	Fingers    Direction
	Thumb      Direction
	Palm       Direction
	PalmLength float64
	FingerState
}

// Match returns the first definition whose every constraint holds, or nil.
// Definitions after the first match are not evaluated.
func Match(f Features, defs []Definition) *Definition {
	for i := range defs {
		if matches(f, &defs[i]) {
			return &defs[i]
		}
	}
	return nil
}

func matches(f Features, def *Definition) bool {
	if dc := def.Direction; dc != nil {
		if !matchesDirection(f.Palm, dc.Palm) ||
			!matchesDirection(f.Thumb, dc.Thumb) ||
			!matchesDirection(f.Fingers, dc.Fingers) {
			return false
		}
	}

	for _, finger := range Fingers {
		c := def.Effective(finger)
		if !matchesExtended(f.Extended[finger], c.Extended) {
			return false
		}
		if !matchesTouches(f.Touches[finger], c.Touches) {
			return false
		}
		if !matchesOnlyTouches(f.Touches[finger], c.OnlyTouches) {
			return false
		}
	}
	return true
}

func matchesDirection(current Direction, target *Direction) bool {
	return target == nil || *target == current
}

func matchesExtended(current bool, target *bool) bool {
	return target == nil || *target == current
}

// matchesTouches allows other touches besides target.
func matchesTouches(current FingerSet, target *Finger) bool {
	if target == nil {
		return true
	}
	if *target == FingerNone {
		return current.Empty()
	}
	return current.Has(*target)
}

// matchesOnlyTouches requires target to be the sole touch.
func matchesOnlyTouches(current FingerSet, target *Finger) bool {
	if target == nil {
		return true
	}
	if *target == FingerNone {
		return current.Empty()
	}
	return current.Only(*target)
}
