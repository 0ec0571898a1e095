package tracking

import "github.com/ayusman/mudra/internal/geometry"

// DefaultHead is a standing viewer looking straight ahead along +Z.
var DefaultHead = Head{
	Position:  geometry.Vec3{Y: 1.6},
	Direction: geometry.Vec3{Z: 1},
}

var mockWrist = geometry.Vec3{X: 0.2, Y: 1.1, Z: 0.4}

// at offsets from the mock wrist.
func at(x, y, z float64) geometry.Vec3 {
	return mockWrist.Add(geometry.Vec3{X: x, Y: y, Z: z})
}

// ThumbsUpLandmarks returns a right hand with the thumb extended upward, the
// other fingers curled and the knuckles pointing away from the viewer.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = mockWrist

	// Thumb pointing up
	landmarks.Points[ThumbCMC] = at(0, 0.015, 0.02)
	landmarks.Points[ThumbMCP] = at(0, 0.03, 0.04)
	landmarks.Points[ThumbIP] = at(0, 0.06, 0.045)
	landmarks.Points[ThumbTip] = at(0, 0.09, 0.05)

	// Fingers curled back towards the palm
	landmarks.Points[IndexMCP] = at(0, 0, 0.08)
	landmarks.Points[IndexPIP] = at(0.01, 0, 0.1)
	landmarks.Points[IndexDIP] = at(0.025, 0, 0.08)
	landmarks.Points[IndexTip] = at(0.02, 0, 0.05)

	landmarks.Points[MiddleMCP] = at(0, -0.02, 0.08)
	landmarks.Points[MiddlePIP] = at(0.01, -0.035, 0.1)
	landmarks.Points[MiddleDIP] = at(0.025, -0.035, 0.08)
	landmarks.Points[MiddleTip] = at(0.02, -0.035, 0.05)

	landmarks.Points[RingMCP] = at(0, -0.04, 0.075)
	landmarks.Points[RingPIP] = at(0.01, -0.07, 0.09)
	landmarks.Points[RingDIP] = at(0.025, -0.07, 0.075)
	landmarks.Points[RingTip] = at(0.02, -0.07, 0.045)

	landmarks.Points[PinkyMCP] = at(0, -0.06, 0.065)
	landmarks.Points[PinkyPIP] = at(0.01, -0.1, 0.075)
	landmarks.Points[PinkyDIP] = at(0.025, -0.1, 0.065)
	landmarks.Points[PinkyTip] = at(0.02, -0.1, 0.04)

	return landmarks
}

// OpenPalmLandmarks returns a right hand with all fingers spread upward and
// the palm facing away from the viewer.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = mockWrist

	// Thumb out to the side
	landmarks.Points[ThumbCMC] = at(-0.02, 0.015, 0)
	landmarks.Points[ThumbMCP] = at(-0.04, 0.03, 0)
	landmarks.Points[ThumbIP] = at(-0.065, 0.04, 0)
	landmarks.Points[ThumbTip] = at(-0.09, 0.05, 0)

	landmarks.Points[IndexMCP] = at(-0.02, 0.08, 0)
	landmarks.Points[IndexPIP] = at(-0.025, 0.11, 0)
	landmarks.Points[IndexDIP] = at(-0.03, 0.14, 0)
	landmarks.Points[IndexTip] = at(-0.035, 0.17, 0)

	landmarks.Points[MiddleMCP] = at(0, 0.085, 0)
	landmarks.Points[MiddlePIP] = at(0, 0.12, 0)
	landmarks.Points[MiddleDIP] = at(0, 0.155, 0)
	landmarks.Points[MiddleTip] = at(0, 0.185, 0)

	landmarks.Points[RingMCP] = at(0.018, 0.08, 0)
	landmarks.Points[RingPIP] = at(0.024, 0.113, 0)
	landmarks.Points[RingDIP] = at(0.03, 0.145, 0)
	landmarks.Points[RingTip] = at(0.035, 0.175, 0)

	landmarks.Points[PinkyMCP] = at(0.035, 0.07, 0)
	landmarks.Points[PinkyPIP] = at(0.047, 0.097, 0)
	landmarks.Points[PinkyDIP] = at(0.059, 0.124, 0)
	landmarks.Points[PinkyTip] = at(0.07, 0.15, 0)

	return landmarks
}

// MirrorLandmarks reflects h across the viewer's vertical plane and swaps
// its handedness.
func MirrorLandmarks(h HandLandmarks) HandLandmarks {
	out := h
	for i, p := range h.Points {
		out.Points[i] = geometry.Vec3{X: -p.X, Y: p.Y, Z: p.Z}
	}
	switch h.Handedness {
	case "Right":
		out.Handedness = "Left"
	case "Left":
		out.Handedness = "Right"
	}
	return out
}
