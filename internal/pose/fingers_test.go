package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/mudra/internal/geometry"
)

func TestIsExtended(t *testing.T) {
	const palm = 0.08

	tests := []struct {
		name   string
		finger Finger
		dist   float64
		want   bool
	}{
		{"thumb above threshold", FingerThumb, 0.08, true},
		{"thumb at threshold", FingerThumb, palm * ThumbExtensionRatio, false},
		{"thumb below threshold", FingerThumb, 0.05, false},
		{"index above threshold", FingerIndex, 0.13, true},
		{"index at threshold", FingerIndex, palm * FingerExtensionRatio, false},
		{"pinky below threshold", FingerPinky, 0.1, false},
		// 0.1 extends a thumb but not any other finger.
		{"thumb uses its own ratio", FingerThumb, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExtended(tt.finger, tt.dist, palm))
		})
	}
}

func TestIsExtended_ScaleInvariant(t *testing.T) {
	for _, f := range Fingers {
		for _, scale := range []float64{0.5, 2, 10} {
			assert.Equal(t,
				IsExtended(f, 0.11, 0.08),
				IsExtended(f, 0.11*scale, 0.08*scale),
				"finger %s scale %g", f, scale)
		}
	}
}

func TestIsTouching(t *testing.T) {
	assert.False(t, isTouching(0), "coincident points")
	assert.True(t, isTouching(0.0001))
	assert.True(t, isTouching(0.03), "boundary is inclusive")
	assert.False(t, isTouching(0.0300001))
	assert.False(t, isTouching(100))
}

func TestTouches(t *testing.T) {
	s := OkaySample()

	t.Run("thumb and index touch each other", func(t *testing.T) {
		assert.True(t, Touches(s.ThumbTipPosition, &s).Only(FingerIndex))
		assert.True(t, Touches(s.IndexTipPosition, &s).Only(FingerThumb))
	})

	t.Run("a tip never touches itself", func(t *testing.T) {
		for _, f := range Fingers {
			assert.False(t, Touches(s.Tip(f), &s).Has(f), "finger %s", f)
		}
	})

	t.Run("separated fingers touch nothing", func(t *testing.T) {
		assert.True(t, Touches(s.MiddleTipPosition, &s).Empty())
		assert.True(t, Touches(s.PinkyTipPosition, &s).Empty())
	})

	t.Run("none sentinel is unreachable", func(t *testing.T) {
		none := s.Tip(FingerNone)
		assert.Equal(t, s.WristPosition.Add(geometry.Vec3{X: 100}), none)
		for _, f := range Fingers {
			assert.Greater(t, geometry.Distance3D(s.Tip(f), none), TouchDistance)
		}
		assert.True(t, Touches(none, &s).Empty())
	})

	t.Run("several touches at once", func(t *testing.T) {
		bunched := s
		bunched.MiddleTipPosition = s.IndexTipPosition.Add(geometry.Vec3{X: 0.01})
		got := Touches(bunched.IndexTipPosition, &bunched)
		assert.Equal(t, []Finger{FingerThumb, FingerMiddle}, got.Members())
	})
}

func TestExtractFingerState(t *testing.T) {
	tests := []struct {
		name     string
		sample   HandSample
		extended [NumFingers]bool
		touches  [NumFingers]FingerSet
	}{
		{
			name:     "thumbs up",
			sample:   ThumbsUpSample(),
			extended: [NumFingers]bool{true, false, false, false, false},
		},
		{
			name:     "fist",
			sample:   FistSample(),
			extended: [NumFingers]bool{false, false, false, false, false},
			touches: [NumFingers]FingerSet{
				FingerThumb: FingerSet(0).Add(FingerIndex),
				FingerIndex: FingerSet(0).Add(FingerThumb),
			},
		},
		{
			name:     "okay",
			sample:   OkaySample(),
			extended: [NumFingers]bool{true, true, true, true, true},
			touches: [NumFingers]FingerSet{
				FingerThumb: FingerSet(0).Add(FingerIndex),
				FingerIndex: FingerSet(0).Add(FingerThumb),
			},
		},
		{
			name:     "open palm",
			sample:   OpenPalmSample(),
			extended: [NumFingers]bool{true, true, true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ExtractFingerState(&tt.sample)
			assert.Equal(t, tt.extended, state.Extended)
			assert.Equal(t, tt.touches, state.Touches)
		})
	}
}

func TestFingerSet(t *testing.T) {
	var s FingerSet
	assert.True(t, s.Empty())
	assert.False(t, s.Only(FingerThumb))

	s = s.Add(FingerNone)
	assert.True(t, s.Empty(), "none is never a member")

	s = s.Add(FingerRing)
	assert.True(t, s.Only(FingerRing))
	assert.False(t, s.Only(FingerNone))

	s = s.Add(FingerThumb)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Only(FingerRing))
	assert.Equal(t, "{thumb,ring}", s.String())
}
