package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/geometry"
)

func TestClassifyDirection(t *testing.T) {
	head := geometry.Vec3{Z: 1}

	tests := []struct {
		name      string
		direction geometry.Vec3
		left      bool
		want      Direction
	}{
		{"up", geometry.Vec3{Y: 1}, false, DirectionUp},
		{"down", geometry.Vec3{Y: -1}, false, DirectionDown},
		{"forward", geometry.Vec3{Z: 1}, false, DirectionForward},
		{"back", geometry.Vec3{Z: -1}, false, DirectionBack},
		{"right hand inwards points left", geometry.Vec3{X: -1}, false, DirectionInwards},
		{"right hand outwards points right", geometry.Vec3{X: 1}, false, DirectionOutwards},
		{"left hand inwards points right", geometry.Vec3{X: 1}, true, DirectionInwards},
		{"left hand outwards points left", geometry.Vec3{X: -1}, true, DirectionOutwards},
		{"mostly up", geometry.Vec3{X: 0.2, Y: 0.9, Z: 0.3}, false, DirectionUp},
		{"mostly forward and slightly down", geometry.Vec3{Y: -0.3, Z: 0.9}, false, DirectionForward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyDirection(tt.direction, head, tt.left)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDirection_IgnoresHeadPitch(t *testing.T) {
	level := geometry.Vec3{Z: 1}
	lookingDown := geometry.Vec3{Y: -0.7, Z: 0.3}

	for _, d := range []geometry.Vec3{{X: -1}, {X: 1}, {Z: 1}, {Z: -1}, {X: 0.4, Z: 0.6}} {
		want, err := ClassifyDirection(d, level, false)
		require.NoError(t, err)
		got, err := ClassifyDirection(d, lookingDown, false)
		require.NoError(t, err)
		assert.Equal(t, want, got, "direction %+v", d)
	}
}

func TestClassifyDirection_FollowsHeadYaw(t *testing.T) {
	// Viewer turned to face +X: the world +X axis is now forward.
	head := geometry.Vec3{X: 1}

	got, err := ClassifyDirection(geometry.Vec3{X: 1}, head, false)
	require.NoError(t, err)
	assert.Equal(t, DirectionForward, got)

	got, err = ClassifyDirection(geometry.Vec3{Z: 1}, head, false)
	require.NoError(t, err)
	assert.Equal(t, DirectionInwards, got)
}

func TestClassifyDirection_TieBreak(t *testing.T) {
	head := geometry.Vec3{Z: 1}

	tests := []struct {
		name      string
		direction geometry.Vec3
		want      Direction
	}{
		// 45° from both up and forward.
		{"up beats forward", geometry.Vec3{Y: 1, Z: 1}, DirectionUp},
		// 45° from both up and inwards.
		{"up beats inwards", geometry.Vec3{X: -1, Y: 1}, DirectionUp},
		// 45° from both forward and inwards.
		{"forward beats inwards", geometry.Vec3{X: -1, Z: 1}, DirectionForward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyDirection(tt.direction, head, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDirection_HandednessMirror(t *testing.T) {
	head := geometry.Vec3{X: 0.3, Z: 1}
	dirs := []geometry.Vec3{
		{X: -1},
		{X: 1, Y: 0.2},
		{X: 0.7, Z: -0.2},
		{X: -0.3, Y: -0.1, Z: 0.1},
	}
	mirror := func(v geometry.Vec3) geometry.Vec3 { return geometry.Vec3{X: -v.X, Y: v.Y, Z: v.Z} }

	for _, d := range dirs {
		right, err := ClassifyDirection(d, head, false)
		require.NoError(t, err)
		left, err := ClassifyDirection(mirror(d), mirror(head), true)
		require.NoError(t, err)
		assert.Equal(t, right, left, "direction %+v", d)
	}
}

func TestClassifyDirection_Degenerate(t *testing.T) {
	t.Run("zero direction", func(t *testing.T) {
		_, err := ClassifyDirection(geometry.Vec3{}, geometry.Vec3{Z: 1}, false)
		assert.ErrorIs(t, err, geometry.ErrDegenerateVector)
	})

	t.Run("head straight down", func(t *testing.T) {
		_, err := ClassifyDirection(geometry.Vec3{Y: 1}, geometry.Vec3{Y: -1}, false)
		assert.ErrorIs(t, err, geometry.ErrDegenerateVector)
	})
}

func TestClassifyDirection_ExtremeMagnitudes(t *testing.T) {
	for _, scale := range []float64{1e-200, 1e-160, 1e200} {
		d := geometry.Vec3{Z: scale}
		got, err := ClassifyDirection(d, d, false)
		require.NoError(t, err, "scale %g", scale)
		assert.Equal(t, DirectionForward, got, "scale %g", scale)

		got, err = ClassifyDirection(geometry.Vec3{Y: -scale}, d, true)
		require.NoError(t, err, "scale %g", scale)
		assert.Equal(t, DirectionDown, got, "scale %g", scale)
	}
}
