package pose

import (
	"fmt"

	"github.com/ayusman/mudra/internal/geometry"
)

// ClassifyDirection maps a direction to the closest discrete Direction as seen
// from a viewer looking along head. Head tilt is ignored: only the horizontal
// part of head is used for forward/back and inwards/outwards.
//
// Ties are broken by the order of Directions. A zero direction, or a head
// direction with no horizontal component, returns geometry.ErrDegenerateVector.
func ClassifyDirection(direction, head geometry.Vec3, isLeftHand bool) (Direction, error) {
	head = head.Horizontal()

	inwards, outwards := leftOf(direction), rightOf(direction)
	if isLeftHand {
		inwards, outwards = outwards, inwards
	}

	up, err := geometry.AngleBetweenDirections3D(geometry.Up, direction)
	if err != nil {
		return 0, fmt.Errorf("classify up: %w", err)
	}
	down, err := geometry.AngleBetweenDirections3D(geometry.Down, direction)
	if err != nil {
		return 0, fmt.Errorf("classify down: %w", err)
	}
	forward, err := geometry.AngleBetweenDirections3D(head, direction)
	if err != nil {
		return 0, fmt.Errorf("classify forward: %w", err)
	}
	in, err := geometry.AngleBetweenDirections3D(head, inwards)
	if err != nil {
		return 0, fmt.Errorf("classify inwards: %w", err)
	}
	out, err := geometry.AngleBetweenDirections3D(head, outwards)
	if err != nil {
		return 0, fmt.Errorf("classify outwards: %w", err)
	}

	// Indexed by Direction; the order matches Directions.
	angles := [...]float64{
		DirectionUp:       up,
		DirectionDown:     down,
		DirectionForward:  forward,
		DirectionBack:     180 - forward,
		DirectionInwards:  in,
		DirectionOutwards: out,
	}

	best := Directions[0]
	for _, d := range Directions[1:] {
		if angles[d] < angles[best] {
			best = d
		}
	}
	return best, nil
}

// rightOf rotates d 90° about the vertical axis.
func rightOf(d geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{X: -d.Z, Y: d.Y, Z: d.X}
}

// leftOf rotates d 90° about the vertical axis, opposite to rightOf.
func leftOf(d geometry.Vec3) geometry.Vec3 {
	return geometry.Vec3{X: d.Z, Y: d.Y, Z: -d.X}
}
