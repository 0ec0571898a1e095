// Package geometry provides the vector primitives used by hand pose detection.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateVector is returned when a direction has zero magnitude.
var ErrDegenerateVector = errors.New("degenerate vector")

// Vec3 is a point or direction in the shared tracking space.
// Units are meters; X points right, Y up and Z forward.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Up is the world-up direction.
var Up = Vec3{X: 0, Y: 1, Z: 0}

// Down is the world-down direction.
var Down = Vec3{X: 0, Y: -1, Z: 0}

func (v Vec3) vec() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromVec(v r3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return fromVec(r3.Add(v.vec(), o.vec()))
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return fromVec(r3.Sub(v.vec(), o.vec()))
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return fromVec(r3.Cross(v.vec(), o.vec()))
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return r3.Norm(v.vec())
}

// Horizontal returns v with its vertical component removed.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Y: 0, Z: v.Z}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// DegenerateVectorError reports a zero-magnitude direction passed to an
// angular computation.
type DegenerateVectorError struct {
	Op     string
	Vector Vec3
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("%s: degenerate vector (%g, %g, %g)", e.Op, e.Vector.X, e.Vector.Y, e.Vector.Z)
}

// Is lets errors.Is match ErrDegenerateVector.
func (e *DegenerateVectorError) Is(target error) bool {
	return target == ErrDegenerateVector
}

// Distance3D returns the Euclidean distance between two points.
func Distance3D(a, b Vec3) float64 {
	return b.Sub(a).Norm()
}

// AngleBetweenDirections3D returns the angle between two directions in degrees.
// Both inputs are reduced to unit length first, so the result depends only on
// direction for any finite, non-zero magnitude. The cosine is clamped to
// [-1, 1]. A zero-magnitude (or non-finite) input returns a
// *DegenerateVectorError.
func AngleBetweenDirections3D(d1, d2 Vec3) (float64, error) {
	u1, ok := unit(d1)
	if !ok {
		return 0, &DegenerateVectorError{Op: "angle", Vector: d1}
	}
	u2, ok := unit(d2)
	if !ok {
		return 0, &DegenerateVectorError{Op: "angle", Vector: d2}
	}

	cos := r3.Dot(u1, u2)
	if math.IsNaN(cos) {
		return 0, &DegenerateVectorError{Op: "angle", Vector: d1}
	}
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, nil
}

// unit returns v scaled to length one. v is first divided by its largest
// absolute component so neither tiny nor huge inputs underflow or overflow.
func unit(v Vec3) (r3.Vec, bool) {
	if !v.IsFinite() {
		return r3.Vec{}, false
	}
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 {
		return r3.Vec{}, false
	}
	return r3.Unit(r3.Vec{X: v.X / m, Y: v.Y / m, Z: v.Z / m}), true
}
