// Package pose classifies a single tracked hand sample against an ordered
// list of declarative pose definitions.
//
// Detection is a pure function of its inputs: nothing is cached between
// calls, so Detect may be called concurrently from any number of goroutines.
package pose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDefinition is returned when a pose definition cannot be used.
var ErrInvalidDefinition = errors.New("invalid pose definition")

// Direction is a discrete direction relative to the viewer and the hand.
//
// Inwards and Outwards depend on handedness: for a right hand Inwards points
// towards the body's left, for a left hand the mapping is mirrored.
type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionForward
	DirectionBack
	DirectionInwards
	DirectionOutwards
)

// Directions lists every direction in classification order. When two
// directions are equally close the one listed first wins.
var Directions = [...]Direction{
	DirectionUp,
	DirectionDown,
	DirectionForward,
	DirectionBack,
	DirectionInwards,
	DirectionOutwards,
}

var directionNames = [...]string{
	DirectionUp:       "up",
	DirectionDown:     "down",
	DirectionForward:  "forward",
	DirectionBack:     "back",
	DirectionInwards:  "inwards",
	DirectionOutwards: "outwards",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection parses a lowercase direction name.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("unknown direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(strings.ToLower(string(text)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Finger identifies a digit. FingerNone means "no finger": as a touch target
// it requires that the finger touches nothing.
type Finger uint8

const (
	FingerThumb Finger = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
	FingerNone
)

// NumFingers is the number of real fingers (FingerNone excluded).
const NumFingers = 5

// Fingers lists the five real fingers in a stable order.
var Fingers = [NumFingers]Finger{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky}

var fingerNames = [...]string{
	FingerThumb:  "thumb",
	FingerIndex:  "index",
	FingerMiddle: "middle",
	FingerRing:   "ring",
	FingerPinky:  "pinky",
	FingerNone:   "none",
}

func (f Finger) String() string {
	if int(f) < len(fingerNames) {
		return fingerNames[f]
	}
	return fmt.Sprintf("Finger(%d)", uint8(f))
}

// ParseFinger parses a lowercase finger name.
func ParseFinger(s string) (Finger, error) {
	for i, name := range fingerNames {
		if name == s {
			return Finger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown finger %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Finger) MarshalText() ([]byte, error) {
	if int(f) >= len(fingerNames) {
		return nil, fmt.Errorf("unknown finger %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Finger) UnmarshalText(text []byte) error {
	parsed, err := ParseFinger(strings.ToLower(string(text)))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FingerSet is a set of real fingers. FingerNone is never a member.
type FingerSet uint8

// Add returns s with f added. Adding FingerNone is a no-op.
func (s FingerSet) Add(f Finger) FingerSet {
	if f >= FingerNone {
		return s
	}
	return s | 1<<f
}

// Has reports whether f is in the set.
func (s FingerSet) Has(f Finger) bool {
	return f < FingerNone && s&(1<<f) != 0
}

// Len returns the number of fingers in the set.
func (s FingerSet) Len() int {
	n := 0
	for _, f := range Fingers {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Empty reports whether the set has no members.
func (s FingerSet) Empty() bool {
	return s == 0
}

// Only reports whether the set is exactly {f}.
func (s FingerSet) Only(f Finger) bool {
	return f < FingerNone && s == FingerSet(0).Add(f)
}

// Members returns the fingers in the set in thumb-to-pinky order.
func (s FingerSet) Members() []Finger {
	members := make([]Finger, 0, NumFingers)
	for _, f := range Fingers {
		if s.Has(f) {
			members = append(members, f)
		}
	}
	return members
}

func (s FingerSet) String() string {
	names := make([]string, 0, NumFingers)
	for _, f := range s.Members() {
		names = append(names, f.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// FingerConstraint constrains one finger. A nil field matches anything.
type FingerConstraint struct {
	// Extended requires the finger to be extended (true) or flexed (false).
	Extended *bool `json:"extended,omitempty"`
	// Touches requires the finger to touch the given fingertip, other touches
	// allowed. FingerNone requires no touches at all.
	Touches *Finger `json:"touches,omitempty"`
	// OnlyTouches requires the given fingertip to be the finger's only touch.
	// FingerNone requires no touches at all.
	OnlyTouches *Finger `json:"onlyTouches,omitempty"`
}

// DirectionConstraint constrains the classified hand directions.
type DirectionConstraint struct {
	// Palm is the direction the palm is facing.
	Palm *Direction `json:"palm,omitempty"`
	// Thumb is roughly the direction of the thumb with the fingers spread.
	Thumb *Direction `json:"thumb,omitempty"`
	// Fingers is the direction from the base of the hand to the knuckles.
	Fingers *Direction `json:"fingers,omitempty"`
}

// Definition is a named, declarative description of a hand pose.
type Definition struct {
	Name      string               `json:"name"`
	Direction *DirectionConstraint `json:"direction,omitempty"`
	// Fingers is a shorthand applied to all five fingers, thumb included.
	// A field set on an individual finger overrides the shorthand's field.
	Fingers *FingerConstraint `json:"fingers,omitempty"`
	Thumb   *FingerConstraint `json:"thumb,omitempty"`
	Index   *FingerConstraint `json:"indexFinger,omitempty"`
	Middle  *FingerConstraint `json:"middleFinger,omitempty"`
	Ring    *FingerConstraint `json:"ringFinger,omitempty"`
	Pinky   *FingerConstraint `json:"pinky,omitempty"`
}

// Finger returns the explicit constraint bundle for f, which may be nil.
func (d *Definition) Finger(f Finger) *FingerConstraint {
	switch f {
	case FingerThumb:
		return d.Thumb
	case FingerIndex:
		return d.Index
	case FingerMiddle:
		return d.Middle
	case FingerRing:
		return d.Ring
	case FingerPinky:
		return d.Pinky
	}
	return nil
}

// Effective returns the constraint for f after applying the Fingers shorthand.
func (d *Definition) Effective(f Finger) FingerConstraint {
	var c FingerConstraint
	if d.Fingers != nil {
		c = *d.Fingers
	}
	if own := d.Finger(f); own != nil {
		if own.Extended != nil {
			c.Extended = own.Extended
		}
		if own.Touches != nil {
			c.Touches = own.Touches
		}
		if own.OnlyTouches != nil {
			c.OnlyTouches = own.OnlyTouches
		}
	}
	return c
}

// Validate checks that the definition can be stored and matched.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if d.Direction != nil {
		for _, dir := range []*Direction{d.Direction.Palm, d.Direction.Thumb, d.Direction.Fingers} {
			if dir != nil && int(*dir) >= len(directionNames) {
				return fmt.Errorf("%w: %s: unknown direction %d", ErrInvalidDefinition, d.Name, uint8(*dir))
			}
		}
	}
	bundles := []*FingerConstraint{d.Fingers, d.Thumb, d.Index, d.Middle, d.Ring, d.Pinky}
	for _, c := range bundles {
		if c == nil {
			continue
		}
		for _, target := range []*Finger{c.Touches, c.OnlyTouches} {
			if target != nil && *target > FingerNone {
				return fmt.Errorf("%w: %s: unknown finger %d", ErrInvalidDefinition, d.Name, uint8(*target))
			}
		}
	}
	return nil
}

// Ptr returns a pointer to v. It keeps literal definitions short:
//
//	pose.Definition{Thumb: &pose.FingerConstraint{Extended: pose.Ptr(true)}}
func Ptr[T any](v T) *T {
	return &v
}
