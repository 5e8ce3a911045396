// Package core implements the Tryangles rule engine: lattice geometry, move
// validation, triangle detection and the safe-move search.
// It has no external dependencies so the rules stay pure and testable.
package core

// Board size limits.
const (
	MinWidth  = 2
	MaxWidth  = 26
	MinHeight = 2
	MaxHeight = 20
)

// Point is a lattice point on the board.
// X increases to the right (columns), Y increases downward (rows).
type Point struct {
	X int
	Y int
}

// P is a convenience constructor for Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// Less orders points lexicographically by X, then Y.
func (p Point) Less(other Point) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	return p.Y < other.Y
}

// Sub returns the vector from other to p.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Segment is a straight connection between two lattice points.
// A and B are kept in the order given; use Canonical or Equal when the
// orientation must not matter.
type Segment struct {
	A Point
	B Point
}

// Seg is a convenience constructor for Segment.
func Seg(x1, y1, x2, y2 int) Segment {
	return Segment{A: P(x1, y1), B: P(x2, y2)}
}

// NewSegment creates a segment from two points.
func NewSegment(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Reverse returns the segment with its endpoints swapped.
func (s Segment) Reverse() Segment {
	return Segment{A: s.B, B: s.A}
}

// Canonical returns the segment with its endpoints ordered lexicographically.
// Two segments are equal ignoring orientation iff their canonical forms match,
// which also makes the canonical form usable as a map key.
func (s Segment) Canonical() Segment {
	if s.B.Less(s.A) {
		return s.Reverse()
	}
	return s
}

// Equal reports whether two segments connect the same points.
func (s Segment) Equal(other Segment) bool {
	return s.Canonical() == other.Canonical()
}

// Delta returns the direction vector from A to B.
func (s Segment) Delta() (dx, dy int) {
	return s.B.X - s.A.X, s.B.Y - s.A.Y
}

// IsZero reports whether both endpoints coincide.
func (s Segment) IsZero() bool {
	return s.A == s.B
}
