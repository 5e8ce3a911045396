package core

// GCD returns the greatest common divisor of two non-negative integers.
// GCD(0, n) is n.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GridPoints returns every lattice point the segment passes through, in order,
// starting from the lexicographically smaller endpoint. The result is the same
// for a segment and its reverse.
//
// A zero-length segment yields its single point.
func GridPoints(s Segment) []Point {
	c := s.Canonical()
	dx, dy := c.Delta()
	steps := GCD(abs(dx), abs(dy))
	if steps == 0 {
		return []Point{c.A}
	}
	dx /= steps
	dy /= steps

	points := make([]Point, 0, steps+1)
	p := c.A
	for i := 0; i <= steps; i++ {
		points = append(points, p)
		p = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return points
}

// UnitEdges splits a segment into its lattice-adjacent pieces, oriented along
// the walk produced by GridPoints.
func UnitEdges(s Segment) []Segment {
	points := GridPoints(s)
	if len(points) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		edges = append(edges, Segment{A: points[i-1], B: points[i]})
	}
	return edges
}

// Decompose returns the unit edges of all given segments, in order.
func Decompose(segments []Segment) []Segment {
	var edges []Segment
	for _, s := range segments {
		edges = append(edges, UnitEdges(s)...)
	}
	return edges
}
