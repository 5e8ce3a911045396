package core

// Cross returns the z component of the cross product of two vectors.
func Cross(a, b Point) int {
	return a.X*b.Y - a.Y*b.X
}

// Orientation returns the sign of (b-a)x(c-a): 1 for a counter-clockwise turn,
// -1 for clockwise and 0 when the three points are collinear.
func Orientation(a, b, c Point) int {
	v := Cross(b.Sub(a), c.Sub(a))
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Parallel reports whether two segments have the same gradient.
func Parallel(s1, s2 Segment) bool {
	return Cross(s1.B.Sub(s1.A), s2.B.Sub(s2.A)) == 0
}

// Intersects reports whether two segments conflict on the board.
//
// Segments conflict when they are identical, when they cross at a point
// strictly inside both of them, or when they are collinear and an endpoint of
// one lies within the other (overlap, containment or end-to-end contact).
// Non-collinear segments that merely share an endpoint, or where an endpoint
// of one touches the interior of the other, do not conflict.
func Intersects(s1, s2 Segment) bool {
	if s1.Equal(s2) {
		return true
	}

	r := s1.B.Sub(s1.A)
	s := s2.B.Sub(s2.A)
	qp := s2.A.Sub(s1.A)

	if d := Cross(r, s); d != 0 {
		// s1.A + t*r == s2.A + u*s, t = tn/d, u = un/d
		tn := Cross(qp, s)
		un := Cross(qp, r)
		if d < 0 {
			d, tn, un = -d, -tn, -un
		}
		if tn > 0 && tn < d && un > 0 && un < d {
			return true
		}
		return false
	}

	return onSegment(s1.A, s2) || onSegment(s1.B, s2) ||
		onSegment(s2.A, s1) || onSegment(s2.B, s1)
}

// onSegment reports whether p lies on s, endpoints included.
func onSegment(p Point, s Segment) bool {
	if Orientation(s.A, s.B, p) != 0 {
		return false
	}
	return between(p.X, s.A.X, s.B.X) && between(p.Y, s.A.Y, s.B.Y)
}

// between is an inclusive range test accepting either ordering of lo and hi.
func between(v, lo, hi int) bool {
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// collinearTurn reports whether continuing from prev into next keeps going in
// the same straight line.
func collinearTurn(prev, next Segment) bool {
	return Cross(prev.B.Sub(prev.A), next.B.Sub(next.A)) == 0
}
