package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrientation(t *testing.T) {
	assert.Equal(t, 1, Orientation(P(0, 0), P(1, 0), P(0, 1)))
	assert.Equal(t, -1, Orientation(P(0, 0), P(0, 1), P(1, 0)))
	assert.Equal(t, 0, Orientation(P(0, 0), P(1, 1), P(3, 3)))
}

func TestBetween(t *testing.T) {
	tests := []struct {
		v, lo, hi int
		expected  bool
	}{
		{1, 0, 2, true},
		{1, 2, 0, true},
		{0, 0, 2, true},
		{2, 2, 0, true},
		{3, 0, 2, false},
		{-1, 2, 0, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, between(tc.v, tc.lo, tc.hi), "between(%d, %d, %d)", tc.v, tc.lo, tc.hi)
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Segment
		expected bool
	}{
		{"identical", Seg(0, 0, 2, 2), Seg(0, 0, 2, 2), true},
		{"reversed", Seg(0, 0, 2, 2), Seg(2, 2, 0, 0), true},
		{"proper crossing", Seg(0, 0, 2, 2), Seg(0, 2, 2, 0), true},
		{"crossing off lattice", Seg(0, 0, 3, 1), Seg(1, 1, 2, 0), true},
		{"crossing at quarter", Seg(0, 0, 2, 1), Seg(1, 0, 1, 2), true},
		{"shared endpoint", Seg(0, 0, 1, 0), Seg(1, 0, 1, 1), false},
		{"t-junction", Seg(0, 0, 2, 0), Seg(1, 0, 1, 1), false},
		{"collinear overlap", Seg(0, 0, 2, 0), Seg(1, 0, 3, 0), true},
		{"collinear end to end", Seg(0, 0, 1, 0), Seg(1, 0, 2, 0), true},
		{"collinear contained", Seg(0, 0, 3, 0), Seg(1, 0, 2, 0), true},
		{"collinear diagonal touching", Seg(0, 0, 1, 1), Seg(1, 1, 3, 3), true},
		{"collinear apart", Seg(0, 0, 1, 0), Seg(2, 0, 3, 0), false},
		{"parallel", Seg(0, 0, 2, 0), Seg(0, 1, 2, 1), false},
		{"parallel steep", Seg(0, 0, 1, 2), Seg(1, 0, 2, 2), false},
		{"lines cross outside", Seg(0, 0, 1, 0), Seg(2, 1, 3, 2), false},
		{"disjoint", Seg(0, 0, 1, 1), Seg(3, 0, 4, 2), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Intersects(tc.a, tc.b))
			// The predicate must not depend on argument order or orientation.
			assert.Equal(t, tc.expected, Intersects(tc.b, tc.a))
			assert.Equal(t, tc.expected, Intersects(tc.a.Reverse(), tc.b))
			assert.Equal(t, tc.expected, Intersects(tc.a, tc.b.Reverse()))
		})
	}
}

func TestIntersectsSymmetricOnSmallBoard(t *testing.T) {
	var all []Segment
	Candidates(3, 3, func(s Segment) bool {
		all = append(all, s)
		return true
	})

	for _, a := range all {
		assert.True(t, Intersects(a, a), "%s with itself", a)
		assert.True(t, Intersects(a, a.Reverse()), "%s with its reverse", a)
		for _, b := range all {
			if Intersects(a, b) != Intersects(b, a) {
				t.Errorf("Intersects(%s, %s) is not symmetric", a, b)
			}
		}
	}
}

func TestSegmentCanonical(t *testing.T) {
	s := Seg(3, 1, 0, 2)
	c := s.Canonical()

	assert.Equal(t, P(0, 2), c.A)
	assert.Equal(t, P(3, 1), c.B)
	assert.True(t, s.Equal(s.Reverse()))
	assert.False(t, s.Equal(Seg(3, 1, 0, 1)))
}
