package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, expected int
	}{
		{4, 2, 2},
		{2, 4, 2},
		{0, 5, 5},
		{5, 0, 5},
		{3, 2, 1},
		{12, 18, 6},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, GCD(tc.a, tc.b), "GCD(%d, %d)", tc.a, tc.b)
	}
}

func TestGridPoints(t *testing.T) {
	tests := []struct {
		name     string
		seg      Segment
		expected []Point
	}{
		{
			name:     "gcd two",
			seg:      Seg(0, 0, 4, 2),
			expected: []Point{P(0, 0), P(2, 1), P(4, 2)},
		},
		{
			name:     "gcd two reversed",
			seg:      Seg(4, 2, 0, 0),
			expected: []Point{P(0, 0), P(2, 1), P(4, 2)},
		},
		{
			name:     "vertical upward",
			seg:      Seg(1, 3, 1, 0),
			expected: []Point{P(1, 0), P(1, 1), P(1, 2), P(1, 3)},
		},
		{
			name:     "anti-diagonal",
			seg:      Seg(3, 0, 0, 3),
			expected: []Point{P(0, 3), P(1, 2), P(2, 1), P(3, 0)},
		},
		{
			name:     "coprime direction",
			seg:      Seg(0, 2, 3, 0),
			expected: []Point{P(0, 2), P(3, 0)},
		},
		{
			name:     "unit",
			seg:      Seg(1, 1, 2, 1),
			expected: []Point{P(1, 1), P(2, 1)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GridPoints(tc.seg))
		})
	}
}

func TestUnitEdges(t *testing.T) {
	edges := UnitEdges(Seg(0, 0, 4, 2))
	require.Len(t, edges, 2)
	assert.Equal(t, Seg(0, 0, 2, 1), edges[0])
	assert.Equal(t, Seg(2, 1, 4, 2), edges[1])

	assert.Equal(t, edges, UnitEdges(Seg(4, 2, 0, 0)))
	assert.Empty(t, UnitEdges(Seg(1, 1, 1, 1)))
}

func TestDecompose(t *testing.T) {
	edges := Decompose([]Segment{Seg(0, 0, 2, 0), Seg(0, 1, 1, 2)})
	assert.Equal(t, []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 2, 0), Seg(0, 1, 1, 2)}, edges)
}
