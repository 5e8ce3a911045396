package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalAll(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = s.Canonical()
	}
	return out
}

func TestFindTrianglesUnitTriangle(t *testing.T) {
	moves := []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 0, 1), Seg(0, 1, 0, 0)}

	triangles := FindTriangles(Decompose(moves), nil)
	require.Len(t, triangles, 1)

	tri := triangles[0]
	assert.ElementsMatch(t, canonicalAll(moves), canonicalAll(tri.Edges))
	assert.ElementsMatch(t, canonicalAll(moves), canonicalAll(tri.Sides()))
	assert.ElementsMatch(t, []Point{P(0, 0), P(1, 0), P(0, 1)}, tri.Corners())
	for _, m := range moves {
		assert.True(t, tri.Has(m.Reverse()))
	}
}

func TestFindTrianglesPathIsClosed(t *testing.T) {
	moves := []Segment{Seg(0, 0, 1, 0), Seg(0, 1, 1, 0), Seg(0, 0, 0, 1)}

	triangles := FindTriangles(Decompose(moves), nil)
	require.Len(t, triangles, 1)

	edges := triangles[0].Edges
	for i := range edges {
		next := edges[(i+1)%len(edges)]
		assert.Equal(t, edges[i].B, next.A, "edge %d does not join edge %d", i, (i+1)%len(edges))
	}
}

func TestFindTrianglesLongSides(t *testing.T) {
	moves := []Segment{Seg(0, 0, 2, 0), Seg(2, 0, 0, 2), Seg(0, 2, 0, 0)}

	triangles := FindTriangles(Decompose(moves), nil)
	require.Len(t, triangles, 1)

	tri := triangles[0]
	assert.Len(t, tri.Edges, 6)
	assert.ElementsMatch(t, canonicalAll(moves), canonicalAll(tri.Sides()))
	assert.ElementsMatch(t, []Point{P(0, 0), P(2, 0), P(0, 2)}, tri.Corners())
}

func TestFindTrianglesNone(t *testing.T) {
	tests := []struct {
		name  string
		moves []Segment
	}{
		{"empty", nil},
		{"open path", []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 1, 1)}},
		{"square", []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 1, 1), Seg(1, 1, 0, 1), Seg(0, 1, 0, 0)}},
		{"star", []Segment{Seg(1, 1, 0, 0), Seg(1, 1, 2, 0), Seg(1, 1, 2, 2), Seg(1, 1, 0, 2)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, FindTriangles(Decompose(tc.moves), nil))
		})
	}
}

func TestFindTrianglesSquareWithDiagonal(t *testing.T) {
	moves := []Segment{
		Seg(0, 0, 1, 0), Seg(1, 0, 1, 1), Seg(1, 1, 0, 1), Seg(0, 1, 0, 0),
		Seg(0, 0, 1, 1),
	}

	triangles := FindTriangles(Decompose(moves), nil)
	require.Len(t, triangles, 2)

	var corners [][]Point
	for _, tri := range triangles {
		corners = append(corners, tri.Corners())
	}
	assert.ElementsMatch(t, []Point{P(0, 0), P(1, 0), P(1, 1)}, findCorners(corners, P(1, 0)))
	assert.ElementsMatch(t, []Point{P(0, 0), P(1, 1), P(0, 1)}, findCorners(corners, P(0, 1)))
}

func findCorners(all [][]Point, want Point) []Point {
	for _, c := range all {
		for _, p := range c {
			if p == want {
				return c
			}
		}
	}
	return nil
}

func TestFindTrianglesWithHint(t *testing.T) {
	edges := Decompose([]Segment{Seg(0, 0, 1, 0), Seg(1, 0, 0, 1)})

	closing := Seg(0, 1, 0, 0)
	triangles := FindTriangles(edges, &closing)
	require.Len(t, triangles, 1)
	assert.True(t, triangles[0].Has(closing))
	assert.True(t, CompletesTriangle(edges, closing))

	away := Seg(2, 2, 3, 3)
	assert.Empty(t, FindTriangles(edges, &away))
	assert.False(t, CompletesTriangle(edges, away))
}

func TestFindTrianglesHintLongSide(t *testing.T) {
	edges := Decompose([]Segment{Seg(0, 0, 2, 0), Seg(2, 0, 0, 2)})

	closing := Seg(0, 2, 0, 0)
	assert.True(t, CompletesTriangle(edges, closing))
	assert.Len(t, FindTriangles(edges, &closing), 1)
}

func TestFindTrianglesHintIgnoresExisting(t *testing.T) {
	edges := Decompose([]Segment{Seg(0, 0, 1, 0), Seg(1, 0, 0, 1), Seg(0, 1, 0, 0)})
	require.Len(t, FindTriangles(edges, nil), 1)

	away := Seg(3, 3, 4, 3)
	assert.Empty(t, FindTriangles(edges, &away))
}

func TestTriangleSidesStartMidSide(t *testing.T) {
	// Path starting in the middle of the bottom side.
	tri := Triangle{Edges: []Segment{
		Seg(1, 0, 2, 0),
		Seg(2, 0, 1, 1),
		Seg(1, 1, 0, 2),
		Seg(0, 2, 0, 1),
		Seg(0, 1, 0, 0),
		Seg(0, 0, 1, 0),
	}}

	sides := tri.Sides()
	require.Len(t, sides, 3)
	assert.ElementsMatch(t,
		[]Segment{Seg(0, 0, 2, 0), Seg(0, 2, 2, 0), Seg(0, 0, 0, 2)},
		canonicalAll(sides))
}
