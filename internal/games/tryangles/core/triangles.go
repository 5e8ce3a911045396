package core

import (
	"slices"
	"strconv"
	"strings"
)

// Triangle is a closed path of unit edges that turns exactly three times.
// Edges are oriented so that each edge starts where the previous one ended
// and the last edge ends where the first one starts.
type Triangle struct {
	Edges []Segment
}

// Sides merges collinear runs of edges into the three straight sides of the
// triangle, each oriented along the path.
func (t Triangle) Sides() []Segment {
	n := len(t.Edges)
	if n == 0 {
		return nil
	}

	// Start at a corner so that no side wraps around the end of the path.
	start := 0
	for i := 0; i < n; i++ {
		prev := t.Edges[(i+n-1)%n]
		if !collinearTurn(prev, t.Edges[i]) {
			start = i
			break
		}
	}

	var sides []Segment
	side := t.Edges[start]
	for k := 1; k < n; k++ {
		e := t.Edges[(start+k)%n]
		if collinearTurn(side, e) {
			side.B = e.B
			continue
		}
		sides = append(sides, side)
		side = e
	}
	return append(sides, side)
}

// Corners returns the three vertices of the triangle.
func (t Triangle) Corners() []Point {
	sides := t.Sides()
	corners := make([]Point, 0, len(sides))
	for _, s := range sides {
		corners = append(corners, s.A)
	}
	return corners
}

// Has reports whether the unit edge e (in either orientation) is part of the
// triangle.
func (t Triangle) Has(e Segment) bool {
	for _, edge := range t.Edges {
		if edge.Equal(e) {
			return true
		}
	}
	return false
}

// key identifies the triangle independently of where the path starts and in
// which direction it runs.
func (t Triangle) key() string {
	edges := make([]Segment, len(t.Edges))
	for i, e := range t.Edges {
		edges[i] = e.Canonical()
	}
	slices.SortFunc(edges, compareSegments)

	var sb strings.Builder
	for _, e := range edges {
		for _, v := range [...]int{e.A.X, e.A.Y, e.B.X, e.B.Y} {
			sb.WriteString(strconv.Itoa(v))
			sb.WriteByte(',')
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

func compareSegments(a, b Segment) int {
	switch {
	case a.A != b.A:
		if a.A.Less(b.A) {
			return -1
		}
		return 1
	case a.B != b.B:
		if a.B.Less(b.B) {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// finder performs the backtracking triangle search over an owned edge buffer.
// The first seedCount entries of pool are the edges of a hypothetical segment;
// when seeded, every path must start with one of them.
type finder struct {
	pool      []Segment
	seedCount int
	seeded    bool
	used      []bool
	cur       []Segment
	found     []Triangle
	firstOnly bool
}

func newFinder(edges []Segment, hint *Segment) *finder {
	f := &finder{}
	seen := make(map[Segment]struct{}, len(edges))
	add := func(e Segment) {
		k := e.Canonical()
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		f.pool = append(f.pool, e)
	}

	if hint != nil {
		f.seeded = true
		for _, e := range UnitEdges(*hint) {
			add(e)
		}
		f.seedCount = len(f.pool)
	}
	for _, e := range edges {
		add(e)
	}
	f.used = make([]bool, len(f.pool))
	return f
}

// search extends the current path. vertices counts the non-collinear turns
// taken so far and last is the most recently appended edge.
func (f *finder) search(vertices int, last Segment) {
	if f.firstOnly && len(f.found) > 0 {
		return
	}

	if len(f.cur) > 2 && f.cur[0].A == last.B {
		v := vertices
		if !collinearTurn(last, f.cur[0]) {
			v++
		}
		if v == 3 {
			f.found = append(f.found, Triangle{Edges: slices.Clone(f.cur)})
			return
		}
	}

	if vertices == 4 {
		return
	}

	limit := len(f.pool)
	if len(f.cur) == 0 && f.seeded {
		limit = f.seedCount
	}

	for i := 0; i < limit; i++ {
		if f.used[i] {
			continue
		}
		edge := f.pool[i]
		collinear := true
		if len(f.cur) > 0 {
			var ok bool
			if edge, ok = joinEnd(edge, last); !ok {
				continue
			}
			collinear = collinearTurn(last, edge)
		}

		next := vertices
		if !collinear {
			next++
		}

		f.used[i] = true
		f.cur = append(f.cur, edge)
		f.search(next, edge)
		f.cur = f.cur[:len(f.cur)-1]
		f.used[i] = false
	}
}

// joinEnd orients e so that it continues from the end of last.
func joinEnd(e, last Segment) (Segment, bool) {
	switch last.B {
	case e.A:
		return e, true
	case e.B:
		return e.Reverse(), true
	}
	return Segment{}, false
}

// FindTriangles returns every distinct triangle formed by the given unit
// edges. When hint is non-nil, the hint's own unit edges are added to the
// pool and only triangles that use at least one of them are reported, which
// answers "would playing hint complete a triangle?" without touching any
// board state.
func FindTriangles(edges []Segment, hint *Segment) []Triangle {
	f := newFinder(edges, hint)
	f.search(0, Segment{})
	return dedupe(f.found)
}

// CompletesTriangle reports whether the hypothetical segment would close at
// least one triangle together with edges. It stops at the first hit.
func CompletesTriangle(edges []Segment, hint Segment) bool {
	f := newFinder(edges, &hint)
	f.firstOnly = true
	f.search(0, Segment{})
	return len(f.found) > 0
}

func dedupe(found []Triangle) []Triangle {
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(found))
	out := make([]Triangle, 0, len(found))
	for _, t := range found {
		k := t.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
