package core

// Candidates calls fn for every unordered pair of distinct points on a
// width x height board, row by row. The second point always comes after the
// first in reading order, so each pair is visited once. Iteration stops when
// fn returns false.
func Candidates(width, height int, fn func(Segment) bool) {
	for y1 := 0; y1 < height; y1++ {
		for x1 := 0; x1 < width; x1++ {
			for y2 := y1; y2 < height; y2++ {
				x2 := 0
				if y2 == y1 {
					x2 = x1 + 1
				}
				for ; x2 < width; x2++ {
					if !fn(Seg(x1, y1, x2, y2)) {
						return
					}
				}
			}
		}
	}
}

// analyze looks for the first legal move that does not complete a triangle
// and records it as the hint.
func (b *Board) analyze() {
	b.safeMove = false
	b.hint = Segment{}
	b.hasHint = false

	Candidates(b.width, b.height, func(s Segment) bool {
		if !b.IsSafe(s) {
			return true
		}
		b.safeMove = true
		b.hint = s
		b.hasHint = true
		return false
	})
}

// IsSafe reports whether s is a legal move that completes no triangle.
func (b *Board) IsSafe(s Segment) bool {
	if b.Validate(s) != nil {
		return false
	}
	return !CompletesTriangle(b.edges, s)
}

// LegalMoves returns every line that could be played next.
func (b *Board) LegalMoves() []Segment {
	var moves []Segment
	Candidates(b.width, b.height, func(s Segment) bool {
		if b.Validate(s) == nil {
			moves = append(moves, s)
		}
		return true
	})
	return moves
}

// SafeMoves returns up to limit legal lines that complete no triangle, in
// candidate order. A limit of 0 or less returns all of them.
func (b *Board) SafeMoves(limit int) []Segment {
	var moves []Segment
	Candidates(b.width, b.height, func(s Segment) bool {
		if b.IsSafe(s) {
			moves = append(moves, s)
		}
		return limit <= 0 || len(moves) < limit
	})
	return moves
}
