package core

import "slices"

// Board holds the state of a Tryangles game: the lines played so far, how
// often each lattice point is crossed, the triangles they form and whether a
// safe move is still available.
//
// A Board is not safe for concurrent use.
type Board struct {
	width  int
	height int

	moves     []Segment
	occupancy []int
	edges     []Segment // unit edges of moves, in play order
	triangles []Triangle

	safeMove bool
	hint     Segment
	hasHint  bool
}

// NewBoard creates an empty board of the given size.
func NewBoard(width, height int) (*Board, error) {
	b := &Board{}
	if err := b.Reset(width, height); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset clears the board and resizes it. On a bounds error the board is left
// unchanged.
func (b *Board) Reset(width, height int) error {
	if width < MinWidth || width > MaxWidth || height < MinHeight || height > MaxHeight {
		return boundsError(width, height)
	}

	b.width = width
	b.height = height
	b.moves = nil
	b.edges = nil
	b.occupancy = make([]int, width*height)
	b.triangles = nil
	b.safeMove = false
	b.hint = Segment{}
	b.hasHint = false

	b.refresh()
	return nil
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// InBounds reports whether p is a point of this board.
func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Validate checks whether s could be played next.
func (b *Board) Validate(s Segment) error {
	if s.IsZero() {
		return ErrDuplicatePoint
	}
	if !b.InBounds(s.A) || !b.InBounds(s.B) {
		return ErrOutOfBoard
	}
	for _, m := range b.moves {
		if Intersects(s, m) {
			return ErrIntersecting
		}
	}
	return nil
}

// AddMove plays a line from p1 to p2.
func (b *Board) AddMove(p1, p2 Point) error {
	s := NewSegment(p1, p2)
	if err := b.Validate(s); err != nil {
		return &MoveError{Move: s, Err: err}
	}

	b.moves = append(b.moves, s)
	b.edges = append(b.edges, UnitEdges(s)...)
	b.mark(s, 1)
	b.refresh()
	return nil
}

// UndoLastMove removes the most recent line.
func (b *Board) UndoLastMove() error {
	if len(b.moves) == 0 {
		return ErrNoMovesToUndo
	}

	s := b.moves[len(b.moves)-1]
	b.moves = b.moves[:len(b.moves)-1]
	b.edges = b.edges[:len(b.edges)-len(UnitEdges(s))]
	b.mark(s, -1)
	b.refresh()
	return nil
}

// mark adds delta to the occupancy of every lattice point on s.
func (b *Board) mark(s Segment, delta int) {
	for _, p := range GridPoints(s) {
		b.occupancy[p.Y*b.width+p.X] += delta
	}
}

// refresh recomputes the triangle set and, while no triangle exists, the
// safe-move flag and hint. Once a triangle has formed the previous flag and
// hint are kept as they were.
func (b *Board) refresh() {
	b.triangles = FindTriangles(b.edges, nil)
	if len(b.triangles) == 0 {
		b.analyze()
	}
}

// IsEmpty reports whether no line has been played.
func (b *Board) IsEmpty() bool {
	return len(b.moves) == 0
}

// HasTriangles reports whether the played lines form at least one triangle.
func (b *Board) HasTriangles() bool {
	return len(b.triangles) > 0
}

// SafeMoveExists reports whether some legal line can still be played without
// completing a triangle.
func (b *Board) SafeMoveExists() bool {
	return b.safeMove
}

// HintMove returns a line that can be played without completing a triangle.
func (b *Board) HintMove() (Segment, bool) {
	return b.hint, b.hasHint
}

// PlayedMoves returns the lines played so far, oldest first.
func (b *Board) PlayedMoves() []Segment {
	return slices.Clone(b.moves)
}

// LastMove returns the most recently played line.
func (b *Board) LastMove() (Segment, bool) {
	if len(b.moves) == 0 {
		return Segment{}, false
	}
	return b.moves[len(b.moves)-1], true
}

// MoveCount returns the number of lines played.
func (b *Board) MoveCount() int {
	return len(b.moves)
}

// Occupancy returns how many played lines pass through p.
// Points outside the board report 0.
func (b *Board) Occupancy(p Point) int {
	if !b.InBounds(p) {
		return 0
	}
	return b.occupancy[p.Y*b.width+p.X]
}

// Triangles returns the distinct triangles formed by the played lines.
func (b *Board) Triangles() []Triangle {
	return slices.Clone(b.triangles)
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.moves = slices.Clone(b.moves)
	c.edges = slices.Clone(b.edges)
	c.occupancy = slices.Clone(b.occupancy)
	c.triangles = slices.Clone(b.triangles)
	return &c
}
