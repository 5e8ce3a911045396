package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, width, height int, moves ...Segment) *Board {
	t.Helper()
	b, err := NewBoard(width, height)
	require.NoError(t, err)
	for _, m := range moves {
		require.NoError(t, b.AddMove(m.A, m.B), "playing %s", m)
	}
	return b
}

func occupancySnapshot(b *Board) []int {
	snap := make([]int, 0, b.Width()*b.Height())
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			snap = append(snap, b.Occupancy(P(x, y)))
		}
	}
	return snap
}

func TestNewBoardBounds(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		valid         bool
	}{
		{"smallest", 2, 2, true},
		{"largest", 26, 20, true},
		{"default", 10, 10, true},
		{"too narrow", 1, 10, false},
		{"too wide", 27, 10, false},
		{"too short", 10, 1, false},
		{"too tall", 10, 21, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBoard(tc.width, tc.height)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrBounds)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.width, b.Width())
			assert.Equal(t, tc.height, b.Height())
		})
	}
}

func TestResetClearsBoard(t *testing.T) {
	for _, size := range [][2]int{{2, 2}, {3, 3}, {10, 10}, {26, 20}, {5, 2}} {
		b := newTestBoard(t, 3, 3, Seg(0, 0, 2, 2))
		require.NoError(t, b.Reset(size[0], size[1]))

		assert.True(t, b.IsEmpty())
		assert.False(t, b.HasTriangles())
		assert.Empty(t, b.PlayedMoves())
		for _, v := range occupancySnapshot(b) {
			assert.Zero(t, v)
		}
	}
}

func TestResetRejectsBadSizeWithoutChange(t *testing.T) {
	b := newTestBoard(t, 4, 4, Seg(0, 0, 3, 3))

	err := b.Reset(30, 4)
	assert.ErrorIs(t, err, ErrBounds)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 1, b.MoveCount())
	assert.Equal(t, 1, b.Occupancy(P(2, 2)))
}

func TestAddMoveRejections(t *testing.T) {
	tests := []struct {
		name     string
		move     Segment
		expected error
	}{
		{"same point", Seg(1, 1, 1, 1), ErrDuplicatePoint},
		{"duplicate line", Seg(0, 0, 2, 0), ErrIntersecting},
		{"duplicate reversed", Seg(2, 0, 0, 0), ErrIntersecting},
		{"t-junction", Seg(1, 0, 1, 1), nil},
		{"overlap", Seg(1, 0, 3, 0), ErrIntersecting},
		{"outside", Seg(0, 0, 5, 0), ErrOutOfBoard},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBoard(t, 4, 4, Seg(0, 0, 2, 0))
			before := occupancySnapshot(b)

			err := b.AddMove(tc.move.A, tc.move.B)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expected)
			var moveErr *MoveError
			require.True(t, errors.As(err, &moveErr))
			assert.Equal(t, tc.move, moveErr.Move)

			assert.Equal(t, 1, b.MoveCount())
			assert.Equal(t, before, occupancySnapshot(b))
		})
	}
}

func TestAddMoveProperCrossingRejected(t *testing.T) {
	b := newTestBoard(t, 3, 3, Seg(0, 0, 2, 2))

	err := b.AddMove(P(0, 2), P(2, 0))
	assert.ErrorIs(t, err, ErrIntersecting)
	assert.Equal(t, []Segment{Seg(0, 0, 2, 2)}, b.PlayedMoves())
}

func TestTJunctionIsLegal(t *testing.T) {
	b := newTestBoard(t, 3, 3, Seg(0, 0, 2, 0))

	require.NoError(t, b.AddMove(P(1, 0), P(1, 1)))
	assert.Equal(t, 1, b.Occupancy(P(0, 0)))
	assert.Equal(t, 2, b.Occupancy(P(1, 0)))
	assert.Equal(t, 1, b.Occupancy(P(2, 0)))
	assert.Equal(t, 1, b.Occupancy(P(1, 1)))
	assert.Equal(t, 0, b.Occupancy(P(2, 2)))
}

func TestUndoLastMove(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	assert.ErrorIs(t, b.UndoLastMove(), ErrNoMovesToUndo)

	require.NoError(t, b.AddMove(P(0, 0), P(2, 2)))
	require.NoError(t, b.UndoLastMove())
	assert.True(t, b.IsEmpty())
	assert.Zero(t, b.Occupancy(P(1, 1)))
	assert.ErrorIs(t, b.UndoLastMove(), ErrNoMovesToUndo)
}

func TestAddUndoRoundTrip(t *testing.T) {
	b := newTestBoard(t, 4, 4, Seg(0, 0, 2, 0), Seg(2, 0, 0, 2))

	moves := b.PlayedMoves()
	occupancy := occupancySnapshot(b)
	triangles := b.Triangles()

	for _, m := range []Segment{Seg(0, 2, 0, 0), Seg(3, 3, 1, 1), Seg(3, 0, 3, 3)} {
		require.NoError(t, b.AddMove(m.A, m.B))
		require.NoError(t, b.UndoLastMove())

		assert.Equal(t, moves, b.PlayedMoves())
		assert.Equal(t, occupancy, occupancySnapshot(b))
		assert.Equal(t, triangles, b.Triangles())
	}
}

func TestTriangleScenario(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	moves := []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 0, 1), Seg(0, 1, 0, 0)}

	for i, m := range moves {
		assert.False(t, b.HasTriangles(), "triangle before move %d", i)
		require.NoError(t, b.AddMove(m.A, m.B))
	}

	require.True(t, b.HasTriangles())
	triangles := b.Triangles()
	require.Len(t, triangles, 1)
	assert.ElementsMatch(t, canonicalAll(moves), canonicalAll(triangles[0].Sides()))

	last, ok := b.LastMove()
	require.True(t, ok)
	assert.Equal(t, moves[2], last)

	require.NoError(t, b.UndoLastMove())
	assert.False(t, b.HasTriangles())
}

func TestEmptyBoardHasHint(t *testing.T) {
	b := newTestBoard(t, 5, 4)

	assert.True(t, b.SafeMoveExists())
	hint, ok := b.HintMove()
	require.True(t, ok)
	assert.NoError(t, b.Validate(hint))
	assert.False(t, CompletesTriangle(nil, hint))
	assert.Equal(t, Seg(0, 0, 1, 0), hint)
}

func TestHintIsSafe(t *testing.T) {
	b := newTestBoard(t, 3, 3, Seg(0, 0, 1, 0), Seg(1, 0, 0, 1))

	require.True(t, b.SafeMoveExists())
	hint, ok := b.HintMove()
	require.True(t, ok)
	assert.True(t, b.IsSafe(hint))

	require.NoError(t, b.AddMove(hint.A, hint.B))
	assert.False(t, b.HasTriangles())
}

func TestHintKeptOnceTriangleExists(t *testing.T) {
	b := newTestBoard(t, 3, 3, Seg(0, 0, 1, 0), Seg(1, 0, 0, 1))
	hint, ok := b.HintMove()
	require.True(t, ok)
	safe := b.SafeMoveExists()

	require.NoError(t, b.AddMove(P(0, 1), P(0, 0)))
	require.True(t, b.HasTriangles())

	after, ok := b.HintMove()
	assert.True(t, ok)
	assert.Equal(t, hint, after)
	assert.Equal(t, safe, b.SafeMoveExists())
}

func TestOutOfMoves(t *testing.T) {
	square := []Segment{Seg(0, 0, 1, 0), Seg(1, 0, 1, 1), Seg(1, 1, 0, 1), Seg(0, 1, 0, 0)}
	b := newTestBoard(t, 2, 2, square...)

	assert.False(t, b.HasTriangles())
	assert.False(t, b.SafeMoveExists())
	_, ok := b.HintMove()
	assert.False(t, ok)

	assert.ElementsMatch(t, []Segment{Seg(0, 0, 1, 1), Seg(1, 0, 0, 1)}, b.LegalMoves())
	assert.Empty(t, b.SafeMoves(0))

	require.NoError(t, b.AddMove(P(0, 0), P(1, 1)))
	assert.Len(t, b.Triangles(), 2)
	assert.False(t, b.SafeMoveExists())
}

func TestLegalAndSafeMoves(t *testing.T) {
	b := newTestBoard(t, 2, 2)

	assert.Len(t, b.LegalMoves(), 6)
	assert.Len(t, b.SafeMoves(0), 6)
	assert.Equal(t, []Segment{Seg(0, 0, 1, 0)}, b.SafeMoves(1))
}

func TestCandidatesOrder(t *testing.T) {
	var got []Segment
	Candidates(2, 2, func(s Segment) bool {
		got = append(got, s)
		return true
	})

	assert.Equal(t, []Segment{
		Seg(0, 0, 1, 0), Seg(0, 0, 0, 1), Seg(0, 0, 1, 1),
		Seg(1, 0, 0, 1), Seg(1, 0, 1, 1),
		Seg(0, 1, 1, 1),
	}, got)
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBoard(t, 3, 3, Seg(0, 0, 1, 0))
	c := b.Clone()

	require.NoError(t, c.AddMove(P(1, 0), P(0, 1)))
	assert.Equal(t, 1, b.MoveCount())
	assert.Equal(t, 2, c.MoveCount())
	assert.Equal(t, 1, b.Occupancy(P(1, 0)))
	assert.Equal(t, 2, c.Occupancy(P(1, 0)))
}
