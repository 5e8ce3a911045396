package tryangles

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tryangles/internal/config"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

func boardWith(t *testing.T, w, h int, moves ...engine.Segment) *engine.Board {
	t.Helper()
	b, err := engine.NewBoard(w, h)
	require.NoError(t, err)
	for _, m := range moves {
		require.NoError(t, b.AddMove(m.A, m.B))
	}
	return b
}

func isLegal(b *engine.Board, m engine.Segment) bool {
	return b.Validate(m) == nil
}

func TestCPUChoosesLegalMoves(t *testing.T) {
	for _, d := range config.Difficulties {
		t.Run(string(d), func(t *testing.T) {
			b := boardWith(t, 4, 4, engine.Seg(0, 0, 3, 3))
			cpu := NewCPU(d, rand.New(rand.NewSource(1)))

			move, ok := cpu.ChooseMove(b)
			require.True(t, ok)
			assert.True(t, isLegal(b, move), "move %s should be legal", move)
			assert.Equal(t, d, cpu.Difficulty())
		})
	}
}

func TestCPUNormalPlaysHint(t *testing.T) {
	b := boardWith(t, 3, 3, engine.Seg(0, 0, 1, 0), engine.Seg(1, 0, 0, 1))
	cpu := NewCPU(config.DifficultyNormal, rand.New(rand.NewSource(1)))

	hint, ok := b.HintMove()
	require.True(t, ok)

	move, ok := cpu.ChooseMove(b)
	require.True(t, ok)
	assert.Equal(t, hint, move)
}

func TestCPUHardAvoidsTriangles(t *testing.T) {
	b := boardWith(t, 3, 3, engine.Seg(0, 0, 1, 0), engine.Seg(1, 0, 0, 1))
	require.True(t, b.SafeMoveExists())

	for seed := int64(0); seed < 20; seed++ {
		cpu := NewCPU(config.DifficultyHard, rand.New(rand.NewSource(seed)))
		move, ok := cpu.ChooseMove(b)
		require.True(t, ok)
		assert.True(t, b.IsSafe(move), "seed %d: %s closes a triangle", seed, move)
	}
}

func TestCPUFallsBackWhenNothingIsSafe(t *testing.T) {
	// A closed square leaves only the diagonals, each closing two triangles
	b := boardWith(t, 2, 2,
		engine.Seg(0, 0, 1, 0), engine.Seg(1, 0, 1, 1),
		engine.Seg(1, 1, 0, 1), engine.Seg(0, 1, 0, 0),
	)
	require.False(t, b.SafeMoveExists())

	for _, d := range config.Difficulties {
		cpu := NewCPU(d, rand.New(rand.NewSource(3)))
		move, ok := cpu.ChooseMove(b)
		require.True(t, ok, "%s should still move", d)
		assert.True(t, isLegal(b, move))
		assert.False(t, b.IsSafe(move))
	}
}

func TestCPUNoLegalMove(t *testing.T) {
	b := boardWith(t, 2, 2,
		engine.Seg(0, 0, 1, 0), engine.Seg(1, 0, 1, 1),
		engine.Seg(1, 1, 0, 1), engine.Seg(0, 1, 0, 0),
		engine.Seg(0, 0, 1, 1),
	)
	require.Empty(t, b.LegalMoves())

	for _, d := range config.Difficulties {
		cpu := NewCPU(d, rand.New(rand.NewSource(3)))
		_, ok := cpu.ChooseMove(b)
		assert.False(t, ok, "%s should find no move", d)
	}
}
