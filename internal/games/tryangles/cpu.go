package tryangles

import (
	"math/rand"

	"github.com/vovakirdan/tryangles/internal/config"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// CPU picks moves for a computer seat.
//
//   - easy plays any legal line at random, triangles included.
//   - normal plays the engine's hint when there is one.
//   - hard plays a random line among all safe ones.
//
// Every level falls back to a random legal line once no safe move is left.
type CPU struct {
	difficulty config.DifficultyPreset
	rng        *rand.Rand
}

// NewCPU creates a computer player drawing randomness from rng.
func NewCPU(difficulty config.DifficultyPreset, rng *rand.Rand) *CPU {
	return &CPU{difficulty: difficulty, rng: rng}
}

// Difficulty returns the CPU's strength.
func (c *CPU) Difficulty() config.DifficultyPreset {
	return c.difficulty
}

// ChooseMove returns the line to play on b, or false if no legal line exists.
func (c *CPU) ChooseMove(b *engine.Board) (engine.Segment, bool) {
	switch c.difficulty {
	case config.DifficultyNormal:
		if hint, ok := b.HintMove(); ok && b.SafeMoveExists() {
			return hint, true
		}
	case config.DifficultyHard:
		if move, ok := c.randomSafe(b); ok {
			return move, true
		}
		return c.randomLegal(b)
	}
	return c.randomLegal(b)
}

// randomLegal picks uniformly among all legal lines.
func (c *CPU) randomLegal(b *engine.Board) (engine.Segment, bool) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return engine.Segment{}, false
	}
	return moves[c.rng.Intn(len(moves))], true
}

// randomSafe picks uniformly among lines that close no triangle. Legal lines
// are tried in random order so the search usually stops early.
func (c *CPU) randomSafe(b *engine.Board) (engine.Segment, bool) {
	if !b.SafeMoveExists() {
		return engine.Segment{}, false
	}
	moves := b.LegalMoves()
	c.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	for _, m := range moves {
		if b.IsSafe(m) {
			return m, true
		}
	}
	return engine.Segment{}, false
}
