package core

import "time"

// Outcome describes a finished game so the platform can persist it.
type Outcome struct {
	GameID   string
	Width    int      // board columns
	Height   int      // board rows
	Moves    []string // moves in notation, oldest first
	Winner   int      // 1 or 2; 0 for a draw
	Reason   string
	Players  [2]string
	Duration time.Duration
}

// Draw reports whether the game ended without a winner.
func (o Outcome) Draw() bool {
	return o.Winner == 0
}
