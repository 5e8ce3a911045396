package tryangles

import (
	"slices"
	"strings"

	"github.com/vovakirdan/tryangles/internal/config"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// NewOnline creates the local side of an online match. seat (1 or 2) is the
// seat played on this terminal and players names both seats. Lines drawn
// here are only submitted; the board changes through Sync.
func NewOnline(cfg config.TryanglesConfig, seat int, players [2]string) *Game {
	cfg.Players = slices.Clone(cfg.Players)
	for i, name := range players {
		if name != "" && i < len(cfg.Players) {
			cfg.Players[i].Name = name
		}
	}
	cfg.Hint.Enabled = false

	g := NewWithConfig(ModeOnline, cfg)
	g.localSeat = seatIndex(seat)
	return g
}

// seatIndex maps a seat number (1 or 2) to a seat index.
func seatIndex(seat int) int {
	if seat == 2 {
		return 1
	}
	return 0
}

// LocalSeat returns the seat index (0 or 1) played on this terminal.
func (g *Game) LocalSeat() int {
	return g.localSeat
}

// submit queues a line for the match after checking it locally.
func (g *Game) submit(move engine.Segment) {
	if err := g.board.Validate(move); err != nil {
		g.flash(moveErrorText(err))
		return
	}
	g.outbox = append(g.outbox, move)
	g.awaiting = true
}

// TakeMoves returns the lines submitted since the last call.
func (g *Game) TakeMoves() []engine.Segment {
	out := g.outbox
	g.outbox = nil
	return out
}

// Sync brings the board up to date with the match's list of played lines.
// Lists shorter than the local board are stale and ignored.
func (g *Game) Sync(moves []engine.Segment) {
	played := g.board.PlayedMoves()
	if len(moves) < len(played) {
		return
	}

	for i, m := range played {
		if !m.Equal(moves[i]) {
			// Diverged; rebuild from the match's list.
			_ = g.board.Reset(g.board.Width(), g.board.Height())
			g.gameOver = false
			g.winner = 0
			g.reason = ""
			played = nil
			break
		}
	}

	for _, m := range moves[len(played):] {
		if g.gameOver {
			break
		}
		mover := g.Turn()
		if err := g.board.AddMove(m.A, m.B); err != nil {
			g.flash(moveErrorText(err))
			break
		}
		g.checkEnd(mover)
	}
	g.awaiting = false
}

// Reject shows why the match refused the last submitted line.
func (g *Game) Reject(reason string) {
	g.awaiting = false
	if reason != "" {
		reason = strings.ToUpper(reason[:1]) + reason[1:] + "."
	}
	g.flash(reason)
}

// EndMatch ends the game for a reason decided off the board, such as an
// opponent leaving. winner is 1 or 2, or 0 for no winner.
func (g *Game) EndMatch(winner int, reason string) {
	if g.gameOver {
		return
	}
	g.finish(winner, reason)
}
