package tryangles

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		cols, rows   int
		stepX, stepY int
	}{
		{"small board", 80, 24, 3, 3, 4, 2},
		{"wide board", 80, 24, 26, 5, 3, 2},
		{"tall board", 80, 24, 5, 20, 4, 1},
		{"tiny screen", 10, 6, 10, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := computeLayout(tt.w, tt.h, tt.cols, tt.rows)
			if l.stepX != tt.stepX || l.stepY != tt.stepY {
				t.Errorf("computeLayout() steps = (%d, %d), expected (%d, %d)", l.stepX, l.stepY, tt.stepX, tt.stepY)
			}
		})
	}
}

func TestLineRune(t *testing.T) {
	tests := []struct {
		dx, dy   int
		expected rune
	}{
		{4, 0, '─'},
		{0, -2, '│'},
		{4, 2, '╲'},
		{-4, -2, '╲'},
		{4, -2, '╱'},
	}

	for _, tt := range tests {
		if got := lineRune(tt.dx, tt.dy); got != tt.expected {
			t.Errorf("lineRune(%d, %d) = %q, expected %q", tt.dx, tt.dy, got, tt.expected)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	g := newTestGame(t, ModeHotSeat, 3, 3, 0)
	playLine(g, engine.Seg(0, 0, 1, 0))

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	// Column letters sit above the points, row numbers to the left
	if got := screen.Get(3, 1); got != 'A' {
		t.Errorf("label at (3,1) = %q, expected 'A'", got)
	}
	if got := screen.Get(7, 1); got != 'B' {
		t.Errorf("label at (7,1) = %q, expected 'B'", got)
	}
	if got := screen.Get(1, 4); got != '2' {
		t.Errorf("label at (1,4) = %q, expected '2'", got)
	}

	// The last move is drawn bright in the mover's color
	cell := screen.GetCell(5, 2)
	if cell.Rune != '─' || cell.Color != core.ColorBrightBlue {
		t.Errorf("line cell = %+v, expected bright blue '─'", cell)
	}
	if got := screen.Get(3, 2); got != OccupiedChar {
		t.Errorf("endpoint = %q, expected %q", got, OccupiedChar)
	}
	if got := screen.Get(11, 6); got != PointChar {
		t.Errorf("free point = %q, expected %q", got, PointChar)
	}

	// Player 2's cursor rests on B1
	cell = screen.GetCell(7, 2)
	if cell.Rune != CursorChar || cell.Color != core.ColorBrightGreen {
		t.Errorf("cursor cell = %+v, expected bright green %q", cell, CursorChar)
	}

	if !strings.Contains(screen.Row(0), "Green to move") {
		t.Errorf("HUD = %q, expected turn status", screen.Row(0))
	}
	if !strings.Contains(screen.Row(0), "Moves: 1") {
		t.Errorf("HUD = %q, expected move count", screen.Row(0))
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newTestGame(t, ModeHotSeat, 3, 3, 0)
	playLine(g, engine.Seg(0, 0, 1, 0))
	playLine(g, engine.Seg(1, 0, 0, 1))
	playLine(g, engine.Seg(0, 1, 0, 0))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "Green WINS!") {
		t.Error("game over box should name the winner")
	}
	if !strings.Contains(out, "Blue closed a triangle") {
		t.Error("game over box should name the loser")
	}
	if cell := screen.GetCell(3, 3); cell.Color != core.ColorBrightRed {
		t.Errorf("triangle side color = %v, expected bright red", cell.Color)
	}
}

func TestRenderNoMoreMoves(t *testing.T) {
	g := newTestGame(t, ModeHotSeat, 2, 2, 0)
	for _, s := range []engine.Segment{
		engine.Seg(0, 0, 1, 0), engine.Seg(1, 0, 1, 1),
		engine.Seg(1, 1, 0, 1), engine.Seg(0, 1, 0, 0),
	} {
		playLine(g, s)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.Row(23), "No more moves left.") {
		t.Errorf("footer = %q, expected analyzer status", screen.Row(23))
	}
}

func TestRenderOnline(t *testing.T) {
	g := newOnlineGame(t, 2)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.Row(0), "Waiting for alice...") {
		t.Errorf("header = %q, expected to wait for the host", screen.Row(0))
	}

	g.Sync([]engine.Segment{engine.Seg(0, 0, 1, 0)})
	screen.Clear()
	g.Render(screen)
	if !strings.Contains(screen.Row(0), "Your move") {
		t.Errorf("header = %q, expected the local turn", screen.Row(0))
	}

	g.EndMatch(2, ReasonForfeit)
	screen.Clear()
	g.Render(screen)
	if out := screen.String(); !strings.Contains(out, "YOU WIN!") || !strings.Contains(out, "alice left the match") {
		t.Error("game over box should report the forfeit")
	}
}
