package tryangles

import (
	"fmt"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// Visual characters for rendering
const (
	PointChar    = '·'
	OccupiedChar = '•'
	CursorChar   = '◎'
	PendingChar  = '◉'
)

// Screen rows reserved around the lattice.
const (
	hudRows    = 2 // status line + column letters
	footerRows = 2 // message + analyzer status
	labelCols  = 3 // row numbers + gap
	maxStepX   = 4
	maxStepY   = 2
)

// layout maps lattice points to screen cells.
type layout struct {
	originX, originY int
	stepX, stepY     int
}

func (l layout) cell(p engine.Point) (int, int) {
	return l.originX + p.X*l.stepX, l.originY + p.Y*l.stepY
}

// computeLayout spreads the lattice over the screen, keeping at most
// maxStepX columns and maxStepY rows between neighbouring points.
func computeLayout(screenW, screenH, cols, rows int) layout {
	stepX := (screenW - labelCols - 1) / core.Max(cols-1, 1)
	stepY := (screenH - hudRows - footerRows - 1) / core.Max(rows-1, 1)
	return layout{
		originX: labelCols,
		originY: hudRows,
		stepX:   core.Clamp(stepX, 1, maxStepX),
		stepY:   core.Clamp(stepY, 1, maxStepY),
	}
}

// lineRune picks a box-drawing character for a line with the given screen
// direction.
func lineRune(dx, dy int) rune {
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// drawSegment rasterizes a lattice segment onto the screen.
func drawSegment(dst *core.Screen, l layout, s engine.Segment, c core.Color) {
	x0, y0 := l.cell(s.A)
	x1, y1 := l.cell(s.B)
	dst.DrawLine(x0, y0, x1, y1, lineRune(x1-x0, y1-y0), c)
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	b := g.board
	l := computeLayout(dst.Width(), dst.Height(), b.Width(), b.Height())

	g.renderLabels(dst, l)
	g.renderLines(dst, l)
	g.renderPoints(dst, l)
	g.renderHUD(dst)
	g.renderFooter(dst)

	switch {
	case g.confirmNew:
		drawCenteredMessage(dst, "Start a new game?", "Y: yes  |  any other key: no")
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.gameOver:
		g.renderGameOver(dst)
	}
}

// renderLabels draws column letters above and row numbers left of the lattice.
func (g *Game) renderLabels(dst *core.Screen, l layout) {
	for x := 0; x < g.board.Width(); x++ {
		sx, _ := l.cell(engine.P(x, 0))
		dst.SetWithColor(sx, l.originY-1, rune('A'+x), core.ColorGray)
	}
	for y := 0; y < g.board.Height(); y++ {
		_, sy := l.cell(engine.P(0, y))
		dst.DrawTextWithColor(0, sy, fmt.Sprintf("%2d", y+1), core.ColorGray)
	}
}

// renderLines draws played lines in their players' colors, then the
// triangle sides, hint and the line being drawn.
func (g *Game) renderLines(dst *core.Screen, l layout) {
	moves := g.board.PlayedMoves()
	for i, m := range moves {
		c := g.cfg.PlayerColor(i % 2)
		if i == len(moves)-1 {
			c = c.Bright()
		}
		drawSegment(dst, l, m, c)
	}

	for _, t := range g.board.Triangles() {
		for _, side := range t.Sides() {
			drawSegment(dst, l, side, core.ColorBrightRed)
		}
	}

	if g.showHint && !g.gameOver && g.board.SafeMoveExists() {
		if hint, ok := g.board.HintMove(); ok {
			drawSegment(dst, l, hint, core.ColorRed)
		}
	}

	if g.selected && g.pending != g.cursor {
		drawSegment(dst, l, engine.NewSegment(g.pending, g.cursor), core.ColorGray)
	}
}

// renderPoints draws the lattice points, the pending point and the cursor.
func (g *Game) renderPoints(dst *core.Screen, l layout) {
	b := g.board
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			p := engine.P(x, y)
			sx, sy := l.cell(p)
			if b.Occupancy(p) > 0 {
				dst.SetWithColor(sx, sy, OccupiedChar, core.ColorWhite)
			} else {
				dst.SetWithColor(sx, sy, PointChar, core.ColorGray)
			}
		}
	}

	if g.selected {
		sx, sy := l.cell(g.pending)
		dst.SetWithColor(sx, sy, PendingChar, core.ColorBrightYellow)
	}
	if !g.gameOver && g.cpus[g.Turn()] == nil {
		sx, sy := l.cell(g.cursor)
		if !g.selected || g.pending != g.cursor {
			dst.SetWithColor(sx, sy, CursorChar, g.cfg.PlayerColor(g.Turn()).Bright())
		}
	}
}

// renderHUD draws the title, whose turn it is and the move count.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextWithColor(0, 0, "TRYANGLES", core.ColorBrightWhite)

	if !g.gameOver {
		turn := g.Turn()
		status := g.cfg.PlayerName(turn) + " to move"
		switch {
		case g.cpus[turn] != nil:
			status = g.cfg.PlayerName(turn) + " (CPU) is thinking..."
		case g.mode == ModeOnline && turn != g.localSeat:
			status = "Waiting for " + g.cfg.PlayerName(turn) + "..."
		case g.mode == ModeOnline && g.awaiting:
			status = "Sending your line..."
		case g.mode == ModeOnline && !g.selected:
			status = "Your move"
		case g.selected:
			status += fmt.Sprintf(" - line from %s", g.pending)
		}
		dst.DrawTextWithColor(11, 0, status, g.cfg.PlayerColor(turn).Bright())
	}

	right := fmt.Sprintf("%s  Moves: %d", g.cursor, g.board.MoveCount())
	if g.showHint {
		right = "Hint  " + right
	}
	dst.DrawTextWithColor(dst.Width()-len([]rune(right)), 0, right, core.ColorGray)
}

// renderFooter draws the status message and the analyzer's verdict.
func (g *Game) renderFooter(dst *core.Screen) {
	h := dst.Height()
	if g.message != "" {
		dst.DrawTextWithColor(0, h-2, g.message, core.ColorYellow)
	}
	if !g.gameOver && !g.board.SafeMoveExists() {
		dst.DrawTextWithColor(0, h-1, "No more moves left.", core.ColorBrightRed)
	}
}

// renderGameOver shows who won.
func (g *Game) renderGameOver(dst *core.Screen) {
	var title, detail string
	switch {
	case g.mode == ModeOnline:
		title, detail = g.onlineResult()
		drawCenteredMessage(dst, title, detail+"  |  Esc: menu")
		return
	case g.winner == 0:
		title = "DRAW"
		detail = "No legal lines left"
	case g.mode == ModeVsCPU && g.winner == 1:
		title = "YOU WIN!"
		detail = "CPU closed a triangle"
	case g.mode == ModeVsCPU:
		title = "CPU WINS!"
		detail = "You closed a triangle"
	default:
		title = fmt.Sprintf("%s WINS!", g.cfg.PlayerName(g.winner-1))
		detail = fmt.Sprintf("%s closed a triangle", g.cfg.PlayerName(2-g.winner))
	}
	drawCenteredMessage(dst, title, detail+"  |  N: new game")
}

// onlineResult words the end of an online match from the local seat's view.
func (g *Game) onlineResult() (title, detail string) {
	opponent := g.cfg.PlayerName(1 - g.localSeat)
	won := g.winner == g.localSeat+1

	switch {
	case g.reason == ReasonCancelled:
		return "MATCH CANCELLED", "The server is shutting down"
	case g.reason == ReasonForfeit && won:
		return "YOU WIN!", opponent + " left the match"
	case g.reason == ReasonForfeit:
		return "YOU LOSE", "You left the match"
	case g.winner == 0:
		return "DRAW", "No legal lines left"
	case won:
		return "YOU WIN!", opponent + " closed a triangle"
	default:
		return "YOU LOSE", "You closed a triangle"
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleLen := len([]rune(title))
	subtitleLen := len([]rune(subtitle))

	// Calculate box dimensions
	boxW := core.Max(titleLen, subtitleLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	box := core.NewRect(boxX, boxY, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBoxWithColor(box, core.ColorBrightWhite)

	dst.DrawTextCenteredWithColor(boxY+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(boxY+3, subtitle)
}
