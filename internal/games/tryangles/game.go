// Package tryangles hosts the Tryangles line game on the terminal platform.
// Two players take turns drawing straight lines between lattice points; the
// player who closes a triangle loses. Player 2 can be the computer.
package tryangles

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/tryangles/internal/config"
	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
	"github.com/vovakirdan/tryangles/internal/registry"
)

// Registered game IDs.
const (
	ID         = "tryangles"
	CPUID      = "tryangles_cpu"
	SelfPlayID = "tryangles_selfplay"
	OnlineID   = "tryangles_online"
)

// Mode selects who sits in each seat.
type Mode int

const (
	ModeHotSeat  Mode = iota // two humans sharing the keyboard
	ModeVsCPU                // human is player 1, the computer is player 2
	ModeSelfPlay             // the computer plays both seats
	ModeOnline               // one seat is local, the other plays over the network
)

// End reasons reported in outcomes.
const (
	ReasonTriangle  = "triangle"  // the loser closed a triangle
	ReasonNoMoves   = "no_moves"  // no legal line was left; a draw
	ReasonForfeit   = "forfeit"   // the loser left an online match
	ReasonCancelled = "cancelled" // the server stopped an online match
)

// messageTicks is how long a status message stays on screen.
const messageTicks = 120

var (
	settingsMu sync.RWMutex
	settings   = config.DefaultTryanglesConfig()
)

// Configure sets the configuration used by games created afterwards.
func Configure(cfg config.TryanglesConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = cfg
}

// Settings returns the configuration new games are created with.
func Settings() config.TryanglesConfig {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// Game implements registry.Game for Tryangles.
type Game struct {
	mode    Mode
	cfg     config.TryanglesConfig
	runtime core.RuntimeConfig
	rng     *rand.Rand

	board    *engine.Board
	cursor   engine.Point
	pending  engine.Point
	selected bool // pending holds the first point of a line

	showHint   bool
	confirmNew bool
	paused     bool
	gameOver   bool
	winner     int // 1 or 2; 0 for a draw
	reason     string

	cpus      [2]*CPU // nil for human seats
	thinkLeft int

	localSeat int              // seat played on this terminal in online mode
	outbox    []engine.Segment // lines submitted but not yet confirmed
	awaiting  bool

	message     string
	messageLeft int
	ticks       int
}

// New creates a game with the current settings.
func New(mode Mode) *Game {
	return NewWithConfig(mode, Settings())
}

// NewWithConfig creates a game with an explicit configuration.
// The configuration is assumed to be valid.
func NewWithConfig(mode Mode, cfg config.TryanglesConfig) *Game {
	g := &Game{mode: mode, cfg: cfg}
	g.newBoard()
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	switch g.mode {
	case ModeVsCPU:
		return CPUID
	case ModeSelfPlay:
		return SelfPlayID
	case ModeOnline:
		return OnlineID
	default:
		return ID
	}
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	switch g.mode {
	case ModeVsCPU:
		return "Tryangles vs CPU"
	case ModeSelfPlay:
		return "Tryangles (CPU vs CPU)"
	case ModeOnline:
		return "Tryangles online"
	default:
		return "Tryangles"
	}
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	g.cpus = [2]*CPU{}
	switch g.mode {
	case ModeVsCPU:
		g.cpus[1] = NewCPU(g.cfg.CPU.Difficulty, g.rng)
	case ModeSelfPlay:
		g.cpus[0] = NewCPU(g.cfg.CPU.Difficulty, g.rng)
		g.cpus[1] = NewCPU(g.cfg.CPU.Difficulty, g.rng)
	}

	g.showHint = g.cfg.Hint.Enabled
	g.paused = false
	g.newBoard()
}

// Config returns the configuration the game was created with.
func (g *Game) Config() config.TryanglesConfig {
	return g.cfg
}

// SetConfig replaces the configuration and starts a fresh board.
// Computer players pick up a new difficulty on the next Reset.
func (g *Game) SetConfig(cfg config.TryanglesConfig) {
	g.cfg = cfg
	g.newBoard()
}

// HasCPU reports whether the computer plays a seat in this mode.
func (g *Game) HasCPU() bool {
	return g.mode == ModeVsCPU || g.mode == ModeSelfPlay
}

// SetSeatDifficulty overrides the CPU strength of a computer seat (0 or 1).
// It must be called after Reset.
func (g *Game) SetSeatDifficulty(seat int, d config.DifficultyPreset) {
	if seat < 0 || seat > 1 || g.cpus[seat] == nil {
		return
	}
	g.cpus[seat] = NewCPU(d, g.rng)
}

// newBoard starts a fresh game on an empty board.
func (g *Game) newBoard() {
	board, err := engine.NewBoard(g.cfg.Board.Width, g.cfg.Board.Height)
	if err != nil {
		// Invalid sizes are rejected when the config is loaded.
		board, _ = engine.NewBoard(10, 10)
	}
	g.board = board
	g.cursor = engine.P(0, 0)
	g.selected = false
	g.confirmNew = false
	g.gameOver = false
	g.winner = 0
	g.reason = ""
	g.message = ""
	g.messageLeft = 0
	g.ticks = 0
	g.thinkLeft = g.cfg.CPU.ThinkTicks
	g.outbox = nil
	g.awaiting = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.confirmNew {
		if in.Has(core.ActionYes) {
			g.newBoard()
		} else if !in.Empty() {
			g.confirmNew = false
		}
		return core.StepResult{State: g.State()}
	}

	if g.mode == ModeOnline && (in.Has(core.ActionRestart) || in.Has(core.ActionPause) || in.Has(core.ActionUndo)) {
		g.flash("Not available in online matches.")
		in = in.Clone()
		in.Unset(core.ActionRestart)
		in.Unset(core.ActionPause)
		in.Unset(core.ActionUndo)
	}

	if in.Has(core.ActionRestart) {
		if g.gameOver || g.board.IsEmpty() {
			g.newBoard()
		} else {
			g.confirmNew = true
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ticks++
	if g.messageLeft > 0 {
		g.messageLeft--
		if g.messageLeft == 0 {
			g.message = ""
		}
	}

	if in.Has(core.ActionHint) {
		g.showHint = !g.showHint
	}

	moved := false
	if in.Has(core.ActionUndo) {
		moved = g.undo()
	}

	g.moveCursor(in)

	if cpu := g.cpus[g.Turn()]; cpu != nil {
		if !moved {
			moved = g.stepCPU(cpu)
		}
		return core.StepResult{State: g.State(), Moved: moved}
	}
	if g.mode == ModeOnline && (g.Turn() != g.localSeat || g.awaiting) {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionBack) {
		g.selected = false
	}
	if in.Has(core.ActionConfirm) {
		moved = g.selectPoint() || moved
	}

	return core.StepResult{State: g.State(), Moved: moved}
}

// moveCursor applies directional input, keeping the cursor on the board.
func (g *Game) moveCursor(in core.InputFrame) {
	if in.Has(core.ActionUp) {
		g.cursor.Y--
	}
	if in.Has(core.ActionDown) {
		g.cursor.Y++
	}
	if in.Has(core.ActionLeft) {
		g.cursor.X--
	}
	if in.Has(core.ActionRight) {
		g.cursor.X++
	}
	g.cursor.X = core.Clamp(g.cursor.X, 0, g.board.Width()-1)
	g.cursor.Y = core.Clamp(g.cursor.Y, 0, g.board.Height()-1)
}

// selectPoint handles Confirm: the first press marks the start of a line,
// the second plays it. Selecting the same point twice cancels.
func (g *Game) selectPoint() bool {
	if !g.selected {
		g.pending = g.cursor
		g.selected = true
		return false
	}

	g.selected = false
	if g.pending == g.cursor {
		return false
	}
	move := engine.NewSegment(g.pending, g.cursor)
	if g.mode == ModeOnline {
		g.submit(move)
		return false
	}
	return g.play(move)
}

// stepCPU counts down the thinking delay and then plays the CPU's move.
func (g *Game) stepCPU(cpu *CPU) bool {
	if g.thinkLeft > 0 {
		g.thinkLeft--
		return false
	}

	move, ok := cpu.ChooseMove(g.board)
	if !ok {
		g.finish(0, ReasonNoMoves)
		return false
	}
	return g.play(move)
}

// play submits a line for the player to move and checks for the end of the game.
func (g *Game) play(move engine.Segment) bool {
	mover := g.Turn()
	if err := g.board.AddMove(move.A, move.B); err != nil {
		g.flash(moveErrorText(err))
		return false
	}

	g.thinkLeft = g.cfg.CPU.ThinkTicks
	g.checkEnd(mover)
	return true
}

// checkEnd ends the game when the last move closed a triangle or left no
// legal line to play.
func (g *Game) checkEnd(mover int) {
	if winner, reason, over := judge(g.board, mover); over {
		g.finish(winner, reason)
		return
	}
	if !g.board.SafeMoveExists() {
		g.flash("No more moves left.")
	}
}

// judge decides whether the line just played by mover (seat 0 or 1) ended
// the game. The player who closes a triangle loses; a board without legal
// lines is a draw.
func judge(b *engine.Board, mover int) (winner int, reason string, over bool) {
	if b.HasTriangles() {
		return 2 - mover, ReasonTriangle, true
	}
	if !b.SafeMoveExists() && len(b.LegalMoves()) == 0 {
		return 0, ReasonNoMoves, true
	}
	return 0, "", false
}

// finish ends the game. winner is 1 or 2, or 0 for a draw.
func (g *Game) finish(winner int, reason string) {
	g.gameOver = true
	g.winner = winner
	g.reason = reason
	g.selected = false
}

// undo takes back the last line. Against the computer it keeps undoing
// until it is a human's turn again.
func (g *Game) undo() bool {
	g.selected = false
	if g.board.UndoLastMove() != nil {
		g.flash("No moves to undo.")
		return false
	}
	for g.cpus[g.Turn()] != nil && g.cpus[1-g.Turn()] == nil && !g.board.IsEmpty() {
		if g.board.UndoLastMove() != nil {
			break
		}
	}
	g.thinkLeft = g.cfg.CPU.ThinkTicks
	return true
}

// flash shows a status message for a while.
func (g *Game) flash(msg string) {
	g.message = msg
	g.messageLeft = messageTicks
}

// moveErrorText turns an engine rejection into a player-facing message.
func moveErrorText(err error) string {
	switch {
	case errors.Is(err, engine.ErrIntersecting):
		return "You cannot play intersecting lines."
	case errors.Is(err, engine.ErrOutOfBoard):
		return "That point is outside the board."
	case errors.Is(err, engine.ErrDuplicatePoint):
		return "Pick two different points."
	default:
		return err.Error()
	}
}

// Turn returns the seat to move: 0 for player 1, 1 for player 2.
func (g *Game) Turn() int {
	return g.board.MoveCount() % 2
}

// Board returns the underlying rule engine board.
func (g *Game) Board() *engine.Board {
	return g.board
}

// Cursor returns the lattice point under the cursor.
func (g *Game) Cursor() engine.Point {
	return g.cursor
}

// Pending returns the first point of a line being drawn.
func (g *Game) Pending() (engine.Point, bool) {
	return g.pending, g.selected
}

// Message returns the status message currently shown, if any.
func (g *Game) Message() string {
	return g.message
}

// HintVisible reports whether the hint line is drawn.
func (g *Game) HintVisible() bool {
	return g.showHint
}

// ConfirmingNewGame reports whether the new game prompt is open.
func (g *Game) ConfirmingNewGame() bool {
	return g.confirmNew
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.board.MoveCount(),
		GameOver: g.gameOver,
		Paused:   g.paused,
		Winner:   g.winner,
	}
}

// Outcome describes the finished game for persistence.
func (g *Game) Outcome() core.Outcome {
	moves := g.board.PlayedMoves()
	notation := make([]string, len(moves))
	for i, m := range moves {
		notation[i] = m.String()
	}

	var duration time.Duration
	if g.runtime.TickRate > 0 {
		duration = time.Duration(g.ticks) * time.Second / time.Duration(g.runtime.TickRate)
	}

	return core.Outcome{
		GameID:   g.ID(),
		Width:    g.board.Width(),
		Height:   g.board.Height(),
		Moves:    notation,
		Winner:   g.winner,
		Reason:   g.reason,
		Players:  [2]string{g.seatName(0), g.seatName(1)},
		Duration: duration,
	}
}

// seatName labels a seat, marking computer players.
func (g *Game) seatName(seat int) string {
	name := g.cfg.PlayerName(seat)
	if g.cpus[seat] != nil {
		name += " (CPU " + string(g.cpus[seat].Difficulty()) + ")"
	}
	return name
}

var _ registry.Reporter = (*Game)(nil)

// Register the game modes with the registry
func init() {
	registry.Register(ID, func() registry.Game {
		return New(ModeHotSeat)
	})
	registry.Register(CPUID, func() registry.Game {
		return New(ModeVsCPU)
	})
	registry.Describe(SelfPlayID, "Tryangles self play")
	registry.Describe(OnlineID, "Tryangles online")
}
