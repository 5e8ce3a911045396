package tryangles

import (
	"errors"
	"time"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// Referee errors.
var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrMatchOver   = errors.New("the game is over")
)

// Referee keeps the authoritative board of an online match. Seats are
// numbered 1 and 2; seat 1 moves first. It is not safe for concurrent use.
type Referee struct {
	board  *engine.Board
	over   bool
	winner int
	reason string
}

// NewReferee creates a referee for an empty board.
func NewReferee(width, height int) (*Referee, error) {
	board, err := engine.NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	return &Referee{board: board}, nil
}

// Play plays a line for seat. The board is unchanged on error, and rule
// violations are returned as the engine's sentinel errors.
func (r *Referee) Play(seat int, move engine.Segment) error {
	if r.over {
		return ErrMatchOver
	}
	if seat != r.Turn() {
		return ErrNotYourTurn
	}
	if err := r.board.AddMove(move.A, move.B); err != nil {
		var moveErr *engine.MoveError
		if errors.As(err, &moveErr) {
			return moveErr.Err
		}
		return err
	}
	r.winner, r.reason, r.over = judge(r.board, seat-1)
	return nil
}

// Forfeit ends the match against seat.
func (r *Referee) Forfeit(seat int) {
	if r.over {
		return
	}
	r.over = true
	r.winner = 3 - seat
	r.reason = ReasonForfeit
}

// Turn returns the seat to move.
func (r *Referee) Turn() int {
	return r.board.MoveCount()%2 + 1
}

// Moves returns the lines played so far, oldest first.
func (r *Referee) Moves() []engine.Segment {
	return r.board.PlayedMoves()
}

// IsGameOver reports whether the match has been decided.
func (r *Referee) IsGameOver() bool {
	return r.over
}

// Winner returns the winning seat, or 0 for a draw or an open match.
func (r *Referee) Winner() int {
	return r.winner
}

// Reason returns why the match ended.
func (r *Referee) Reason() string {
	return r.reason
}

// Outcome describes the match for persistence.
func (r *Referee) Outcome(players [2]string, duration time.Duration) core.Outcome {
	moves := r.board.PlayedMoves()
	notation := make([]string, len(moves))
	for i, m := range moves {
		notation[i] = m.String()
	}
	return core.Outcome{
		GameID:   OnlineID,
		Width:    r.board.Width(),
		Height:   r.board.Height(),
		Moves:    notation,
		Winner:   r.winner,
		Reason:   r.reason,
		Players:  players,
		Duration: duration,
	}
}
