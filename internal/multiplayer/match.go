package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// OnlineGame is the authoritative rule keeper of a match. Seats are 1 and 2.
// A match only calls it from its own goroutine.
type OnlineGame interface {
	// Play plays a line for seat, or explains why it cannot.
	Play(seat int, move engine.Segment) error

	// Forfeit ends the game against seat.
	Forfeit(seat int)

	// Moves returns the lines played so far, oldest first.
	Moves() []engine.Segment

	// IsGameOver reports whether the game has been decided.
	IsGameOver() bool

	// Winner returns the winning seat, or 0 for a draw.
	Winner() int

	// Outcome describes the finished game for persistence.
	Outcome(players [2]string, duration time.Duration) core.Outcome
}

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int
	Outcome core.Outcome
}

// playedMove is a line submitted by one of the match's sessions.
type playedMove struct {
	session SessionID
	move    engine.Segment
}

// OnlineMatch runs one game between two sessions. Moves are applied in the
// order they arrive; each accepted move is broadcast as a snapshot.
type OnlineMatch struct {
	id      MatchID
	code    string
	game    OnlineGame
	seats   [2]SessionHandle // host first
	started time.Time

	moves      chan playedMove
	disconnect chan SessionID
	done       chan struct{}
	doneOnce   sync.Once
}

// NewOnlineMatch creates a match between host (seat 1) and guest (seat 2).
func NewOnlineMatch(id MatchID, code string, game OnlineGame, host, guest SessionHandle) *OnlineMatch {
	return &OnlineMatch{
		id:         id,
		code:       code,
		game:       game,
		seats:      [2]SessionHandle{host, guest},
		moves:      make(chan playedMove, 16),
		disconnect: make(chan SessionID, 2),
		done:       make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code the match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Players returns the player names by seat.
func (m *OnlineMatch) Players() [2]string {
	return [2]string{m.seats[0].Name(), m.seats[1].Name()}
}

// seatOf returns the seat of session, or 0 if it does not play here.
func (m *OnlineMatch) seatOf(id SessionID) int {
	for i, s := range m.seats {
		if s.ID() == id {
			return i + 1
		}
	}
	return 0
}

// SubmitMove queues a line from session. It never blocks; a move that does
// not fit is dropped and the player can draw it again.
func (m *OnlineMatch) SubmitMove(session SessionID, move engine.Segment) {
	select {
	case m.moves <- playedMove{session: session, move: move}:
	default:
	}
}

// PlayerDisconnected forfeits the match for session.
func (m *OnlineMatch) PlayerDisconnected(session SessionID) {
	select {
	case m.disconnect <- session:
	default:
	}
}

// Run plays the match until it is decided, a player leaves or Stop is
// called. onComplete receives the result unless the match was stopped.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	m.started = time.Now()
	go m.monitorSessions()

	for {
		select {
		case pm := <-m.moves:
			if !m.handleMove(pm) {
				continue
			}
			if onComplete != nil {
				onComplete(m.result(MatchEndReasonCompleted))
			}
			return

		case session := <-m.disconnect:
			seat := m.seatOf(session)
			if seat == 0 {
				continue
			}
			m.game.Forfeit(seat)
			if onComplete != nil {
				onComplete(m.result(MatchEndReasonDisconnect))
			}
			return

		case <-m.done:
			return
		}
	}
}

// handleMove applies a submitted line and reports whether the game ended.
func (m *OnlineMatch) handleMove(pm playedMove) bool {
	seat := m.seatOf(pm.session)
	if seat == 0 {
		return false
	}

	if err := m.game.Play(seat, pm.move); err != nil {
		m.seats[seat-1].Send(MoveRejectedEvent{MatchID: m.id, Reason: err.Error()})
		return false
	}

	snapshot := SnapshotEvent{MatchID: m.id, Moves: m.game.Moves()}
	for _, s := range m.seats {
		s.Send(snapshot)
	}
	return m.game.IsGameOver()
}

func (m *OnlineMatch) result(reason MatchEndReason) MatchResult {
	return MatchResult{
		MatchID: m.id,
		Reason:  reason,
		Winner:  m.game.Winner(),
		Outcome: m.game.Outcome(m.Players(), time.Since(m.started)),
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.seats[0].Done():
		m.PlayerDisconnected(m.seats[0].ID())
	case <-m.seats[1].Done():
		m.PlayerDisconnected(m.seats[1].ID())
	case <-m.done:
	}
}

// Done returns a channel that closes when the match loop has stopped.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}

// Stop ends the match loop without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
