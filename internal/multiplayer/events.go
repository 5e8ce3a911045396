package multiplayer

import engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"

// SessionEvent is sent from the coordinator or a match to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent to the host once its lobby exists.
type LobbyCreatedEvent struct {
	Code   string
	Width  int
	Height int
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby request fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both players when a guest joins.
type LobbyJoinedEvent struct {
	Code     string
	Seat     int
	Opponent string
}

func (LobbyJoinedEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when the match begins.
type MatchStartedEvent struct {
	MatchID MatchID
	Seat    int
	Code    string
	Width   int
	Height  int
	Players [2]string // names by seat
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries every line played so far, oldest first.
type SnapshotEvent struct {
	MatchID MatchID
	Moves   []engine.Segment
}

func (SnapshotEvent) sessionEvent() {}

// MoveRejectedEvent is sent to a player whose line the match refused.
type MoveRejectedEvent struct {
	MatchID MatchID
	Reason  string
}

func (MoveRejectedEvent) sessionEvent() {}

// MatchEndedEvent is sent to both players when a match ends.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int // seat, 0 for a draw or when nobody won
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // decided on the board
	MatchEndReasonDisconnect                       // a player left or dropped
	MatchEndReasonCancelled                        // the server shut down
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	default:
		return "Unknown"
	}
}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby for a board of the given size.
type CreateLobbyMsg struct {
	SessionID SessionID
	Width     int
	Height    int
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg joins the lobby with the given code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a lobby the session hosts.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayMoveMsg submits a line to a match.
type PlayMoveMsg struct {
	MatchID   MatchID
	SessionID SessionID
	Move      engine.Segment
}

func (PlayMoveMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's connection ends.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
