// Package multiplayer pairs SSH sessions into online Tryangles matches.
// A Coordinator keeps lobbies keyed by join code and runs one OnlineMatch
// goroutine per pair of players; sessions talk to it through messages and
// receive events on their SessionHandle.
package multiplayer

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// Seat numbers. The lobby host takes the first seat and moves first.
const (
	SeatHost  = 1
	SeatGuest = 2
)

// Opponent returns the other seat.
func Opponent(seat int) int {
	return 3 - seat
}
