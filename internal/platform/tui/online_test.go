package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
	"github.com/vovakirdan/tryangles/internal/multiplayer"
)

type recordingSender struct {
	msgs []multiplayer.CoordinatorMessage
}

func (s *recordingSender) Send(msg multiplayer.CoordinatorMessage) {
	s.msgs = append(s.msgs, msg)
}

func (s *recordingSender) last() multiplayer.CoordinatorMessage {
	if len(s.msgs) == 0 {
		return nil
	}
	return s.msgs[len(s.msgs)-1]
}

func lobbyUpdate(t *testing.T, m OnlineLobbyModel, msgs ...tea.Msg) OnlineLobbyModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		lobby, ok := next.(OnlineLobbyModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected OnlineLobbyModel", next)
		}
		m = lobby
	}
	return m
}

func TestOnlineLobbyHost(t *testing.T) {
	sender := &recordingSender{}
	m := NewOnlineLobbyModel(sender, "s1", 80, 24)

	m = lobbyUpdate(t, m, runeKey("h"))
	if m.State() != OnlineStateChooseSize {
		t.Fatalf("State() = %v, expected size choice", m.State())
	}

	size := BoardSizes[m.sizeCursor]
	m = lobbyUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	create, ok := sender.last().(multiplayer.CreateLobbyMsg)
	if !ok || create.Width != size.Width || create.Height != size.Height || create.SessionID != "s1" {
		t.Fatalf("sent %+v, expected a lobby for %dx%d", sender.last(), size.Width, size.Height)
	}

	m = lobbyUpdate(t, m, multiplayer.LobbyCreatedEvent{Code: "ABC234", Width: size.Width, Height: size.Height})
	if m.State() != OnlineStateHostWaiting || !strings.Contains(m.View(), "[ ABC234 ]") {
		t.Fatalf("host should see the join code, got state %v", m.State())
	}

	m = lobbyUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	cancel, ok := sender.last().(multiplayer.CancelLobbyMsg)
	if !ok || cancel.Code != "ABC234" {
		t.Errorf("sent %+v, expected the lobby to be cancelled", sender.last())
	}
	if m.State() != OnlineStateChooseMode || m.BackToMenu() {
		t.Errorf("Esc while hosting should return to the host/join choice")
	}
}

func TestOnlineLobbyJoinCode(t *testing.T) {
	sender := &recordingSender{}
	m := NewOnlineLobbyModel(sender, "s2", 80, 24)

	m = lobbyUpdate(t, m, runeKey("j"))
	for _, r := range "ab2c9d" {
		m = lobbyUpdate(t, m, runeKey(string(r)))
	}
	if m.joinCodeInput != "AB2CD" {
		t.Fatalf("joinCodeInput = %q, expected %q", m.joinCodeInput, "AB2CD")
	}

	m = lobbyUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(sender.msgs) != 0 {
		t.Fatal("an incomplete code should not be sent")
	}

	m = lobbyUpdate(t, m, runeKey("e"), runeKey("f"), tea.KeyMsg{Type: tea.KeyEnter})
	join, ok := sender.last().(multiplayer.JoinLobbyMsg)
	if !ok || join.Code != "AB2CDE" {
		t.Fatalf("sent %+v, expected a join for AB2CDE", sender.last())
	}
	if m.State() != OnlineStateJoinWaiting {
		t.Errorf("State() = %v, expected join waiting", m.State())
	}

	m = lobbyUpdate(t, m, multiplayer.LobbyErrorEvent{Message: "Lobby not found"})
	if m.State() != OnlineStateJoinEnterCode || !strings.Contains(m.View(), "Error: Lobby not found") {
		t.Error("a failed join should return to code entry with the error")
	}

	m = lobbyUpdate(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.joinCodeInput != "AB2CD" {
		t.Errorf("joinCodeInput = %q after backspace", m.joinCodeInput)
	}
}

func TestOnlineLobbyBackAndQuit(t *testing.T) {
	m := NewOnlineLobbyModel(&recordingSender{}, "s", 80, 24)
	if back := lobbyUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc}); !back.BackToMenu() {
		t.Error("Esc should go back to the menu")
	}
	if quit := lobbyUpdate(t, m, runeKey("q")); !quit.IsQuitting() {
		t.Error("Q should quit")
	}
}

func sessionUpdate(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		session, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected SessionModel", next)
		}
		m = session
	}
	return m
}

func TestSessionOnlineMatch(t *testing.T) {
	sender := &recordingSender{}
	channel := multiplayer.NewChannelSession("s1", "alice", 0)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	m := NewSessionModel(nil, cfg, "alice").withOnline(sender, channel)

	// The online entry is the last mode in the menu.
	items := len(m.menu.items)
	if m.menu.items[items-1].GameID != onlineItem {
		t.Fatalf("last menu item = %+v, expected the online entry", m.menu.items[items-1])
	}
	for range items - 1 {
		m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewLobby {
		t.Fatalf("view = %v, expected the lobby", m.view)
	}

	m = sessionUpdate(t, m, sessionEventMsg{event: multiplayer.MatchStartedEvent{
		MatchID: "m1",
		Seat:    multiplayer.SeatHost,
		Width:   3,
		Height:  3,
		Players: [2]string{"alice", "bob"},
	}})
	if m.view != viewGame || m.match == nil {
		t.Fatalf("view = %v, expected an online game", m.view)
	}

	tick := TickMsg{}
	m = sessionUpdate(t, m,
		tea.KeyMsg{Type: tea.KeyEnter}, tick,
		runeKey("l"), tick,
		tea.KeyMsg{Type: tea.KeyEnter}, tick,
	)
	play, ok := sender.last().(multiplayer.PlayMoveMsg)
	line := engine.Seg(0, 0, 1, 0)
	if !ok || play.MatchID != "m1" || !play.Move.Equal(line) {
		t.Fatalf("sent %+v, expected %s", sender.last(), line)
	}

	game := m.match.game
	m = sessionUpdate(t, m, sessionEventMsg{event: multiplayer.SnapshotEvent{MatchID: "m1", Moves: []engine.Segment{line}}})
	if game.Board().MoveCount() != 1 {
		t.Errorf("MoveCount() = %d, expected the snapshot to be applied", game.Board().MoveCount())
	}

	m = sessionUpdate(t, m, sessionEventMsg{event: multiplayer.MatchEndedEvent{
		MatchID: "m1",
		Reason:  multiplayer.MatchEndReasonDisconnect,
		Winner:  multiplayer.SeatHost,
	}})
	if m.match != nil || !game.State().GameOver || game.State().Winner != 1 {
		t.Fatal("a disconnect should end the match in the host's favour")
	}

	sent := len(sender.msgs)
	m = sessionUpdate(t, m, tick, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewMenu {
		t.Errorf("view = %v, expected the menu after the match", m.view)
	}
	if len(sender.msgs) != sent {
		t.Errorf("leaving a finished match should not send %+v", sender.last())
	}
}

func TestSessionWithoutOnline(t *testing.T) {
	m := NewSessionModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, "bob")
	for _, item := range m.menu.items {
		if item.GameID == onlineItem {
			t.Error("the online entry needs a coordinator")
		}
	}
}
