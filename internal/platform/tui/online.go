package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	"github.com/vovakirdan/tryangles/internal/multiplayer"
)

// onlineItem is the menu entry that opens the online lobby.
const onlineItem = "online"

// joinCodeLength is the length of a lobby join code.
const joinCodeLength = 6

// OnlineState is a step of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // host or join
	OnlineStateChooseSize                       // host picks the board
	OnlineStateHostWaiting                      // lobby open, waiting for a guest
	OnlineStateJoinEnterCode                    // typing a join code
	OnlineStateJoinWaiting                      // join sent, waiting for the match
	OnlineStateStarted                          // match started
)

// CoordinatorSender delivers messages to the match coordinator.
type CoordinatorSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// sessionEventMsg wraps an event from the coordinator for Bubble Tea.
type sessionEventMsg struct {
	event multiplayer.SessionEvent
}

// waitForEvent waits for the next coordinator event for session.
// It yields nothing once the session is closed.
func waitForEvent(session *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-session.Events():
			return sessionEventMsg{event: evt}
		case <-session.Done():
			return nil
		}
	}
}

// refereeFactory creates the authoritative board of an online match.
func refereeFactory(width, height int) (multiplayer.OnlineGame, error) {
	r, err := tryangles.NewReferee(width, height)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// OnlineLobbyModel lets a player host a lobby or join one by code.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	sessionID   multiplayer.SessionID
	coordinator CoordinatorSender

	sizeCursor int
	lobbyCode  string
	board      BoardSize

	joinCodeInput string
	lastError     string
	opponent      string

	started    *multiplayer.MatchStartedEvent
	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates the lobby screen for a session.
func NewOnlineLobbyModel(coordinator CoordinatorSender, sessionID multiplayer.SessionID, width, height int) OnlineLobbyModel {
	board := tryangles.Settings().Board
	sizeCursor := 0
	for i, s := range BoardSizes {
		if s.Width == board.Width && s.Height == board.Height {
			sizeCursor = i
		}
	}

	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		sessionID:   sessionID,
		coordinator: coordinator,
		sizeCursor:  sizeCursor,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and coordinator events.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.opponent = msg.Opponent
	case multiplayer.LobbyErrorEvent:
		m.lastError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
			m.lobbyCode = ""
		}
	case multiplayer.MatchStartedEvent:
		m.started = &msg
		m.state = OnlineStateStarted
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateChooseSize:
		return m.handleChooseSizeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) quit() (tea.Model, tea.Cmd) {
	m.cancelLobby()
	m.quitting = true
	return m, tea.Quit
}

// cancelLobby closes the hosted lobby, if any.
func (m *OnlineLobbyModel) cancelLobby() {
	if m.lobbyCode == "" {
		return
	}
	m.coordinator.Send(multiplayer.CancelLobbyMsg{
		SessionID: m.sessionID,
		Code:      m.lobbyCode,
	})
	m.lobbyCode = ""
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.state = OnlineStateChooseSize
		m.lastError = ""
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.lastError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m OnlineLobbyModel) handleChooseSizeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m.quit()
	case MenuActionUp:
		if m.sizeCursor > 0 {
			m.sizeCursor--
		}
	case MenuActionDown:
		if m.sizeCursor < len(BoardSizes)-1 {
			m.sizeCursor++
		}
	case MenuActionSelect:
		m.board = BoardSizes[m.sizeCursor]
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			Width:     m.board.Width,
			Height:    m.board.Height,
		})
	case MenuActionBack:
		m.state = OnlineStateChooseMode
	}
	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.cancelLobby()
		m.state = OnlineStateChooseMode
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
	case "enter":
		if len(m.joinCodeInput) == joinCodeLength {
			m.state = OnlineStateJoinWaiting
			m.lastError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Codes use A-Z and 2-7.
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLength {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '2' && c <= '7') {
				m.joinCodeInput += string(c)
			}
		}
	}
	return m, nil
}

// View renders the current step.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseSize:
		return m.viewChooseSize()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewJoinWaiting()
	case OnlineStateStarted:
		return m.viewStarted()
	default:
		return m.viewChooseMode()
	}
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE MATCH", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n")
	m.writeError(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewChooseSize() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOST A GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select board size:", m.width))
	b.WriteString("\n\n")
	for i, s := range BoardSizes {
		line := fmt.Sprintf("%-10s %2d x %-2d", s.Label, s.Width, s.Height)
		b.WriteString(centerText(menuLine(i == m.sizeCursor, line), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Open lobby  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Board %d x %d. You move first.", m.board.Width, m.board.Height), m.width))
	b.WriteString("\n")
	b.WriteString(centerText("Waiting for a player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	code := m.joinCodeInput
	if len(code) < joinCodeLength {
		code += "_" + strings.Repeat(" ", joinCodeLength-1-len(code))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", code), m.width))
	b.WriteString("\n")
	m.writeError(&b)
	b.WriteString("\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining game %s...", m.joinCodeInput), m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewStarted() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH STARTING", m.width))
	b.WriteString("\n\n")
	if m.opponent != "" {
		b.WriteString(centerText("Playing against "+m.opponent, m.width))
	}

	return b.String()
}

func (m OnlineLobbyModel) writeError(b *strings.Builder) {
	if m.lastError == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(centerText("Error: "+m.lastError, m.width))
	b.WriteString("\n")
}

// State returns the current step.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// Started returns the match that began, or nil while still in the lobby.
func (m OnlineLobbyModel) Started() *multiplayer.MatchStartedEvent {
	return m.started
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// LobbyCode returns the code of the hosted lobby.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}
