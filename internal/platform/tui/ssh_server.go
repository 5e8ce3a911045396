package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tryangles/internal/core"
	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	"github.com/vovakirdan/tryangles/internal/multiplayer"
	"github.com/vovakirdan/tryangles/internal/registry"
	"github.com/vovakirdan/tryangles/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tryangles/host_key.
	HostKeyPath string

	// DBPath is the path to the results database.
	DBPath string

	// TickRate is the simulation rate of every session.
	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Logger receives server and session events. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		TickRate:    60,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for Tryangles. Connected players can
// also meet in online matches run by its coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tryangles-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		// Continue without storage
		store = nil
	}

	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.Logger = logger.With("component", "coordinator")
	coordinator := multiplayer.NewCoordinator(coordCfg, refereeFactory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tryangles", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, cfg, sshSession.User())
	model.logger = s.logger.With("session", model.sessionID)

	// Register the session for online matches
	channel := multiplayer.NewChannelSession(multiplayer.SessionID(model.sessionID), sshSession.User(), 0)
	s.sessions.Register(channel)
	model = model.withOnline(s.coordinator, channel)

	go func() {
		<-sshSession.Context().Done()
		channel.Close()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: channel.ID()})
		s.sessions.Unregister(channel.ID())
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	err := s.server.Shutdown(ctx)

	if s.store != nil {
		s.store.Close()
	}

	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionView is the screen a session is showing.
type sessionView int

const (
	viewMenu sessionView = iota
	viewSetup
	viewGame
	viewHistory
	viewLobby
)

// onlineMatch is the match a session is playing.
type onlineMatch struct {
	id   multiplayer.MatchID
	game *tryangles.Game
}

// SessionModel manages the full session flow:
// menu -> setup -> game -> menu, menu -> history -> menu and,
// when online play is enabled, menu -> lobby -> game -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	config    core.RuntimeConfig
	username  string
	sessionID string
	logger    *log.Logger
	view      sessionView
	menu      MenuModel
	setup     SetupModel
	history   HistoryModel
	lobby     OnlineLobbyModel
	game      registry.Game
	gameModel Model
	quitting  bool

	coordinator CoordinatorSender           // nil when online play is off
	channel     *multiplayer.ChannelSession // events from the coordinator
	match       *onlineMatch
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		store:     store,
		config:    cfg,
		username:  username,
		sessionID: uuid.NewString(),
		logger:    log.Default(),
		menu:      NewMenuModel(cfg),
	}
}

// withOnline enables online matches through coordinator. Events for the
// session arrive on channel.
func (m SessionModel) withOnline(coordinator CoordinatorSender, channel *multiplayer.ChannelSession) SessionModel {
	m.coordinator = coordinator
	m.channel = channel
	m.menu = m.newMenu()
	return m
}

// newMenu builds the mode menu, with the online entry when enabled.
func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.config)
	if m.channel != nil {
		menu = menu.WithItem(MenuItem{GameID: onlineItem, Title: "Online match"})
	}
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.channel == nil {
		return m.menu.Init()
	}
	return tea.Batch(m.menu.Init(), waitForEvent(m.channel))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if evt, ok := msg.(sessionEventMsg); ok {
		next, cmd := m.handleSessionEvent(evt.event)
		return next, tea.Batch(cmd, waitForEvent(m.channel))
	}

	switch m.view {
	case viewSetup:
		return m.updateSetup(msg)
	case viewGame:
		return m.updateGame(msg)
	case viewHistory:
		return m.updateHistory(msg)
	case viewLobby:
		return m.updateLobby(msg)
	default:
		return m.updateMenu(msg)
	}
}

// backToMenu shows a fresh menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.game = nil
	m.match = nil
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		m.view = viewHistory
		m.history = NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.history.Init()
	}

	// Check if game was selected
	if selected := m.menu.Selected(); selected != nil {
		if selected.GameID == onlineItem && m.coordinator != nil {
			m.config = m.menu.Config()
			m.view = viewLobby
			m.lobby = NewOnlineLobbyModel(m.coordinator, m.channel.ID(), m.config.ScreenW, m.config.ScreenH)
			return m, m.lobby.Init()
		}

		game, err := registry.Create(selected.GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered games
			return m.backToMenu()
		}
		m.game = game
		m.config = m.menu.Config() // Get possibly updated config from resize

		if c, ok := game.(Configurable); ok {
			m.view = viewSetup
			m.setup = NewSetupModel(game.Title(), c.Config(), c.HasCPU(), m.config.ScreenW, m.config.ScreenH)
			return m, m.setup.Init()
		}
		return m.startGame()
	}

	return m, cmd
}

// updateSetup handles updates while the board is being set up.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSetup, cmd := m.setup.Update(msg)
	if setupModel, ok := newSetup.(SetupModel); ok {
		m.setup = setupModel
	}

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.setup.WantsBack():
		return m.backToMenu()
	case m.setup.Selected() != nil:
		if c, ok := m.game.(Configurable); ok {
			c.SetConfig(m.setup.Selected().Apply(c.Config()))
		}
		return m.startGame()
	}

	return m, cmd
}

// startGame switches to the selected game.
func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	m.config.Seed = time.Now().UnixNano()
	m.gameModel = NewModel(m.game, m.store, m.config)
	m.view = viewGame
	m.logger.Info("game started", "user", m.username, "game", m.game.ID())
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	wasSaved := m.gameModel.SavedResultID()

	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.gameModel = gameModel
	}

	if id := m.gameModel.SavedResultID(); id != "" && id != wasSaved {
		m.logger.Info("game finished", "user", m.username, "game", m.game.ID(), "result", id)
	}

	// Check if user quit game (back to menu)
	if m.gameModel.BackToMenu() {
		m.leaveMatch()
		return m.backToMenu()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.leaveMatch()
		m.quitting = true
		return m, tea.Quit
	}

	m.sendMoves()
	return m, cmd
}

// updateLobby handles updates on the online lobby screen.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLobby, cmd := m.lobby.Update(msg)
	if lobbyModel, ok := newLobby.(OnlineLobbyModel); ok {
		m.lobby = lobbyModel
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.BackToMenu():
		return m.backToMenu()
	case m.lobby.Started() != nil:
		return m.startOnline(*m.lobby.Started())
	}

	return m, cmd
}

// startOnline switches to the local side of a started match. Results are
// saved by the coordinator, so the game model gets no store.
func (m SessionModel) startOnline(evt multiplayer.MatchStartedEvent) (tea.Model, tea.Cmd) {
	cfg := tryangles.Settings()
	cfg.Board.Width = evt.Width
	cfg.Board.Height = evt.Height

	game := tryangles.NewOnline(cfg, evt.Seat, evt.Players)
	m.game = game
	m.match = &onlineMatch{id: evt.MatchID, game: game}

	m.config.Seed = time.Now().UnixNano()
	m.gameModel = NewModel(game, nil, m.config)
	m.view = viewGame
	m.logger.Info("online match started", "user", m.username, "match", evt.MatchID, "seat", evt.Seat)
	return m, m.gameModel.Init()
}

// handleSessionEvent routes a coordinator event to the lobby or the match.
func (m SessionModel) handleSessionEvent(evt multiplayer.SessionEvent) (tea.Model, tea.Cmd) {
	if m.view == viewLobby {
		return m.updateLobby(evt)
	}
	if m.match == nil {
		return m, nil
	}

	game := m.match.game
	switch e := evt.(type) {
	case multiplayer.SnapshotEvent:
		if e.MatchID == m.match.id {
			game.Sync(e.Moves)
		}
	case multiplayer.MoveRejectedEvent:
		if e.MatchID == m.match.id {
			game.Reject(e.Reason)
		}
	case multiplayer.MatchEndedEvent:
		if e.MatchID != m.match.id {
			break
		}
		switch e.Reason {
		case multiplayer.MatchEndReasonDisconnect:
			game.EndMatch(e.Winner, tryangles.ReasonForfeit)
		case multiplayer.MatchEndReasonCancelled:
			game.EndMatch(0, tryangles.ReasonCancelled)
		}
		m.logger.Info("online match ended", "user", m.username, "match", e.MatchID,
			"reason", e.Reason, "winner", e.Winner)
		m.match = nil
	}
	return m, nil
}

// sendMoves forwards lines drawn in an online match to the coordinator.
func (m SessionModel) sendMoves() {
	if m.match == nil {
		return
	}
	for _, move := range m.match.game.TakeMoves() {
		m.coordinator.Send(multiplayer.PlayMoveMsg{
			MatchID:   m.match.id,
			SessionID: m.channel.ID(),
			Move:      move,
		})
	}
}

// leaveMatch forfeits the running online match, if any.
func (m SessionModel) leaveMatch() {
	if m.match == nil {
		return
	}
	m.coordinator.Send(multiplayer.LeaveMatchMsg{
		SessionID: m.channel.ID(),
		MatchID:   m.match.id,
	})
}

// updateHistory handles updates on the history screen.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newHistory, cmd := m.history.Update(msg)
	if historyModel, ok := newHistory.(HistoryModel); ok {
		m.history = historyModel
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.history.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewSetup:
		return m.setup.View()
	case viewGame:
		return m.gameModel.View()
	case viewHistory:
		return m.history.View()
	case viewLobby:
		return m.lobby.View()
	default:
		return m.menu.View()
	}
}
