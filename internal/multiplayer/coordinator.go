package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tryangles/internal/core"
)

// Lobby is a hosted board waiting for a second player.
type Lobby struct {
	Code      string
	Width     int
	Height    int
	Host      SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long a lobby waits for a guest
	CleanupPeriod time.Duration // how often expired lobbies are removed
	Logger        *log.Logger   // defaults to log.Default()
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates the rule keeper for a new match.
type GameFactory func(width, height int) (OnlineGame, error)

// MatchResultSaver persists finished matches. *storage.Store satisfies it.
type MatchResultSaver interface {
	SaveOutcome(o core.Outcome) (string, error)
}

// Coordinator manages lobbies and active matches. Requests are handled one
// at a time on its own goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // optional
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // match ID -> match

	sessionLobby map[SessionID]string  // session -> lobby code
	sessionMatch map[SessionID]MatchID // session -> match ID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a coordinator. Call Start before sending messages.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets where finished matches are saved.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down and cancels running matches.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		defer c.mu.Unlock()
		for id, match := range c.matches {
			match.Stop()
			evt := MatchEndedEvent{MatchID: id, Reason: MatchEndReasonCancelled}
			for _, s := range match.seats {
				s.Send(evt)
			}
		}
	})
}

// Send queues a message for processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayMoveMsg:
		c.handlePlayMove(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Width:     msg.Width,
		Height:    msg.Height,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code

	c.logger.Info("lobby created", "code", code, "host", session.Name(),
		"board", fmt.Sprintf("%dx%d", msg.Width, msg.Height))
	session.Send(LobbyCreatedEvent{Code: code, Width: msg.Width, Height: msg.Height})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Host.Send(LobbyJoinedEvent{Code: code, Seat: SeatHost, Opponent: session.Name()})
	session.Send(LobbyJoinedEvent{Code: code, Seat: SeatGuest, Opponent: lobby.Host.Name()})

	c.startMatch(lobby, session)
}

// busy reports whether a session is in a lobby or a match.
// Must be called with the lock held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

// startMatch turns a lobby into a running match.
// Must be called with the lock held.
func (c *Coordinator) startMatch(lobby *Lobby, guest SessionHandle) {
	delete(c.lobbies, lobby.Code)
	delete(c.sessionLobby, lobby.Host.ID())

	game, err := c.gameFactory(lobby.Width, lobby.Height)
	if err != nil {
		c.logger.Error("cannot create match", "code", lobby.Code, "error", err)
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		guest.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	matchID := MatchID(uuid.NewString())
	match := NewOnlineMatch(matchID, lobby.Code, game, lobby.Host, guest)

	c.matches[matchID] = match
	c.sessionMatch[lobby.Host.ID()] = matchID
	c.sessionMatch[guest.ID()] = matchID

	players := match.Players()
	for i, s := range match.seats {
		s.Send(MatchStartedEvent{
			MatchID: matchID,
			Seat:    i + 1,
			Code:    lobby.Code,
			Width:   lobby.Width,
			Height:  lobby.Height,
			Players: players,
		})
	}
	c.logger.Info("match started", "match", matchID, "code", lobby.Code,
		"host", players[0], "guest", players[1])

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(result)
	})
}

func (c *Coordinator) handleMatchEnded(result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[result.MatchID]
	if !exists {
		return
	}

	for _, s := range match.seats {
		delete(c.sessionMatch, s.ID())
	}
	delete(c.matches, result.MatchID)

	c.logger.Info("match ended", "match", result.MatchID,
		"reason", result.Reason, "winner", result.Winner, "moves", len(result.Outcome.Moves))

	if c.resultSaver != nil {
		saver, outcome := c.resultSaver, result.Outcome
		go func() {
			if _, err := saver.SaveOutcome(outcome); err != nil {
				c.logger.Warn("could not save match result", "match", result.MatchID, "error", err)
			}
		}()
	}

	evt := MatchEndedEvent{
		MatchID: result.MatchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
	}
	for _, s := range match.seats {
		s.Send(evt)
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Debug("lobby cancelled", "code", msg.Code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.PlayerDisconnected(msg.SessionID)
	}
}

func (c *Coordinator) handlePlayMove(msg PlayMoveMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if exists {
		match.SubmitMove(msg.SessionID, msg.Move)
	}
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

// generateUniqueCode must be called with the lock held.
func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character code from A-Z and 2-7.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a running match by ID.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
