package multiplayer

import "sync"

// SessionHandle is how the coordinator and matches reach a session without
// depending on Wish or Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Name returns the player's display name.
	Name() string

	// Send delivers an event to the session. It must not block.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// defaultEventBuffer is used when no positive buffer size is given.
const defaultEventBuffer = 64

// ChannelSession is a SessionHandle backed by a buffered channel. The TUI
// layer reads Events and closes the session when the connection ends.
type ChannelSession struct {
	id       SessionID
	name     string
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelSession creates a session handle that buffers up to bufferSize
// events before dropping the oldest.
func NewChannelSession(id SessionID, name string, bufferSize int) *ChannelSession {
	if bufferSize < 1 {
		bufferSize = defaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		name:   name,
		events: make(chan SessionEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Name returns the player's display name.
func (s *ChannelSession) Name() string {
	return s.name
}

// Send queues an event. When the buffer is full the oldest event is dropped;
// snapshots carry the whole move list, so a newer one replaces what was lost.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel events arrive on.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as ended. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks connected sessions. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get looks a session up by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
