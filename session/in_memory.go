package session

import (
	"sync"

	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/logging"
)

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. The store lock guards the map only; per-session serialization
// is provided by the sessions themselves, so traffic on different sessions
// never blocks.
type InMemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*core.Session
	windowOpts []core.WindowOption
	logger     logging.Logger
}

// Options configure an InMemoryStore.
type Options struct {
	// WindowOptions are applied to every newly created session window.
	WindowOptions []core.WindowOption
	Logger        logging.Logger
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		sessions:   make(map[string]*core.Session),
		windowOpts: opts.WindowOptions,
		logger:     opts.Logger,
	}
}

// OnJoin registers a participant, replacing any prior state for the same
// session identifier.
func (s *InMemoryStore) OnJoin(sessionID, displayName string) {
	s.mu.Lock()
	s.sessions[sessionID] = core.NewSession(sessionID, displayName, s.windowOpts...)
	count := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("user joined chat", "session_id", sessionID, "username", displayName, "active_sessions", count)
}

// OnLeave eagerly removes the session and its history. There is no TTL or
// grace period; an abandoned session lives until its leave event arrives.
func (s *InMemoryStore) OnLeave(sessionID string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	count := len(s.sessions)
	s.mu.Unlock()
	if ok {
		s.logger.Info("session cleaned up", "session_id", sessionID, "username", sess.DisplayName(), "active_sessions", count)
	}
}

// Get returns the session, lazily creating an empty one for unknown
// identifiers so a message arriving before its join event still routes.
func (s *InMemoryStore) Get(sessionID string) *core.Session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess = core.NewSession(sessionID, "", s.windowOpts...)
	s.sessions[sessionID] = sess
	s.logger.Debug("session lazily created", "session_id", sessionID)
	return sess
}

// Rename applies an explicit display-name change event.
func (s *InMemoryStore) Rename(sessionID, displayName string) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		sess.SetDisplayName(displayName)
	}
}

// Count returns the number of active sessions.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
