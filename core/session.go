package core

import (
	"sync"
	"time"
)

// Session represents one connected chat participant and exclusively owns its
// conversation context window. All window access goes through Update so
// mutations for a single session are applied in arrival order even though
// dispatch is asynchronous; different sessions never contend on each other.
type Session struct {
	ID          string
	Joined      time.Time
	mu          sync.Mutex
	displayName string
	window      *ContextWindow
}

// NewSession creates a session with an empty context window.
func NewSession(id, displayName string, optFns ...WindowOption) *Session {
	return &Session{
		ID:          id,
		Joined:      time.Now(),
		displayName: displayName,
		window:      NewContextWindow(optFns...),
	}
}

// DisplayName returns the participant's current display name.
func (s *Session) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayName
}

// SetDisplayName applies an explicit rename event.
func (s *Session) SetDisplayName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayName = name
}

// Update runs fn with exclusive access to the session's context window.
// Callers must not retain the window pointer past fn.
func (s *Session) Update(fn func(w *ContextWindow)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.window)
}

// History returns a snapshot of the retained turns.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Turns()
}
