package core

import "context"

// ToolDescriptor is the discovery-level view of a backend tool: name and
// human readable description only. Full parameter schemas stay inside the
// backend; routing decisions only need names.
type ToolDescriptor struct {
	Name        string `json:"toolName"`
	Description string `json:"toolDescription"`
}

// Backend is the opaque completion service invoked by the dispatcher. A nil
// or empty tool set signals plain-completion (fallback) mode; a non-empty
// set enables the tool-augmented path. Implementations must be safe for
// concurrent use.
type Backend interface {
	Complete(ctx context.Context, prompt string, tools []ToolDescriptor) (string, error)
}

// ToolLister discovers the tools a backend exposes. Used only by the
// availability gate during initialization.
type ToolLister interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
}

// Publisher carries outbound broadcasts back to the transport. Publish must
// not block on slow consumers; delivery is best effort.
type Publisher interface {
	Publish(topic string, msg ChatMessage) error
}

// SessionStore tracks connected participants and their conversation windows.
// All methods must be safe under concurrent join/leave/message traffic.
type SessionStore interface {
	OnJoin(sessionID, displayName string)
	OnLeave(sessionID string)
	Get(sessionID string) *Session
	Rename(sessionID, displayName string)
	Count() int
}
