package core

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser marks a turn authored by the human participant.
	RoleUser Role = iota
	// RoleAssistant marks a turn authored by the backend.
	RoleAssistant
)

// String returns the serialized prefix used when rendering history.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return "Unknown"
	}
}

// Turn is one message in a conversation history.
type Turn struct {
	Role Role
	Text string
}

// UserTurn is a convenience constructor for a user-authored turn.
func UserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// AssistantTurn is a convenience constructor for an assistant-authored turn.
func AssistantTurn(text string) Turn { return Turn{Role: RoleAssistant, Text: text} }
