package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes the three logical chat events carried by the
// transport.
type MessageType string

const (
	// MessageTypeChat is a regular conversational message.
	MessageTypeChat MessageType = "CHAT"
	// MessageTypeJoin announces a participant joining.
	MessageTypeJoin MessageType = "JOIN"
	// MessageTypeLeave announces a participant leaving.
	MessageTypeLeave MessageType = "LEAVE"
)

// ChatMessage is the wire-level unit exchanged with the transport. Outbound
// broadcasts always carry type CHAT; JOIN and LEAVE only ever arrive inbound.
type ChatMessage struct {
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Sender    string      `json:"sender"`
	Timestamp string      `json:"timestamp"`
}

// NewChatMessage creates an outbound chat message stamped with the wall-clock
// time in HH:mm form, matching what chat clients render.
func NewChatMessage(sender, content string) ChatMessage {
	return ChatMessage{
		Type:      MessageTypeChat,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now().Format("15:04"),
	}
}

// NewID generates a unique identifier usable for sessions and invocations.
func NewID() string { return uuid.NewString() }
