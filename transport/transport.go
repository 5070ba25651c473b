// Package transport defines the publish/subscribe boundary between the
// router core and whatever carries chat traffic. The core consumes two
// logical inbound events (join, message) through Handler and emits outbound
// broadcasts through core.Publisher. This package ships an in-memory broker
// for tests and embedding; subpackage ws provides a WebSocket gateway.
package transport

// TopicPublic is the broadcast topic every completed or failed dispatch is
// published to.
const TopicPublic = "/topic/public"

// Handler consumes the logical inbound transport events. Implementations
// must return quickly; message processing is dispatched asynchronously
// behind this boundary so the transport's receive path never blocks on
// backend completion.
type Handler interface {
	// OnJoin signals a new participant with their chosen display name.
	OnJoin(sessionID, displayName string)

	// OnLeave signals a disconnect; session state is released eagerly.
	OnLeave(sessionID string)

	// OnMessage delivers one inbound chat message.
	OnMessage(sessionID, sender, text string)
}
