// Package ws is the WebSocket chat gateway. Each connection is one session:
// the first JOIN frame names the participant, CHAT frames flow to the
// router, and every outbound publish fans out to all connected clients
// through a per-client write pump.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/logging"
	"github.com/hupe1980/mcpchat/transport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// Options configure the gateway.
type Options struct {
	// CheckOrigin overrides the upgrader origin policy. Defaults to
	// allowing all origins, matching a demo chat deployment.
	CheckOrigin func(r *http.Request) bool
	Logger      logging.Logger
}

// Server upgrades HTTP connections and bridges them to the router Handler.
// It implements core.Publisher for the outbound direction.
type Server struct {
	handler  transport.Handler
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan core.ChatMessage

	mu   sync.Mutex
	name string
}

func (c *client) setName(name string) {
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

func (c *client) displayName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// NewServer constructs a gateway delivering inbound events to handler.
func NewServer(handler transport.Handler, optFns ...func(o *Options)) *Server {
	opts := Options{
		CheckOrigin: func(*http.Request) bool { return true },
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		handler: handler,
		logger:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the connection and runs its read loop. The session
// identifier is assigned here and lives for the duration of the connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err.Error())
		return
	}

	c := &client{
		sessionID: core.NewID(),
		conn:      conn,
		send:      make(chan core.ChatMessage, sendBuffer),
	}

	s.mu.Lock()
	s.clients[c.sessionID] = c
	s.mu.Unlock()

	s.logger.Info("client connected", "session_id", c.sessionID, "remote", r.RemoteAddr)

	go s.writePump(c)
	s.readPump(c)
}

// Publish implements core.Publisher by fanning the message out to every
// connected client. A client whose send buffer is full misses the message
// rather than blocking the dispatcher.
func (s *Server) Publish(_ string, msg core.ChatMessage) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Warn("dropping message for slow client", "session_id", c.sessionID)
		}
	}
	return nil
}

// Count returns the number of connected clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) readPump(c *client) {
	defer s.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg core.ChatMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("unexpected close", "session_id", c.sessionID, "error", err.Error())
			}
			return
		}

		switch msg.Type {
		case core.MessageTypeJoin:
			c.setName(msg.Sender)
			s.handler.OnJoin(c.sessionID, msg.Sender)
			_ = s.Publish(transport.TopicPublic, core.ChatMessage{
				Type:      core.MessageTypeJoin,
				Sender:    msg.Sender,
				Timestamp: time.Now().Format("15:04"),
			})
		case core.MessageTypeChat:
			s.handler.OnMessage(c.sessionID, msg.Sender, msg.Content)
		default:
			s.logger.Debug("ignoring frame", "session_id", c.sessionID, "type", string(msg.Type))
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.sessionID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, c.sessionID)
	s.mu.Unlock()

	close(c.send)
	s.handler.OnLeave(c.sessionID)
	s.logger.Info("client disconnected", "session_id", c.sessionID)

	_ = s.Publish(transport.TopicPublic, core.ChatMessage{
		Type:      core.MessageTypeLeave,
		Sender:    c.displayName(),
		Timestamp: time.Now().Format("15:04"),
	})
}
