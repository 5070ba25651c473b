package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mcpchat/core"
)

type recordingHandler struct {
	mu       sync.Mutex
	joins    []string
	leaves   []string
	messages []string
}

func (r *recordingHandler) OnJoin(_, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joins = append(r.joins, displayName)
}

func (r *recordingHandler) OnLeave(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves = append(r.leaves, sessionID)
}

func (r *recordingHandler) OnMessage(_, sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, sender+": "+text)
}

func (r *recordingHandler) snapshot() (joins, leaves, messages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.joins...),
		append([]string(nil), r.leaves...),
		append([]string(nil), r.messages...)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestServer_JoinAndChatReachHandler(t *testing.T) {
	handler := &recordingHandler{}
	gateway := NewServer(handler)
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return gateway.Count() == 1 })

	require.NoError(t, conn.WriteJSON(core.ChatMessage{Type: core.MessageTypeJoin, Sender: "alice"}))
	require.NoError(t, conn.WriteJSON(core.ChatMessage{Type: core.MessageTypeChat, Sender: "alice", Content: "hello"}))

	waitFor(t, func() bool {
		_, _, messages := handler.snapshot()
		return len(messages) == 1
	})

	joins, _, messages := handler.snapshot()
	assert.Equal(t, []string{"alice"}, joins)
	assert.Equal(t, []string{"alice: hello"}, messages)
}

func TestServer_JoinIsBroadcast(t *testing.T) {
	handler := &recordingHandler{}
	gateway := NewServer(handler)
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	observer := dial(t, srv)
	joiner := dial(t, srv)
	waitFor(t, func() bool { return gateway.Count() == 2 })

	require.NoError(t, joiner.WriteJSON(core.ChatMessage{Type: core.MessageTypeJoin, Sender: "bob"}))

	require.NoError(t, observer.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg core.ChatMessage
	require.NoError(t, observer.ReadJSON(&msg))
	assert.Equal(t, core.MessageTypeJoin, msg.Type)
	assert.Equal(t, "bob", msg.Sender)
}

func TestServer_PublishFansOutToAllClients(t *testing.T) {
	handler := &recordingHandler{}
	gateway := NewServer(handler)
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	waitFor(t, func() bool { return gateway.Count() == 2 })

	require.NoError(t, gateway.Publish("/topic/public", core.NewChatMessage("AI Assistant (LLM)", "hi all")))

	for _, conn := range []*websocket.Conn{c1, c2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg core.ChatMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "hi all", msg.Content)
		assert.Equal(t, "AI Assistant (LLM)", msg.Sender)
	}
}

func TestServer_DisconnectNotifiesHandlerAndBroadcastsLeave(t *testing.T) {
	handler := &recordingHandler{}
	gateway := NewServer(handler)
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	observer := dial(t, srv)
	leaver := dial(t, srv)
	waitFor(t, func() bool { return gateway.Count() == 2 })

	require.NoError(t, leaver.WriteJSON(core.ChatMessage{Type: core.MessageTypeJoin, Sender: "carol"}))

	// Drain carol's join broadcast first.
	require.NoError(t, observer.SetReadDeadline(time.Now().Add(2*time.Second)))
	var join core.ChatMessage
	require.NoError(t, observer.ReadJSON(&join))
	require.Equal(t, core.MessageTypeJoin, join.Type)

	_ = leaver.Close()
	waitFor(t, func() bool { return gateway.Count() == 1 })

	_, leaves, _ := handler.snapshot()
	assert.Len(t, leaves, 1)

	var leave core.ChatMessage
	require.NoError(t, observer.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, observer.ReadJSON(&leave))
	assert.Equal(t, core.MessageTypeLeave, leave.Type)
	assert.Equal(t, "carol", leave.Sender)
}

func TestServer_IgnoresUnknownFrameTypes(t *testing.T) {
	handler := &recordingHandler{}
	gateway := NewServer(handler)
	srv := httptest.NewServer(gateway)
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return gateway.Count() == 1 })

	require.NoError(t, conn.WriteJSON(core.ChatMessage{Type: "NONSENSE", Sender: "x"}))
	require.NoError(t, conn.WriteJSON(core.ChatMessage{Type: core.MessageTypeChat, Sender: "x", Content: "after"}))

	waitFor(t, func() bool {
		_, _, messages := handler.snapshot()
		return len(messages) == 1
	})
}
