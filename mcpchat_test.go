package mcpchat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mcpchat/backend"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/gate"
	"github.com/hupe1980/mcpchat/transport"
)

type staticLister struct {
	tools []core.ToolDescriptor
}

func (s *staticLister) ListTools(_ context.Context) ([]core.ToolDescriptor, error) {
	return s.tools, nil
}

func newReadyGate(t *testing.T) *gate.Gate {
	t.Helper()
	g := gate.New(&staticLister{tools: []core.ToolDescriptor{
		{Name: "math_calculator"},
		{Name: "getCurrentWeather"},
	}}, func(o *gate.Options) {
		o.ConnectWait = 0
		o.MaxAttempts = 1
	})
	require.NoError(t, g.Initialize(context.Background()))
	return g
}

func recv(t *testing.T, ch <-chan core.ChatMessage) core.ChatMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
		return core.ChatMessage{}
	}
}

func TestChat_EndToEnd(t *testing.T) {
	mock := backend.NewMock()
	mock.AddResponse("add 2 and 3", "The sum is 5.")

	broker := transport.NewBroker()
	outbound, unsubscribe := broker.Subscribe(transport.TopicPublic, 16)
	defer unsubscribe()

	chat := New(newReadyGate(t), mock, func(o *Options) {
		o.Publisher = broker
	})

	chat.OnJoin("s1", "alice")
	chat.OnMessage("s1", "alice", "add 2 and 3")

	msg := recv(t, outbound)
	chat.Wait()

	assert.Equal(t, "AI Assistant (MCP (MATH))", msg.Sender)
	assert.Equal(t, "The sum is 5.", msg.Content)

	chat.OnLeave("s1")
}

func TestChat_DefaultsToInMemoryServices(t *testing.T) {
	chat := New(newReadyGate(t), backend.NewMock())

	require.NotNil(t, chat.Publisher())
	require.NotNil(t, chat.Gate())
	assert.True(t, chat.Gate().Ready())
}

func TestChat_HistoryBoundFromOptions(t *testing.T) {
	mock := backend.NewMock()
	broker := transport.NewBroker()
	outbound, unsubscribe := broker.Subscribe(transport.TopicPublic, 64)
	defer unsubscribe()

	chat := New(newReadyGate(t), mock, func(o *Options) {
		o.Publisher = broker
		o.MaxHistory = 4
	})

	chat.OnJoin("s1", "alice")
	for i := 0; i < 5; i++ {
		chat.OnMessage("s1", "alice", "tell me something new")
		recv(t, outbound)
		chat.Wait()
	}

	// 5 user turns + 5 assistant turns, capped at 4 retained.
	history := chat.opts.SessionStore.Get("s1").History()
	assert.Len(t, history, 4)
}
