package transport

import (
	"sync"

	"github.com/hupe1980/mcpchat/core"
)

// Broker is a process-local publish/subscribe hub implementing
// core.Publisher. Delivery is best effort: a subscriber whose buffer is full
// misses the message rather than blocking the publisher. Suited for tests
// and single-process embedding.
type Broker struct {
	mu   sync.RWMutex
	subs map[string][]chan core.ChatMessage
}

// NewBroker constructs an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]chan core.ChatMessage)}
}

// Subscribe registers interest in a topic. The returned cancel function
// removes the subscription and closes the channel.
func (b *Broker) Subscribe(topic string, buffer int) (<-chan core.ChatMessage, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan core.ChatMessage, buffer)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		chans := b.subs[topic]
		for i, c := range chans {
			if c == ch {
				b.subs[topic] = append(chans[:i], chans[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish implements core.Publisher.
func (b *Broker) Publish(topic string, msg core.ChatMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			// Slow subscriber; drop rather than stall the dispatcher.
		}
	}
	return nil
}
