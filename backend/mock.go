package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/mcpchat/core"
)

// Mock is a lightweight in-memory core.Backend useful for tests and
// examples. Canned responses are matched on the current-message portion of
// the prompt; unmatched prompts get a deterministic echo. An injected error
// or delay applies to every call.
type Mock struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	delay     time.Duration
	calls     []MockCall
}

// MockCall records one Complete invocation for assertions.
type MockCall struct {
	Prompt string
	Tools  []core.ToolDescriptor
}

// NewMock constructs an empty mock backend.
func NewMock() *Mock {
	return &Mock{responses: make(map[string]string)}
}

// AddResponse registers a canned completion keyed on a prompt substring.
func (m *Mock) AddResponse(promptContains, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[promptContains] = response
}

// FailWith makes every subsequent call return err.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// DelayBy makes every subsequent call block for d before responding.
func (m *Mock) DelayBy(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns a copy of all recorded invocations in order.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements core.Backend.
func (m *Mock) Complete(ctx context.Context, prompt string, tools []core.ToolDescriptor) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Tools: tools})
	err := m.err
	delay := m.delay
	var response string
	for needle, resp := range m.responses {
		if needle != "" && strings.Contains(prompt, needle) {
			response = resp
			break
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return "", err
	}
	if response == "" {
		response = fmt.Sprintf("Mock response to: %s", prompt)
	}
	return response, nil
}
