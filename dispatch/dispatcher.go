// Package dispatch orchestrates one inbound chat message end to end:
// session lookup, classification, prompt rendering, the asynchronous
// backend call, history append and the single outbound publish. The
// synchronous phase runs on the caller's goroutine so user turns land in
// arrival order; the backend call runs on a bounded worker slot so the
// transport's receive path never blocks on completion.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/mcpchat/classify"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/gate"
	"github.com/hupe1980/mcpchat/internal/util"
	"github.com/hupe1980/mcpchat/logging"
	"github.com/hupe1980/mcpchat/transport"
)

const (
	assistantName = "AI Assistant"

	// emptyCompletionFallback is published when the backend succeeds but
	// returns a blank completion.
	emptyCompletionFallback = "I apologize, but I wasn't able to generate a proper response to your request. Please try rephrasing your question."
)

// Options configure a Dispatcher.
type Options struct {
	// MaxConcurrent bounds how many backend calls may be in flight at once
	// across all sessions.
	MaxConcurrent int
	// BackendTimeout bounds a single backend call. The original system had
	// no timeout; a stalled call would leak its worker forever, so one is
	// imposed here.
	BackendTimeout time.Duration
	// Topic is the outbound broadcast topic.
	Topic  string
	Logger logging.Logger
}

// Dispatcher routes inbound messages to the backend and publishes exactly
// one outbound message per inbound call, success or failure. All methods
// are safe for concurrent use.
type Dispatcher struct {
	store      core.SessionStore
	classifier *classify.Classifier
	gate       *gate.Gate
	backend    core.Backend
	pub        core.Publisher

	timeout time.Duration
	topic   string
	logger  logging.Logger

	sem chan struct{}
	wg  sync.WaitGroup
}

// New constructs a Dispatcher with optional overrides.
func New(
	store core.SessionStore,
	classifier *classify.Classifier,
	g *gate.Gate,
	b core.Backend,
	pub core.Publisher,
	optFns ...func(o *Options),
) *Dispatcher {
	opts := Options{
		MaxConcurrent:  10,
		BackendTimeout: 60 * time.Second,
		Topic:          transport.TopicPublic,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	return &Dispatcher{
		store:      store,
		classifier: classifier,
		gate:       g,
		backend:    b,
		pub:        pub,
		timeout:    opts.BackendTimeout,
		topic:      opts.Topic,
		logger:     opts.Logger,
		sem:        make(chan struct{}, opts.MaxConcurrent),
	}
}

// HandleMessage processes one inbound chat message. The user turn is
// appended and the prompt rendered before this call returns; the backend
// call and the outbound publish happen asynchronously.
func (d *Dispatcher) HandleMessage(ctx context.Context, sessionID, sender, text string) {
	logger := logging.With(d.logger, "session_id", sessionID, "username", sender)

	trimmed := strings.TrimSpace(text)
	logger.Info("message received", "length", len(trimmed), "preview", util.Preview(trimmed, 100))

	sess := d.store.Get(sessionID)
	if sender != "" {
		d.store.Rename(sessionID, sender)
	}

	result := d.classifier.Classify(trimmed)
	logger.Info("filter result",
		"routable", result.Routable,
		"category", result.Category.String(),
		"reason", result.Reason)

	useTools := result.Routable && d.gate.Ready() && d.gate.HasCategory(result.Category)
	if result.Routable && !useTools {
		logger.Info("routable message falling back", "gate_state", d.gate.State().String())
	}

	current := trimmed
	label := "LLM"
	var tools []core.ToolDescriptor
	if useTools {
		current = result.Rewritten
		label = fmt.Sprintf("MCP (%s)", result.Category)
		tools = d.gate.Tools()
	}

	// Append + render under the session lock so the user turn and its
	// rendered prompt are one atomic step in arrival order.
	var prompt string
	sess.Update(func(w *core.ContextWindow) {
		w.Append(core.UserTurn(trimmed))
		prompt = w.Render(current)
	})
	logger.Debug("prompt prepared", "length", len(prompt), "prompt", util.SanitizeForLog(prompt))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()
		d.complete(ctx, logger, sess, prompt, tools, label)
	}()
}

// complete performs the backend call and terminates the message in exactly
// one outbound publish.
func (d *Dispatcher) complete(
	ctx context.Context,
	logger logging.Logger,
	sess *core.Session,
	prompt string,
	tools []core.ToolDescriptor,
	label string,
) {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	reply, err := d.backend.Complete(cctx, prompt, tools)
	if err != nil {
		logger.Error("backend call failed",
			"source", label,
			"duration", time.Since(start),
			"error", err.Error())
		d.publishError(err)
		return
	}

	if strings.TrimSpace(reply) == "" {
		logger.Warn("empty completion from backend, substituting fallback text")
		reply = emptyCompletionFallback
	}

	sess.Update(func(w *core.ContextWindow) {
		w.Append(core.AssistantTurn(reply))
	})

	logger.Info("response generated",
		"source", label,
		"duration", time.Since(start),
		"length", len(reply))

	if err := d.pub.Publish(d.topic, core.NewChatMessage(fmt.Sprintf("%s (%s)", assistantName, label), reply)); err != nil {
		logger.Error("outbound publish failed", "error", err.Error())
	}
}

// publishError emits the single error-labeled outbound message for a failed
// dispatch. The user-visible text carries only a short descriptor; the full
// error has already been logged.
func (d *Dispatcher) publishError(err error) {
	content := fmt.Sprintf(
		"Sorry, I encountered an error while processing your request. Error type: %s. Please try again or rephrase your question.",
		errorDescriptor(err))
	if perr := d.pub.Publish(d.topic, core.NewChatMessage(assistantName+" (Error)", content)); perr != nil {
		d.logger.Error("error publish failed", "error", perr.Error())
	}
}

// errorDescriptor reduces an error to a short, non-sensitive class label.
func errorDescriptor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "BackendError"
	}
}

// Wait blocks until all in-flight dispatches have terminated. Intended for
// shutdown and tests.
func (d *Dispatcher) Wait() { d.wg.Wait() }
