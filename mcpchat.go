// Package mcpchat provides a high-level façade over the message router:
// session bookkeeping, intent classification, tool-availability gating and
// dispatch to a language model backend. Most applications interact with this
// package by:
//  1. Creating a Chat via New() (optionally overriding default in-memory services)
//  2. Plugging it into a transport as the message Handler
//  3. Subscribing to the outbound publisher for assistant responses
//
// All defaults are safe for local development and testing; production
// deployments typically supply a connected tool gate, a real backend and a
// structured logger.
package mcpchat

import (
	"context"
	"time"

	"github.com/hupe1980/mcpchat/classify"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/dispatch"
	"github.com/hupe1980/mcpchat/gate"
	"github.com/hupe1980/mcpchat/logging"
	"github.com/hupe1980/mcpchat/session"
	"github.com/hupe1980/mcpchat/transport"
)

// Options configures the Chat instance.
type Options struct {
	// MaxHistory bounds the number of retained turns per session.
	MaxHistory int
	// MaxContextTurns bounds how many prior turns a prompt may include.
	MaxContextTurns int
	// MaxPromptLen bounds the rendered prompt length in characters.
	MaxPromptLen int

	// MaxConcurrent limits simultaneous backend calls across all sessions.
	MaxConcurrent int
	// BackendTimeout bounds a single backend call.
	BackendTimeout time.Duration
	// Topic is the outbound broadcast topic.
	Topic string

	// SessionStore defaults to an in-memory implementation if not provided.
	SessionStore core.SessionStore
	// Publisher receives every outbound assistant message. Defaults to an
	// in-memory broker.
	Publisher core.Publisher

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Chat is the high-level façade aggregating the classifier, gate, session
// store and dispatcher. It implements transport.Handler.
type Chat struct {
	opts       Options
	store      core.SessionStore
	pub        core.Publisher
	gate       *gate.Gate
	dispatcher *dispatch.Dispatcher
	logger     logging.Logger
}

var _ transport.Handler = (*Chat)(nil)

// New creates a Chat instance routing messages through the given gate and
// backend, with optional overrides. Any unset service is initialized with an
// in-memory implementation.
func New(g *gate.Gate, b core.Backend, optFns ...func(o *Options)) *Chat {
	opts := Options{
		MaxHistory:      core.DefaultMaxTurns,
		MaxContextTurns: core.DefaultMaxContextTurns,
		MaxPromptLen:    core.DefaultMaxPromptLen,
		MaxConcurrent:   10,
		BackendTimeout:  60 * time.Second,
		Topic:           transport.TopicPublic,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore(func(o *session.Options) {
			o.WindowOptions = []core.WindowOption{
				core.WithMaxTurns(opts.MaxHistory),
				core.WithMaxContextTurns(opts.MaxContextTurns),
				core.WithMaxPromptLen(opts.MaxPromptLen),
			}
			o.Logger = opts.Logger
		})
	}
	if opts.Publisher == nil {
		opts.Publisher = transport.NewBroker()
	}

	d := dispatch.New(opts.SessionStore, classify.New(), g, b, opts.Publisher, func(o *dispatch.Options) {
		o.MaxConcurrent = opts.MaxConcurrent
		o.BackendTimeout = opts.BackendTimeout
		o.Topic = opts.Topic
		o.Logger = opts.Logger
	})

	return &Chat{
		opts:       opts,
		store:      opts.SessionStore,
		pub:        opts.Publisher,
		gate:       g,
		dispatcher: d,
		logger:     opts.Logger,
	}
}

// OnJoin registers a session with its display name.
func (c *Chat) OnJoin(sessionID, displayName string) {
	c.store.OnJoin(sessionID, displayName)
	c.logger.Info("user joined", "session_id", sessionID, "username", displayName)
}

// OnLeave discards the session and its history.
func (c *Chat) OnLeave(sessionID string) {
	c.store.OnLeave(sessionID)
	c.logger.Info("user left", "session_id", sessionID)
}

// OnMessage routes one inbound chat message. The response is published
// asynchronously to the configured topic.
func (c *Chat) OnMessage(sessionID, sender, text string) {
	c.dispatcher.HandleMessage(context.Background(), sessionID, sender, text)
}

// Publisher returns the outbound publisher, so callers can subscribe or
// fan messages out to a transport.
func (c *Chat) Publisher() core.Publisher { return c.pub }

// Gate exposes the tool-availability gate for readiness inspection and
// operator-driven reinitialization.
func (c *Chat) Gate() *gate.Gate { return c.gate }

// Wait blocks until all in-flight dispatches have terminated.
func (c *Chat) Wait() { c.dispatcher.Wait() }
