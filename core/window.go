package core

import "strings"

// Defaults for the context window geometry. They mirror the production
// configuration and can be overridden per window via the option functions.
const (
	// DefaultMaxTurns caps the number of retained turns per session.
	DefaultMaxTurns = 20
	// DefaultMaxContextTurns caps how many prior turns are rendered into a
	// single prompt.
	DefaultMaxContextTurns = 10
	// DefaultMaxPromptLen is the hard character budget for a rendered prompt.
	DefaultMaxPromptLen = 8000
)

const (
	contextPreamble     = "Previous conversation context:\n"
	currentMessageTag   = "\nCurrent user message: "
	trailingInstruction = "\n\nPlease respond considering the conversation context above and use appropriate tools when necessary."
)

// ContextWindow is a bounded FIFO of conversation turns owned by a single
// session. It is not safe for concurrent use on its own; the owning session
// serializes access.
//
// Contract:
//   - Append never grows the window past its turn cap; the oldest turns are
//     evicted first and the order of the remainder is preserved.
//   - Render never exceeds the prompt budget when the current message plus
//     the fixed framing fit within it, and the current message and trailing
//     instruction survive truncation intact.
type ContextWindow struct {
	turns        []Turn
	maxTurns     int
	maxContext   int
	maxPromptLen int
}

// WindowOption customizes a ContextWindow.
type WindowOption func(w *ContextWindow)

// WithMaxTurns overrides the retained-turn cap.
func WithMaxTurns(n int) WindowOption {
	return func(w *ContextWindow) {
		if n > 0 {
			w.maxTurns = n
		}
	}
}

// WithMaxContextTurns overrides how many prior turns Render includes.
func WithMaxContextTurns(n int) WindowOption {
	return func(w *ContextWindow) {
		if n > 0 {
			w.maxContext = n
		}
	}
}

// WithMaxPromptLen overrides the rendered prompt character budget.
func WithMaxPromptLen(n int) WindowOption {
	return func(w *ContextWindow) {
		if n > 0 {
			w.maxPromptLen = n
		}
	}
}

// NewContextWindow creates an empty window with default bounds.
func NewContextWindow(optFns ...WindowOption) *ContextWindow {
	w := &ContextWindow{
		maxTurns:     DefaultMaxTurns,
		maxContext:   DefaultMaxContextTurns,
		maxPromptLen: DefaultMaxPromptLen,
	}
	for _, fn := range optFns {
		fn(w)
	}
	return w
}

// Append adds a turn at the tail, evicting from the head when the cap is
// exceeded.
func (w *ContextWindow) Append(t Turn) {
	w.turns = append(w.turns, t)
	if excess := len(w.turns) - w.maxTurns; excess > 0 {
		w.turns = append(w.turns[:0], w.turns[excess:]...)
	}
}

// Len returns the number of retained turns.
func (w *ContextWindow) Len() int { return len(w.turns) }

// Turns returns a defensive copy of the retained turns in chronological order.
func (w *ContextWindow) Turns() []Turn {
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Render builds the full prompt for the given current user message. Prior
// history excludes the most recent turn, which is expected to be the already
// appended current user turn. When the assembled prompt would exceed the
// character budget, the context block is cut from the front so the current
// message and the trailing instruction always arrive intact.
func (w *ContextWindow) Render(current string) string {
	var ctx strings.Builder

	// Exclude the just-appended current turn from the history block.
	prior := w.turns
	if len(prior) > 0 {
		prior = prior[:len(prior)-1]
	}
	if len(prior) > w.maxContext {
		prior = prior[len(prior)-w.maxContext:]
	}
	if len(prior) > 0 {
		ctx.WriteString(contextPreamble)
		for _, t := range prior {
			ctx.WriteString(t.Role.String())
			ctx.WriteString(": ")
			ctx.WriteString(t.Text)
			ctx.WriteString("\n")
		}
	}

	fixed := currentMessageTag + current + trailingInstruction
	contextBlock := ctx.String()

	if len(contextBlock)+len(fixed) > w.maxPromptLen {
		budget := w.maxPromptLen - len(fixed)
		if budget <= 0 {
			contextBlock = ""
		} else if len(contextBlock) > budget {
			contextBlock = contextBlock[len(contextBlock)-budget:]
		}
	}

	return contextBlock + fixed
}
