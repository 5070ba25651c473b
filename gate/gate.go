// Package gate implements the one-time, retry-bounded check of backend tool
// availability. The dispatcher consults the gate before honoring a routable
// classification; when discovery exhausts its attempt budget the system
// keeps running in fallback-only mode instead of crashing.
package gate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/mcpchat/classify"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/logging"
)

// State models tool readiness. Transitions are Initializing -> Ready on the
// first successful discovery and Initializing -> Failed after the attempt
// budget is exhausted. Both end states are terminal until an operator
// explicitly forces reinitialization.
type State int32

const (
	// StateInitializing is the start state; routing treats it as not ready.
	StateInitializing State = iota
	// StateReady means discovery succeeded and the tool set is recorded.
	StateReady
	// StateFailed means the attempt budget is exhausted; the tool set is empty.
	StateFailed
)

// String returns a readable state name for logs.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "initializing"
	}
}

// Options configure the availability gate.
type Options struct {
	// ConnectWait is the grace period granted to the backend connection
	// before each discovery attempt.
	ConnectWait time.Duration
	// MaxAttempts bounds discovery retries.
	MaxAttempts int
	// RetryDelay separates consecutive attempts.
	RetryDelay time.Duration
	Logger     logging.Logger
}

// Gate holds the process-wide tool readiness state. All methods are safe for
// concurrent use; Initialize is expected to run once at process start on its
// own goroutine so it never blocks message handling.
type Gate struct {
	lister      core.ToolLister
	connectWait time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      logging.Logger

	state atomic.Int32
	mu    sync.RWMutex
	tools []core.ToolDescriptor
}

// New constructs a gate in the Initializing state.
func New(lister core.ToolLister, optFns ...func(o *Options)) *Gate {
	opts := Options{
		ConnectWait: 3 * time.Second,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	return &Gate{
		lister:      lister,
		connectWait: opts.ConnectWait,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		logger:      opts.Logger,
	}
}

// Initialize waits for the backend connection, then attempts tool discovery
// up to the attempt budget. The returned error reports the terminal failure;
// callers treat it as non-fatal and continue in fallback-only mode.
func (g *Gate) Initialize(ctx context.Context) error {
	start := time.Now()
	g.logger.Info("tool discovery starting", "max_attempts", g.maxAttempts)

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := sleepCtx(ctx, g.connectWait); err != nil {
			g.fail()
			return err
		}

		tools, err := g.lister.ListTools(ctx)
		if err == nil {
			g.mu.Lock()
			g.tools = tools
			g.mu.Unlock()
			g.state.Store(int32(StateReady))
			g.logger.Info("tool discovery completed",
				"attempt", attempt,
				"elapsed", time.Since(start),
				"tools", len(tools))
			g.logToolSummary(tools)
			return nil
		}

		lastErr = err
		g.logger.Warn("tool discovery attempt failed", "attempt", attempt, "error", err.Error())

		if attempt < g.maxAttempts {
			if err := sleepCtx(ctx, g.retryDelay); err != nil {
				g.fail()
				return err
			}
		}
	}

	g.fail()
	g.logger.Error("tool discovery failed, continuing in fallback-only mode",
		"attempts", g.maxAttempts,
		"elapsed", time.Since(start),
		"last_error", lastErr.Error())
	return fmt.Errorf("tool discovery failed after %d attempts: %w", g.maxAttempts, lastErr)
}

// ForceReinitialize is the operator-invoked retry hook. It resets the gate
// to Initializing and runs the full discovery sequence again. It is never
// triggered automatically.
func (g *Gate) ForceReinitialize(ctx context.Context) error {
	g.logger.Warn("force reinitialization requested", "state", g.State().String(), "tools", len(g.Tools()))
	g.mu.Lock()
	g.tools = nil
	g.mu.Unlock()
	g.state.Store(int32(StateInitializing))
	return g.Initialize(ctx)
}

func (g *Gate) fail() {
	g.mu.Lock()
	g.tools = nil
	g.mu.Unlock()
	g.state.Store(int32(StateFailed))
}

// State returns the current readiness state.
func (g *Gate) State() State { return State(g.state.Load()) }

// Ready reports whether the tool path may be used.
func (g *Gate) Ready() bool { return g.State() == StateReady }

// Tools returns a copy of the discovered tool descriptors. Empty unless the
// gate is Ready.
func (g *Gate) Tools() []core.ToolDescriptor {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]core.ToolDescriptor, len(g.tools))
	copy(out, g.tools)
	return out
}

// HasToolOfType reports whether any discovered tool name contains the given
// keyword (case-insensitive).
func (g *Gate) HasToolOfType(toolType string) bool {
	if toolType == "" || !g.Ready() {
		return false
	}
	needle := strings.ToLower(toolType)
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, t := range g.tools {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return true
		}
	}
	return false
}

// categoryKeywords maps routing categories to tool-name keywords. A category
// is honored when at least one discovered tool matches one keyword.
var categoryKeywords = map[classify.Category][]string{
	classify.CategoryMath:    {"math", "calc", "arithmetic", "sum", "multiply"},
	classify.CategoryWeather: {"weather", "forecast", "airquality", "air_quality", "location", "marine", "historical"},
}

// HasCategory reports whether the discovered tool set can serve the given
// routing category.
func (g *Gate) HasCategory(cat classify.Category) bool {
	for _, kw := range categoryKeywords[cat] {
		if g.HasToolOfType(kw) {
			return true
		}
	}
	return false
}

// logToolSummary records the discovered tools and a per-family count so an
// operator can see at a glance which routing categories are serviceable.
func (g *Gate) logToolSummary(tools []core.ToolDescriptor) {
	if len(tools) == 0 {
		g.logger.Warn("no tools available after discovery")
		return
	}
	for i, t := range tools {
		g.logger.Info("discovered tool", "index", i+1, "name", t.Name, "description", t.Description)
	}

	count := func(keywords ...string) int {
		n := 0
		for _, t := range tools {
			name := strings.ToLower(t.Name)
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					n++
					break
				}
			}
		}
		return n
	}
	g.logger.Info("tool categories",
		"math", count("math", "calc", "arithmetic"),
		"current_weather", count("currentweather", "current_weather"),
		"forecast", count("forecast", "detailed"),
		"air_quality", count("airquality", "air_quality"),
		"location", count("location", "search"),
		"historical", count("historical", "history"),
		"marine", count("marine", "ocean"),
		"echo", count("echo"))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
