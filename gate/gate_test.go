package gate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/mcpchat/classify"
	"github.com/hupe1980/mcpchat/core"
)

type fakeLister struct {
	calls    atomic.Int32
	failures int
	tools    []core.ToolDescriptor
}

func (f *fakeLister) ListTools(_ context.Context) ([]core.ToolDescriptor, error) {
	n := int(f.calls.Add(1))
	if n <= f.failures {
		return nil, errors.New("connection refused")
	}
	return f.tools, nil
}

func fastOpts(o *Options) {
	o.ConnectWait = 0
	o.RetryDelay = time.Millisecond
	o.MaxAttempts = 3
}

var weatherTools = []core.ToolDescriptor{
	{Name: "getCurrentWeather", Description: "current conditions"},
	{Name: "searchLocation", Description: "geocoding"},
	{Name: "echo", Description: "echo"},
}

func TestGate_InitializeSucceedsFirstAttempt(t *testing.T) {
	lister := &fakeLister{tools: weatherTools}
	g := New(lister, fastOpts)

	assert.Equal(t, StateInitializing, g.State())
	assert.False(t, g.Ready())

	require.NoError(t, g.Initialize(context.Background()))

	assert.Equal(t, StateReady, g.State())
	assert.True(t, g.Ready())
	assert.Len(t, g.Tools(), 3)
	assert.Equal(t, int32(1), lister.calls.Load())
}

func TestGate_InitializeRetriesThenSucceeds(t *testing.T) {
	lister := &fakeLister{failures: 2, tools: weatherTools}
	g := New(lister, fastOpts)

	require.NoError(t, g.Initialize(context.Background()))

	assert.True(t, g.Ready())
	assert.Equal(t, int32(3), lister.calls.Load())
}

func TestGate_InitializeFailsAfterBudget(t *testing.T) {
	lister := &fakeLister{failures: 100}
	g := New(lister, fastOpts)

	err := g.Initialize(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, StateFailed, g.State())
	assert.False(t, g.Ready())
	assert.Empty(t, g.Tools())
	assert.Equal(t, int32(3), lister.calls.Load())
}

func TestGate_NonPositiveMaxAttemptsFallsBackToDefault(t *testing.T) {
	lister := &fakeLister{failures: 100}
	g := New(lister, func(o *Options) {
		o.ConnectWait = 0
		o.RetryDelay = time.Millisecond
		o.MaxAttempts = 0
	})

	err := g.Initialize(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateFailed, g.State())
	assert.Equal(t, int32(3), lister.calls.Load())
}

func TestGate_InitializeHonorsContextCancellation(t *testing.T) {
	lister := &fakeLister{failures: 100}
	g := New(lister, func(o *Options) {
		o.ConnectWait = time.Hour
		o.MaxAttempts = 3
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Initialize(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, g.State())
}

func TestGate_ForceReinitialize(t *testing.T) {
	lister := &fakeLister{failures: 3, tools: weatherTools}
	g := New(lister, fastOpts)

	require.Error(t, g.Initialize(context.Background()))
	require.Equal(t, StateFailed, g.State())

	// The operator hook runs the full discovery sequence again; the backend
	// has recovered by now.
	require.NoError(t, g.ForceReinitialize(context.Background()))
	assert.True(t, g.Ready())
	assert.Len(t, g.Tools(), 3)
}

func TestGate_HasToolOfType(t *testing.T) {
	lister := &fakeLister{tools: weatherTools}
	g := New(lister, fastOpts)
	require.NoError(t, g.Initialize(context.Background()))

	assert.True(t, g.HasToolOfType("weather"))
	assert.True(t, g.HasToolOfType("WEATHER"))
	assert.True(t, g.HasToolOfType("location"))
	assert.False(t, g.HasToolOfType("math"))
	assert.False(t, g.HasToolOfType(""))
}

func TestGate_HasToolOfTypeWhenNotReady(t *testing.T) {
	g := New(&fakeLister{}, fastOpts)
	assert.False(t, g.HasToolOfType("weather"))
}

func TestGate_HasCategory(t *testing.T) {
	lister := &fakeLister{tools: weatherTools}
	g := New(lister, fastOpts)
	require.NoError(t, g.Initialize(context.Background()))

	assert.True(t, g.HasCategory(classify.CategoryWeather))
	assert.False(t, g.HasCategory(classify.CategoryMath))
	assert.False(t, g.HasCategory(classify.CategoryNone))
}

func TestGate_ToolsReturnsCopy(t *testing.T) {
	lister := &fakeLister{tools: weatherTools}
	g := New(lister, fastOpts)
	require.NoError(t, g.Initialize(context.Background()))

	tools := g.Tools()
	tools[0].Name = "mutated"
	assert.Equal(t, "getCurrentWeather", g.Tools()[0].Name)
}
