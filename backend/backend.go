// Package backend defines the completion-side contracts of the router. The
// dispatcher only sees core.Backend; the provider subpackages (openai,
// anthropic) implement it with a bounded tool-call loop driven by a
// ToolExecutor, typically the MCP client.
package backend

import (
	"context"
	"encoding/json"
)

// Definition is the full, schema-carrying description of one callable tool
// as exposed to a model provider. Parameters is a JSON Schema object.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolExecutor resolves tool definitions and executes tool calls on behalf
// of a provider backend. Implementations must be safe for concurrent use.
type ToolExecutor interface {
	// Definitions returns the schemas of all executable tools.
	Definitions(ctx context.Context) ([]Definition, error)

	// Call executes a named tool with raw JSON arguments and returns its
	// textual result.
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// FilterDefinitions narrows defs to the named subset. An empty name set
// returns defs unchanged.
func FilterDefinitions(defs []Definition, names []string) []Definition {
	if len(names) == 0 {
		return defs
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if wanted[d.Name] {
			out = append(out, d)
		}
	}
	return out
}
