// Package anthropic implements core.Backend using the Anthropic Messages
// API with tool use. Tool calls requested by the model are executed through
// the shared ToolExecutor and their results fed back in a bounded loop.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/mcpchat/backend"
	"github.com/hupe1980/mcpchat/core"
)

// Options configure the Anthropic backend adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	// MaxToolRounds bounds how many tool-use round trips a single Complete
	// call may perform.
	MaxToolRounds int
}

// Backend wraps the Anthropic Messages API behind core.Backend.
type Backend struct {
	client *anthropic.Client
	exec   backend.ToolExecutor
	opts   Options
}

// New creates an Anthropic backend using the official client.
func New(exec backend.ToolExecutor, optFns ...func(o *Options)) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Backend{client: &client, exec: exec, opts: opts}
}

// NewFromClient creates an Anthropic backend from an existing client.
func NewFromClient(client *anthropic.Client, exec backend.ToolExecutor, optFns ...func(o *Options)) *Backend {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, exec: exec, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:         anthropic.ModelClaude3_5Sonnet20241022,
		Temperature:   0.7,
		MaxTokens:     4096,
		MaxToolRounds: 5,
	}
}

// Complete implements core.Backend.
func (b *Backend) Complete(ctx context.Context, prompt string, tools []core.ToolDescriptor) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       b.opts.Model,
		MaxTokens:   b.opts.MaxTokens,
		Temperature: anthropic.Float(b.opts.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	}

	toolMode := len(tools) > 0 && b.exec != nil
	if toolMode {
		toolParams, err := b.buildTools(ctx, tools)
		if err != nil {
			return "", err
		}
		params.Tools = toolParams
	}

	for round := 0; round <= b.opts.MaxToolRounds; round++ {
		resp, err := b.client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("anthropic api error: %w", err)
		}

		text, toolUses := splitContent(resp)
		if !toolMode || len(toolUses) == 0 {
			return text, nil
		}

		params.Messages = append(params.Messages, resp.ToParam())

		var results []anthropic.ContentBlockParamUnion
		for _, tu := range toolUses {
			result, err := b.exec.Call(ctx, tu.name, tu.input)
			isError := err != nil
			if isError {
				result = fmt.Sprintf("tool %s failed: %v", tu.name, err)
			}
			results = append(results, anthropic.NewToolResultBlock(tu.id, result, isError))
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(results...))
	}

	return "", fmt.Errorf("anthropic: exceeded %d tool rounds without a final answer", b.opts.MaxToolRounds)
}

type toolUse struct {
	id    string
	name  string
	input json.RawMessage
}

// splitContent separates the response into accumulated text and requested
// tool uses, preserving block order for the text portion.
func splitContent(resp *anthropic.Message) (string, []toolUse) {
	var text strings.Builder
	var uses []toolUse
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.AsText().Text)
		case "tool_use":
			tb := block.AsToolUse()
			var input json.RawMessage
			if tb.Input != nil {
				if raw, err := json.Marshal(tb.Input); err == nil {
					input = raw
				}
			}
			uses = append(uses, toolUse{id: tb.ID, name: tb.Name, input: input})
		}
	}
	return text.String(), uses
}

// buildTools converts executor definitions for the requested tool names into
// Anthropic tool parameters.
func (b *Backend) buildTools(ctx context.Context, tools []core.ToolDescriptor) ([]anthropic.ToolUnionParam, error) {
	defs, err := b.exec.Definitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve tool definitions: %w", err)
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	defs = backend.FilterDefinitions(defs, names)

	out := make([]anthropic.ToolUnionParam, len(defs))
	for i, d := range defs {
		schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
		if d.Parameters != nil {
			if props, ok := d.Parameters["properties"]; ok {
				schema.Properties = props
			}
			if req, ok := d.Parameters["required"]; ok {
				schema.Required = toStringSlice(req)
			}
		}
		tp := anthropic.ToolUnionParamOfTool(schema, d.Name)
		if tp.OfTool != nil && d.Description != "" {
			tp.OfTool.Description = anthropic.String(d.Description)
		}
		out[i] = tp
	}
	return out, nil
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
