// Package openai implements core.Backend using the OpenAI Chat Completions
// API with function/tool calling. When a tool set is supplied, the backend
// runs a bounded loop: the model requests tool calls, the executor runs them
// (via MCP), and the results are fed back until the model produces a final
// text answer.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/mcpchat/backend"
	"github.com/hupe1980/mcpchat/core"
)

// Options configure the OpenAI backend adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	// MaxToolRounds bounds how many tool-call round trips a single Complete
	// call may perform.
	MaxToolRounds int
}

// Backend wraps the OpenAI Chat Completions API behind core.Backend.
type Backend struct {
	client *openai.Client
	exec   backend.ToolExecutor
	opts   Options
}

// New creates an OpenAI backend using the default client (API key from the
// environment).
func New(exec backend.ToolExecutor, optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewFromClient(&client, exec, optFns...)
}

// NewFromClient creates an OpenAI backend from an existing client.
func NewFromClient(client *openai.Client, exec backend.ToolExecutor, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		MaxToolRounds:       5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, exec: exec, opts: opts}
}

// Complete implements core.Backend. A nil or empty tool set requests plain
// completion; otherwise the executor's definitions are narrowed to the
// requested tool names and offered to the model.
func (b *Backend) Complete(ctx context.Context, prompt string, tools []core.ToolDescriptor) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:               b.opts.Model,
		Temperature:         openai.Float(b.opts.Temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
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
		resp, err := b.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai api error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai: no choices returned")
		}

		msg := resp.Choices[0].Message
		if !toolMode || len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			result, err := b.exec.Call(ctx, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
			if err != nil {
				// Feed the failure back so the model can recover or explain.
				result = fmt.Sprintf("tool %s failed: %v", tc.Function.Name, err)
			}
			params.Messages = append(params.Messages, openai.ToolMessage(result, tc.ID))
		}
	}

	return "", fmt.Errorf("openai: exceeded %d tool rounds without a final answer", b.opts.MaxToolRounds)
}

// buildTools converts executor definitions for the requested tool names into
// OpenAI tool parameters.
func (b *Backend) buildTools(ctx context.Context, tools []core.ToolDescriptor) ([]openai.ChatCompletionToolParam, error) {
	defs, err := b.exec.Definitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve tool definitions: %w", err)
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	defs = backend.FilterDefinitions(defs, names)

	out := make([]openai.ChatCompletionToolParam, len(defs))
	for i, d := range defs {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  d.Parameters,
			},
		}
	}
	return out, nil
}
