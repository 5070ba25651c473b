// Package mcpclient connects the router to an MCP tool server. It exposes
// the server's tools in two shapes: core.ToolLister for the availability
// gate (names only) and backend.ToolExecutor for the provider backends
// (full schemas plus execution).
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hupe1980/mcpchat/backend"
	"github.com/hupe1980/mcpchat/core"
	"github.com/hupe1980/mcpchat/logging"
)

// Options configure the MCP client wrapper.
type Options struct {
	// ClientName identifies this client during the MCP handshake.
	ClientName string
	// ClientVersion is reported alongside ClientName.
	ClientVersion string
	// CallTimeout bounds a single tool invocation.
	CallTimeout time.Duration
	Logger      logging.Logger
}

// Client wraps an MCP protocol client. Construct with New, then Connect
// before first use. Safe for concurrent use after Connect returns.
type Client struct {
	mc          *client.Client
	callTimeout time.Duration
	logger      logging.Logger

	// handshake identity, used only during Connect
	initName    string
	initVersion string
}

// New creates a client for an MCP server reachable over streamable HTTP.
func New(serverURL string, optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		ClientName:    "mcpchat",
		ClientVersion: "1.0.0",
		CallTimeout:   30 * time.Second,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	mc, err := client.NewStreamableHttpClient(serverURL)
	if err != nil {
		return nil, fmt.Errorf("create mcp client: %w", err)
	}
	return &Client{
		mc:          mc,
		callTimeout: opts.CallTimeout,
		logger:      opts.Logger,
		initName:    opts.ClientName,
		initVersion: opts.ClientVersion,
	}, nil
}

// Connect starts the transport and performs the MCP initialize handshake.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.mc.Start(ctx); err != nil {
		return fmt.Errorf("start mcp transport: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: c.initName, Version: c.initVersion}
	initReq.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := c.mc.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("mcp initialize: %w", err)
	}
	c.logger.Info("mcp session established",
		"server", result.ServerInfo.Name,
		"server_version", result.ServerInfo.Version)
	return nil
}

// Close shuts down the underlying transport.
func (c *Client) Close() error { return c.mc.Close() }

// ListTools implements core.ToolLister.
func (c *Client) ListTools(ctx context.Context) ([]core.ToolDescriptor, error) {
	result, err := c.mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools: %w", err)
	}
	out := make([]core.ToolDescriptor, len(result.Tools))
	for i, t := range result.Tools {
		out[i] = core.ToolDescriptor{Name: t.Name, Description: t.Description}
	}
	return out, nil
}

// Definitions implements backend.ToolExecutor.
func (c *Client) Definitions(ctx context.Context) ([]backend.Definition, error) {
	result, err := c.mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcp list tools: %w", err)
	}
	out := make([]backend.Definition, len(result.Tools))
	for i, t := range result.Tools {
		params := map[string]any{"type": "object"}
		if t.InputSchema.Type != "" {
			params["type"] = t.InputSchema.Type
		}
		if t.InputSchema.Properties != nil {
			params["properties"] = t.InputSchema.Properties
		}
		if len(t.InputSchema.Required) > 0 {
			params["required"] = t.InputSchema.Required
		}
		out[i] = backend.Definition{Name: t.Name, Description: t.Description, Parameters: params}
	}
	return out, nil
}

// Call implements backend.ToolExecutor. The textual parts of the tool result
// are concatenated; a result flagged IsError comes back as a Go error.
func (c *Client) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	var arguments map[string]any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return "", fmt.Errorf("decode arguments for %s: %w", name, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	start := time.Now()
	result, err := c.mc.CallTool(ctx, req)
	if err != nil {
		c.logger.Error("tool execution failed", "tool", name, "duration", time.Since(start), "error", err.Error())
		return "", fmt.Errorf("mcp call %s: %w", name, err)
	}

	text := flattenContent(result.Content)
	if result.IsError {
		c.logger.Error("tool returned error result", "tool", name, "duration", time.Since(start))
		return "", fmt.Errorf("tool %s: %s", name, text)
	}
	c.logger.Debug("tool execution completed", "tool", name, "duration", time.Since(start))
	return text, nil
}

func flattenContent(content []mcp.Content) string {
	var sb strings.Builder
	for _, item := range content {
		if tc, ok := item.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
