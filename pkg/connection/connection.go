// Package connection implements the directed consumer-to-provider link.
// A connection owns no state beyond its endpoints: every call builds a fresh
// request envelope, hands it to the provider, and decodes the response,
// converting failure envelopes back into typed protocol errors.
package connection

import (
	"context"

	"github.com/google/uuid"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/callctx"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// Connection is a directed link from a consumer agent to a provider agent
type Connection struct {
	id       string
	consumer string
	provider agent.Provider
	logger   util.Logger
}

// Option configures a Connection
type Option func(*Connection)

// WithLogger sets the connection's logger
func WithLogger(logger util.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a connection from the named consumer to the provider
func New(consumer string, provider agent.Provider, opts ...Option) *Connection {
	c := &Connection{
		id:       "conn-" + uuid.New().String(),
		consumer: consumer,
		provider: provider,
		logger:   util.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the connection's identifier
func (c *Connection) ID() string {
	return c.id
}

// Consumer returns the consuming agent's name
func (c *Connection) Consumer() string {
	return c.consumer
}

// Provider returns the providing agent's name
func (c *Connection) Provider() string {
	return c.provider.Name()
}

// Do sends a raw request over the connection. The provider sees the
// consumer's identity and the connection ID through the call context.
func (c *Connection) Do(ctx context.Context, req mcp.Request) mcp.Response {
	ctx = callctx.WithCallContext(ctx, callctx.CallContext{
		Caller:     c.consumer,
		RequestID:  req.ID,
		Connection: c.id,
	})
	return c.provider.Handle(ctx, req)
}

// ListTools returns the provider's tools
func (c *Connection) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	resp := c.Do(ctx, mcp.NewListToolsRequest())
	result, err := resp.ListToolsResult()
	if err != nil {
		c.logger.Errorf("connection %s -> %s: tools/list failed: %v", c.consumer, c.Provider(), err)
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool on the provider and returns its content
func (c *Connection) CallTool(ctx context.Context, name string, arguments map[string]any) (any, error) {
	resp := c.Do(ctx, mcp.NewCallToolRequest(name, arguments))
	result, err := resp.CallToolResult()
	if err != nil {
		c.logger.Errorf("connection %s -> %s: tools/call %q failed: %v", c.consumer, c.Provider(), name, err)
		return nil, err
	}
	return result.Content, nil
}

// ListResources returns the provider's resources
func (c *Connection) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	resp := c.Do(ctx, mcp.NewListResourcesRequest())
	result, err := resp.ListResourcesResult()
	if err != nil {
		c.logger.Errorf("connection %s -> %s: resources/list failed: %v", c.consumer, c.Provider(), err)
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource reads a resource on the provider and returns its content
func (c *Connection) ReadResource(ctx context.Context, uri string) (any, error) {
	resp := c.Do(ctx, mcp.NewReadResourceRequest(uri))
	result, err := resp.ReadResourceResult()
	if err != nil {
		c.logger.Errorf("connection %s -> %s: resources/read %q failed: %v", c.consumer, c.Provider(), uri, err)
		return nil, err
	}
	return result.Content, nil
}
