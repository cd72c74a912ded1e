// Package agent binds a capability registry to a named provider that
// answers protocol requests. Agents start idle and become active when the
// orchestrator first connects them; the transition is one-way.
package agent

import (
	"context"
	"sync/atomic"

	"github.com/ubermorgenland/mcp-mesh/pkg/callctx"
	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// State is an agent's lifecycle state
type State int32

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Provider answers protocol requests. Agent is the in-process
// implementation; connections and the orchestrator only depend on this
// interface.
type Provider interface {
	Name() string
	Handle(ctx context.Context, req mcp.Request) mcp.Response
}

// Agent is a named provider backed by a capability registry
type Agent struct {
	name     string
	registry *capability.Registry
	state    atomic.Int32
	logger   util.Logger
}

// Option configures an Agent
type Option func(*Agent)

// WithRegistry sets the agent's registry instead of an empty default
func WithRegistry(registry *capability.Registry) Option {
	return func(a *Agent) {
		if registry != nil {
			a.registry = registry
		}
	}
}

// WithLogger sets the agent's logger
func WithLogger(logger util.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an idle agent with the given name
func New(name string, opts ...Option) *Agent {
	a := &Agent{
		name:   name,
		logger: util.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = capability.New(capability.WithLogger(a.logger))
	}
	return a
}

// Name returns the agent's name
func (a *Agent) Name() string {
	return a.name
}

// Registry returns the agent's capability registry
func (a *Agent) Registry() *capability.Registry {
	return a.registry
}

// State returns the agent's current lifecycle state
func (a *Agent) State() State {
	return State(a.state.Load())
}

// MarkActive moves the agent from idle to active. Later calls are no-ops;
// there is no way back to idle.
func (a *Agent) MarkActive() {
	if a.state.CompareAndSwap(int32(StateIdle), int32(StateActive)) {
		a.logger.Infof("agent %q: idle -> active", a.name)
	}
}

// Handle dispatches a request to the agent's registry and wraps the outcome
// in a response envelope. The response mirrors the request's ID.
func (a *Agent) Handle(ctx context.Context, req mcp.Request) mcp.Response {
	switch req.Method {
	case mcp.MethodListTools:
		return mcp.NewResult(req.ID, mcp.ListToolsResult{Tools: a.registry.ListTools()})

	case mcp.MethodCallTool:
		params, perr := req.CallToolParams()
		if perr != nil {
			return mcp.NewErrorResponse(req.ID, perr)
		}
		if caller := callctx.Caller(ctx); caller != "" {
			a.logger.Infof("agent %q: tools/call %q from %s", a.name, params.Name, caller)
		}
		value, err := a.registry.InvokeTool(ctx, params.Name, params.Arguments)
		if err != nil {
			return mcp.NewErrorResponse(req.ID, err)
		}
		return mcp.NewResult(req.ID, mcp.CallToolResult{Content: value})

	case mcp.MethodListResources:
		return mcp.NewResult(req.ID, mcp.ListResourcesResult{Resources: a.registry.ListResources()})

	case mcp.MethodReadResource:
		params, perr := req.ReadResourceParams()
		if perr != nil {
			return mcp.NewErrorResponse(req.ID, perr)
		}
		if caller := callctx.Caller(ctx); caller != "" {
			a.logger.Infof("agent %q: resources/read %q from %s", a.name, params.URI, caller)
		}
		content, err := a.registry.ReadResource(ctx, params.URI)
		if err != nil {
			return mcp.NewErrorResponse(req.ID, err)
		}
		return mcp.NewResult(req.ID, mcp.ReadResourceResult{Content: content})

	default:
		return mcp.NewErrorResponse(req.ID, mcp.NewUnsupportedMethodError(string(req.Method)))
	}
}
