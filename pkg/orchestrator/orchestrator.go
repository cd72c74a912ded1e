package orchestrator

import (
	"context"
	"sync"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/callctx"
	"github.com/ubermorgenland/mcp-mesh/pkg/connection"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

type pairKey struct {
	consumer string
	provider string
}

// Orchestrator owns the agents and connections of one mesh
type Orchestrator struct {
	mu          sync.RWMutex
	agents      map[string]*agent.Agent
	agentOrder  []string
	connections map[pairKey]*connection.Connection
	connOrder   []pairKey
	logger      util.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the orchestrator's logger. Agents keep their own loggers;
// this one covers registration, wiring, and coordination.
func WithLogger(logger util.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an empty mesh
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:      make(map[string]*agent.Agent),
		connections: make(map[pairKey]*connection.Connection),
		logger:      util.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterAgent adds an agent to the mesh. Names are unique; registering a
// second agent under a taken name fails and leaves the first in place.
func (o *Orchestrator) RegisterAgent(a *agent.Agent) error {
	if a == nil {
		return mcp.NewInvalidArgumentsError("agent must not be nil")
	}
	if a.Name() == "" {
		return mcp.NewInvalidArgumentsError("agent name must not be empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.agents[a.Name()]; exists {
		return mcp.Errorf(mcp.ErrorKindDuplicateAgent, "agent %q already registered", a.Name())
	}
	o.agents[a.Name()] = a
	o.agentOrder = append(o.agentOrder, a.Name())

	o.logger.Infof("registered agent %q (%d tools, %d resources)",
		a.Name(), a.Registry().ToolCount(), a.Registry().ResourceCount())
	return nil
}

// Agent returns the named agent
func (o *Orchestrator) Agent(name string) (*agent.Agent, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	a, ok := o.agents[name]
	return a, ok
}

// AgentNames returns the agent names in registration order
func (o *Orchestrator) AgentNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, len(o.agentOrder))
	copy(names, o.agentOrder)
	return names
}

// ConnectAgents creates the directed connection consumer -> provider and
// marks both endpoints active. Each ordered pair connects at most once; the
// reverse direction is a separate connection.
func (o *Orchestrator) ConnectAgents(consumer, provider string) (*connection.Connection, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	consumerAgent, ok := o.agents[consumer]
	if !ok {
		return nil, mcp.Errorf(mcp.ErrorKindUnknownAgent, "unknown agent: %s", consumer)
	}
	providerAgent, ok := o.agents[provider]
	if !ok {
		return nil, mcp.Errorf(mcp.ErrorKindUnknownAgent, "unknown agent: %s", provider)
	}

	key := pairKey{consumer: consumer, provider: provider}
	if _, exists := o.connections[key]; exists {
		return nil, mcp.Errorf(mcp.ErrorKindDuplicateConnection, "connection %s -> %s already exists", consumer, provider)
	}

	conn := connection.New(consumer, providerAgent, connection.WithLogger(o.logger))
	o.connections[key] = conn
	o.connOrder = append(o.connOrder, key)

	consumerAgent.MarkActive()
	providerAgent.MarkActive()

	o.logger.Infof("connected %q -> %q (%s)", consumer, provider, conn.ID())
	return conn, nil
}

// Connection returns the connection for the ordered pair, if any
func (o *Orchestrator) Connection(consumer, provider string) (*connection.Connection, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	conn, ok := o.connections[pairKey{consumer: consumer, provider: provider}]
	return conn, ok
}

// Connections returns all connections in creation order
func (o *Orchestrator) Connections() []*connection.Connection {
	o.mu.RLock()
	defer o.mu.RUnlock()
	conns := make([]*connection.Connection, 0, len(o.connOrder))
	for _, key := range o.connOrder {
		conns = append(conns, o.connections[key])
	}
	return conns
}

// Coordinate runs the steps in order over their connections, fail-fast.
// Completed results are returned even when a later step fails, so callers
// see how far the workflow got; the returned error keeps its protocol kind.
func (o *Orchestrator) Coordinate(ctx context.Context, steps ...Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		o.mu.RLock()
		conn, ok := o.connections[pairKey{consumer: step.Consumer, provider: step.Provider}]
		o.mu.RUnlock()
		if !ok {
			err := mcp.Errorf(mcp.ErrorKindUnknownConnection,
				"step %d: no connection from %q to %q", i+1, step.Consumer, step.Provider)
			o.logger.Errorf("coordinate: %v", err)
			return results, err
		}

		resp := conn.Do(ctx, step.Request)
		value, err := decodeStepValue(resp, step.Request.Method)
		if err != nil {
			o.logger.Errorf("coordinate: step %d (%s %s -> %s) failed: %v",
				i+1, step.Request.Method, step.Consumer, step.Provider, err)
			return results, err
		}
		results = append(results, StepResult{Step: step, Value: value})
	}

	o.logger.Infof("coordinate: %d steps completed", len(results))
	return results, nil
}

// BroadcastReply pairs an agent's name with its response to a broadcast
type BroadcastReply struct {
	Agent    string
	Response mcp.Response
}

// Broadcast sends the same request to every registered agent in
// registration order. Unlike Coordinate it never aborts: each agent's
// response, failure envelopes included, lands in the replies.
func (o *Orchestrator) Broadcast(ctx context.Context, req mcp.Request) []BroadcastReply {
	o.mu.RLock()
	order := make([]string, len(o.agentOrder))
	copy(order, o.agentOrder)
	agents := make(map[string]*agent.Agent, len(o.agents))
	for name, a := range o.agents {
		agents[name] = a
	}
	o.mu.RUnlock()

	ctx = callctx.WithCallContext(ctx, callctx.CallContext{
		Caller:    "orchestrator",
		RequestID: req.ID,
	})

	replies := make([]BroadcastReply, 0, len(order))
	for _, name := range order {
		replies = append(replies, BroadcastReply{
			Agent:    name,
			Response: agents[name].Handle(ctx, req),
		})
	}
	return replies
}
