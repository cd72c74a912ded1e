package demo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/orchestrator"
	"github.com/ubermorgenland/mcp-mesh/pkg/toolkit"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// Toolset and resource names a topology may assign to an agent
var (
	knownToolsets  = map[string]bool{"calculator": true, "text_processor": true}
	knownResources = map[string]bool{"users": true, "user_by_id": true, "clock": true}
)

// AgentSpec declares one agent of the topology
type AgentSpec struct {
	Name      string   `yaml:"name"`
	Toolsets  []string `yaml:"toolsets,omitempty"`
	Resources []string `yaml:"resources,omitempty"`
}

// ConnectionSpec declares one directed consumer -> provider connection
type ConnectionSpec struct {
	Consumer string `yaml:"consumer"`
	Provider string `yaml:"provider"`
}

// Topology declares the agents, wiring, and user records of a demo mesh
type Topology struct {
	Agents      []AgentSpec      `yaml:"agents"`
	Connections []ConnectionSpec `yaml:"connections"`
	Users       []toolkit.User   `yaml:"users,omitempty"`
}

// DefaultTopology returns the built-in mesh: one full-featured provider and
// two consumers, both connected to it.
func DefaultTopology() *Topology {
	return &Topology{
		Agents: []AgentSpec{
			{
				Name:      "server1",
				Toolsets:  []string{"calculator", "text_processor"},
				Resources: []string{"users", "user_by_id", "clock"},
			},
			{Name: "client1"},
			{Name: "client2"},
		},
		Connections: []ConnectionSpec{
			{Consumer: "client1", Provider: "server1"},
			{Consumer: "client2", Provider: "server1"},
		},
		Users: toolkit.DefaultUsers(),
	}
}

// LoadTopology reads and validates a topology file
func LoadTopology(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}
	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("failed to parse topology file %s: %w", path, err)
	}
	if err := topo.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topology %s: %w", path, err)
	}
	return &topo, nil
}

// WriteDefault writes the built-in topology to path, for `topology init`
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultTopology())
	if err != nil {
		return fmt.Errorf("failed to encode topology: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write topology file: %w", err)
	}
	return nil
}

// Validate checks the topology for the mistakes a hand-edited file tends to
// contain: duplicate or empty names, unknown toolsets, and connections to
// undeclared agents.
func (t *Topology) Validate() error {
	if len(t.Agents) == 0 {
		return fmt.Errorf("topology declares no agents")
	}

	names := make(map[string]bool, len(t.Agents))
	for _, a := range t.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent with empty name")
		}
		if names[a.Name] {
			return fmt.Errorf("agent %q declared twice", a.Name)
		}
		names[a.Name] = true

		for _, toolset := range a.Toolsets {
			if !knownToolsets[toolset] {
				return fmt.Errorf("agent %q: unknown toolset %q", a.Name, toolset)
			}
		}
		for _, resource := range a.Resources {
			if !knownResources[resource] {
				return fmt.Errorf("agent %q: unknown resource %q", a.Name, resource)
			}
		}
	}

	pairs := make(map[ConnectionSpec]bool, len(t.Connections))
	for _, c := range t.Connections {
		if !names[c.Consumer] {
			return fmt.Errorf("connection consumer %q is not a declared agent", c.Consumer)
		}
		if !names[c.Provider] {
			return fmt.Errorf("connection provider %q is not a declared agent", c.Provider)
		}
		if pairs[c] {
			return fmt.Errorf("connection %s -> %s declared twice", c.Consumer, c.Provider)
		}
		pairs[c] = true
	}

	return nil
}

// users returns the topology's user records, falling back to the stock set
func (t *Topology) users() []toolkit.User {
	if len(t.Users) == 0 {
		return toolkit.DefaultUsers()
	}
	return t.Users
}

// Build assembles the declared mesh: agents with their toolsets and
// resources, registered and wired in declaration order.
func (t *Topology) Build(logger util.Logger) (*orchestrator.Orchestrator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = util.DefaultLogger()
	}

	users := t.users()
	mesh := orchestrator.New(orchestrator.WithLogger(logger))

	for _, spec := range t.Agents {
		a, err := buildAgent(spec, users, logger)
		if err != nil {
			return nil, err
		}
		if err := mesh.RegisterAgent(a); err != nil {
			return nil, err
		}
	}

	for _, c := range t.Connections {
		if _, err := mesh.ConnectAgents(c.Consumer, c.Provider); err != nil {
			return nil, err
		}
	}

	return mesh, nil
}

func buildAgent(spec AgentSpec, users []toolkit.User, logger util.Logger) (*agent.Agent, error) {
	a := agent.New(spec.Name, agent.WithLogger(logger))
	reg := a.Registry()

	for _, toolset := range spec.Toolsets {
		var err error
		switch toolset {
		case "calculator":
			err = reg.RegisterTool(toolkit.Calculator())
		case "text_processor":
			err = reg.RegisterTool(toolkit.TextProcessor())
		default:
			err = fmt.Errorf("unknown toolset %q", toolset)
		}
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
		}
	}

	for _, resource := range spec.Resources {
		var err error
		switch resource {
		case "users":
			err = reg.RegisterResource(toolkit.UserDirectory(users))
		case "user_by_id":
			err = reg.RegisterResourceTemplate(toolkit.UserByID(users))
		case "clock":
			err = reg.RegisterResourceProducer(toolkit.Clock())
		default:
			err = fmt.Errorf("unknown resource %q", resource)
		}
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", spec.Name, err)
		}
	}

	return a, nil
}
