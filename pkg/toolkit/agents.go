package toolkit

import (
	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
)

// NewDemoAgent builds the full-featured provider used by the demos: both
// stock tools plus the user directory, per-user lookup, and clock resources.
func NewDemoAgent(name string, users []User, opts ...agent.Option) (*agent.Agent, error) {
	a := agent.New(name, opts...)
	reg := a.Registry()

	if err := reg.RegisterTool(Calculator()); err != nil {
		return nil, err
	}
	if err := reg.RegisterTool(TextProcessor()); err != nil {
		return nil, err
	}
	if err := reg.RegisterResource(UserDirectory(users)); err != nil {
		return nil, err
	}
	if err := reg.RegisterResourceTemplate(UserByID(users)); err != nil {
		return nil, err
	}
	if err := reg.RegisterResourceProducer(Clock()); err != nil {
		return nil, err
	}
	return a, nil
}

// NewMathAgent builds a provider exposing only the calculator
func NewMathAgent(name string, opts ...agent.Option) (*agent.Agent, error) {
	a := agent.New(name, opts...)
	if err := a.Registry().RegisterTool(Calculator()); err != nil {
		return nil, err
	}
	return a, nil
}

// NewTextAgent builds a provider exposing only the text processor
func NewTextAgent(name string, opts ...agent.Option) (*agent.Agent, error) {
	a := agent.New(name, opts...)
	if err := a.Registry().RegisterTool(TextProcessor()); err != nil {
		return nil, err
	}
	return a, nil
}

// NewDataAgent builds a provider exposing only the user resources
func NewDataAgent(name string, users []User, opts ...agent.Option) (*agent.Agent, error) {
	a := agent.New(name, opts...)
	reg := a.Registry()

	if err := reg.RegisterResource(UserDirectory(users)); err != nil {
		return nil, err
	}
	if err := reg.RegisterResourceTemplate(UserByID(users)); err != nil {
		return nil, err
	}
	return a, nil
}
