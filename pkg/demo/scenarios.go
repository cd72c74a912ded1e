package demo

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cast"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/connection"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/orchestrator"
	"github.com/ubermorgenland/mcp-mesh/pkg/toolkit"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// Runner executes the demo scenarios and narrates them to out
type Runner struct {
	cfg    *Config
	out    io.Writer
	logger util.Logger

	section *color.Color
	good    *color.Color
	bad     *color.Color
	faint   *color.Color
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLogger sets the logger handed to the agents and meshes the runner
// builds.
func WithLogger(logger util.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner writing its narration to out
func NewRunner(cfg *Config, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		out:     out,
		logger:  util.DefaultLogger(),
		section: color.New(color.FgCyan, color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		faint:   color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the configured scenario, or all of them
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.Scenario == RunEverything || r.cfg.Scenario == scenarioAllAlias {
		return r.RunAll(ctx)
	}
	return r.RunScenario(ctx, r.cfg.Scenario)
}

// RunScenario executes a single scenario by number
func (r *Runner) RunScenario(ctx context.Context, n int) error {
	switch n {
	case ScenarioProvider:
		return r.ProviderDemo(ctx)
	case ScenarioConsumer:
		return r.ConsumerDemo(ctx)
	case ScenarioOrchestrator:
		return r.OrchestratorDemo(ctx)
	case RunEverything, scenarioAllAlias:
		return r.RunAll(ctx)
	default:
		return fmt.Errorf("unknown scenario %d", n)
	}
}

// RunAll executes every scenario in order
func (r *Runner) RunAll(ctx context.Context) error {
	if err := r.ProviderDemo(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.out)
	if err := r.ConsumerDemo(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.out)
	return r.OrchestratorDemo(ctx)
}

func (r *Runner) topology() (*Topology, error) {
	if r.cfg.TopologyPath != "" {
		return LoadTopology(r.cfg.TopologyPath)
	}
	return DefaultTopology(), nil
}

// ProviderDemo exercises a provider agent directly: every call goes straight
// to its registry, no connection in between.
func (r *Runner) ProviderDemo(ctx context.Context) error {
	r.sectionf("Provider demo")

	topo, err := r.topology()
	if err != nil {
		return err
	}
	provider, err := toolkit.NewDemoAgent("server1", topo.users(), agent.WithLogger(r.logger))
	if err != nil {
		return err
	}
	reg := provider.Registry()

	r.stepf("tools on %s:", provider.Name())
	for _, tool := range reg.ListTools() {
		r.stepf("  %-16s %s (%s)", tool.Name, tool.Description, strings.Join(tool.ParameterNames(), ", "))
	}
	r.stepf("resources on %s:", provider.Name())
	for _, res := range reg.ListResources() {
		r.stepf("  %-20s %s", res.URI, res.Name)
	}

	value, err := reg.InvokeTool(ctx, "calculator", map[string]any{"operation": "add", "a": 10, "b": 5})
	if err != nil {
		return err
	}
	r.goodf("calculator add 10 + 5 = %s", formatValue(value))
	r.trace(value)

	_, err = reg.InvokeTool(ctx, "calculator", map[string]any{"operation": "divide", "a": 10, "b": 0})
	switch {
	case mcp.IsKind(err, mcp.ErrorKindInvalidArguments):
		r.goodf("division by zero rejected: %v", err)
	case err != nil:
		return err
	default:
		r.badf("division by zero unexpectedly succeeded")
	}

	value, err = reg.InvokeTool(ctx, "text_processor", map[string]any{"text": "hello", "operation": "uppercase"})
	if err != nil {
		return err
	}
	r.goodf("text_processor uppercase %q -> %q", "hello", value)

	content, err := reg.ReadResource(ctx, toolkit.UserDirectoryURI)
	if err != nil {
		return err
	}
	r.goodf("read %s: %s", toolkit.UserDirectoryURI, formatValue(content))

	record, err := reg.ReadResource(ctx, "data/users/2")
	if err != nil {
		return err
	}
	r.goodf("read data/users/2: %s", formatValue(record))

	now, err := reg.ReadResource(ctx, toolkit.ClockURI)
	if err != nil {
		return err
	}
	r.goodf("read %s: %s", toolkit.ClockURI, formatValue(now))

	return nil
}

// ConsumerDemo drives a provider through a connection, the way a consumer
// agent sees it: discovery first, then calls, with failure envelopes coming
// back as typed errors.
func (r *Runner) ConsumerDemo(ctx context.Context) error {
	r.sectionf("Consumer demo")

	topo, err := r.topology()
	if err != nil {
		return err
	}
	provider, err := toolkit.NewDemoAgent("server1", topo.users(), agent.WithLogger(r.logger))
	if err != nil {
		return err
	}
	conn := connection.New("client1", provider, connection.WithLogger(r.logger))
	r.stepf("connection %s: %s -> %s", conn.ID(), conn.Consumer(), conn.Provider())

	tools, err := conn.ListTools(ctx)
	if err != nil {
		return err
	}
	r.stepf("discovered %d tools:", len(tools))
	for _, tool := range tools {
		r.stepf("  %-16s %s", tool.Name, tool.Description)
	}

	resources, err := conn.ListResources(ctx)
	if err != nil {
		return err
	}
	r.stepf("discovered %d resources:", len(resources))
	for _, res := range resources {
		r.stepf("  %-20s %s", res.URI, res.Name)
	}

	value, err := conn.CallTool(ctx, "calculator", map[string]any{"operation": "multiply", "a": 6, "b": 7})
	if err != nil {
		return err
	}
	r.goodf("calculator multiply 6 * 7 = %s", formatValue(value))
	r.trace(value)

	_, err = conn.CallTool(ctx, "missing_tool", nil)
	switch {
	case mcp.IsKind(err, mcp.ErrorKindUnknownTool):
		r.goodf("unknown tool rejected: %v", err)
	case err != nil:
		return err
	default:
		r.badf("unknown tool unexpectedly succeeded")
	}

	content, err := conn.ReadResource(ctx, toolkit.UserDirectoryURI)
	if err != nil {
		return err
	}
	r.goodf("read %s over the connection: %s", toolkit.UserDirectoryURI, formatValue(content))

	_, err = conn.ReadResource(ctx, "data/missing.json")
	switch {
	case mcp.IsKind(err, mcp.ErrorKindUnknownResource):
		r.goodf("unknown resource rejected: %v", err)
	case err != nil:
		return err
	default:
		r.badf("unknown resource unexpectedly succeeded")
	}

	return nil
}

// OrchestratorDemo builds the topology's mesh and runs a coordinated
// workflow across its connections.
func (r *Runner) OrchestratorDemo(ctx context.Context) error {
	r.sectionf("Orchestrator demo")

	topo, err := r.topology()
	if err != nil {
		return err
	}
	mesh, err := topo.Build(r.logger)
	if err != nil {
		return err
	}

	r.stepf("mesh agents: %s", strings.Join(mesh.AgentNames(), ", "))
	for _, conn := range mesh.Connections() {
		r.stepf("  %s -> %s (%s)", conn.Consumer(), conn.Provider(), conn.ID())
	}

	if len(topo.Connections) > 0 {
		first := topo.Connections[0]
		_, err := mesh.ConnectAgents(first.Consumer, first.Provider)
		switch {
		case mcp.IsKind(err, mcp.ErrorKindDuplicateConnection):
			r.goodf("duplicate connection rejected: %v", err)
		case err != nil:
			return err
		default:
			r.badf("duplicate connection was accepted")
		}
	}

	consumer, provider := "client1", "server1"
	if len(topo.Connections) > 0 {
		consumer, provider = topo.Connections[0].Consumer, topo.Connections[0].Provider
	}
	second := consumer
	if len(topo.Connections) > 1 {
		second = topo.Connections[1].Consumer
	}

	r.stepf("running quarterly report workflow")
	results, err := mesh.Coordinate(ctx,
		orchestrator.CallStep(consumer, provider, "text_processor", map[string]any{
			"text": "quarterly sales report 2024", "operation": "uppercase",
		}),
		orchestrator.CallStep(consumer, provider, "calculator", map[string]any{
			"operation": "multiply", "a": 150000, "b": 25,
		}),
		orchestrator.CallStep(second, provider, "calculator", map[string]any{
			"operation": "multiply", "a": 180000, "b": 25,
		}),
	)
	if err != nil {
		return err
	}
	for i, res := range results {
		r.goodf("step %d (%s via %s): %s", i+1, res.Step.Request.Method, res.Step.Consumer, formatValue(res.Value))
		r.trace(res.Value)
	}

	q1, err := cast.ToFloat64E(results[1].Value)
	if err != nil {
		return err
	}
	q2, err := cast.ToFloat64E(results[2].Value)
	if err != nil {
		return err
	}
	totals, err := mesh.Coordinate(ctx,
		orchestrator.CallStep(consumer, provider, "calculator", map[string]any{
			"operation": "add", "a": q1, "b": q2,
		}),
	)
	if err != nil {
		return err
	}
	r.goodf("combined revenue: %s", formatValue(totals[0].Value))

	reads, err := mesh.Coordinate(ctx,
		orchestrator.ReadStep(consumer, provider, toolkit.UserDirectoryURI),
		orchestrator.ReadStep(second, provider, toolkit.UserDirectoryURI),
	)
	if err != nil {
		return err
	}
	if reflect.DeepEqual(reads[0].Value, reads[1].Value) {
		r.goodf("%s and %s read identical %s", consumer, second, toolkit.UserDirectoryURI)
	} else {
		r.badf("consumers disagree about %s", toolkit.UserDirectoryURI)
	}

	r.stepf("broadcasting tools/list to every agent")
	for _, reply := range mesh.Broadcast(ctx, mcp.NewListToolsRequest()) {
		result, err := reply.Response.ListToolsResult()
		if err != nil {
			r.badf("%s: %v", reply.Agent, err)
			continue
		}
		r.stepf("  %-10s %d tools", reply.Agent, len(result.Tools))
	}

	return nil
}

func (r *Runner) sectionf(format string, a ...any) {
	r.section.Fprintf(r.out, "=== "+format+" ===\n", a...)
}

func (r *Runner) stepf(format string, a ...any) {
	fmt.Fprintf(r.out, "  "+format+"\n", a...)
}

func (r *Runner) goodf(format string, a ...any) {
	r.good.Fprintf(r.out, "  ✓ "+format+"\n", a...)
}

func (r *Runner) badf(format string, a ...any) {
	r.bad.Fprintf(r.out, "  ✗ "+format+"\n", a...)
}

func (r *Runner) trace(v any) {
	if r.cfg.Trace {
		r.faint.Fprintf(r.out, "    -> %s\n", mcp.EncodeJSON(v))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return mcp.EncodeJSON(v)
	}
}
