package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

func newTestRunner(t *testing.T, cfg *Config) (*Runner, *bytes.Buffer) {
	t.Helper()

	// keep escape sequences out of the assertions
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var out bytes.Buffer
	return NewRunner(cfg, &out, WithLogger(util.NopLogger{})), &out
}

func TestRunAllScenarios(t *testing.T) {
	runner, out := newTestRunner(t, &Config{})
	require.NoError(t, runner.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "=== Provider demo ===")
	assert.Contains(t, text, "=== Consumer demo ===")
	assert.Contains(t, text, "=== Orchestrator demo ===")
	assert.Contains(t, text, "calculator add 10 + 5 = 15")
	assert.Contains(t, text, "division by zero rejected")
	assert.Contains(t, text, "unknown tool rejected")
	assert.Contains(t, text, "duplicate connection rejected")
	assert.Contains(t, text, "read identical data/users.json")
	assert.NotContains(t, text, "✗")
}

func TestRunSingleScenario(t *testing.T) {
	runner, out := newTestRunner(t, &Config{Scenario: ScenarioProvider})
	require.NoError(t, runner.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "=== Provider demo ===")
	assert.NotContains(t, text, "=== Consumer demo ===")
}

func TestRunScenarioUnknownNumber(t *testing.T) {
	runner, _ := newTestRunner(t, &Config{})
	err := runner.RunScenario(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario 7")
}

func TestTraceOutput(t *testing.T) {
	runner, out := newTestRunner(t, &Config{Scenario: ScenarioConsumer, Trace: true})
	require.NoError(t, runner.Run(context.Background()))
	assert.Contains(t, out.String(), "-> 42")
}

func TestRunnerUsesTopologyFile(t *testing.T) {
	path := t.TempDir() + "/topology.yaml"
	require.NoError(t, WriteDefault(path))

	runner, out := newTestRunner(t, &Config{Scenario: ScenarioOrchestrator, TopologyPath: path})
	require.NoError(t, runner.Run(context.Background()))
	assert.Contains(t, out.String(), "mesh agents: server1, client1, client2")
}

func TestRunnerReportsMissingTopologyFile(t *testing.T) {
	runner, _ := newTestRunner(t, &Config{Scenario: ScenarioOrchestrator, TopologyPath: "absent.yaml"})
	err := runner.Run(context.Background())
	require.Error(t, err)
}
