package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/toolkit"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// newTestMesh builds the standard demo layout: one provider with the full
// toolset and two empty consumers.
func newTestMesh(t *testing.T) *Orchestrator {
	t.Helper()

	mesh := New(WithLogger(util.NopLogger{}))

	server1, err := toolkit.NewDemoAgent("server1", toolkit.DefaultUsers(),
		agent.WithLogger(util.NopLogger{}))
	require.NoError(t, err)
	require.NoError(t, mesh.RegisterAgent(server1))

	require.NoError(t, mesh.RegisterAgent(agent.New("client1", agent.WithLogger(util.NopLogger{}))))
	require.NoError(t, mesh.RegisterAgent(agent.New("client2", agent.WithLogger(util.NopLogger{}))))
	return mesh
}

func TestRegisterAgent(t *testing.T) {
	mesh := newTestMesh(t)

	assert.Equal(t, []string{"server1", "client1", "client2"}, mesh.AgentNames())

	a, ok := mesh.Agent("server1")
	require.True(t, ok)
	assert.Equal(t, "server1", a.Name())

	_, ok = mesh.Agent("server9")
	assert.False(t, ok)
}

func TestRegisterAgentRejectsDuplicates(t *testing.T) {
	mesh := newTestMesh(t)

	err := mesh.RegisterAgent(agent.New("server1", agent.WithLogger(util.NopLogger{})))
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindDuplicateAgent), "got %v", err)

	// the original registration is untouched
	assert.Equal(t, []string{"server1", "client1", "client2"}, mesh.AgentNames())
}

func TestRegisterAgentValidation(t *testing.T) {
	mesh := New(WithLogger(util.NopLogger{}))

	err := mesh.RegisterAgent(nil)
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindInvalidArguments))

	err = mesh.RegisterAgent(agent.New("", agent.WithLogger(util.NopLogger{})))
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindInvalidArguments))
}

func TestConnectAgents(t *testing.T) {
	mesh := newTestMesh(t)

	server1, _ := mesh.Agent("server1")
	client1, _ := mesh.Agent("client1")
	assert.Equal(t, agent.StateIdle, server1.State())
	assert.Equal(t, agent.StateIdle, client1.State())

	conn, err := mesh.ConnectAgents("client1", "server1")
	require.NoError(t, err)
	assert.Equal(t, "client1", conn.Consumer())
	assert.Equal(t, "server1", conn.Provider())

	// connecting flips both endpoints to active
	assert.Equal(t, agent.StateActive, server1.State())
	assert.Equal(t, agent.StateActive, client1.State())

	client2, _ := mesh.Agent("client2")
	assert.Equal(t, agent.StateIdle, client2.State())
}

func TestConnectAgentsUnknownEndpoint(t *testing.T) {
	mesh := newTestMesh(t)

	_, err := mesh.ConnectAgents("ghost", "server1")
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindUnknownAgent), "got %v", err)

	_, err = mesh.ConnectAgents("client1", "ghost")
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindUnknownAgent), "got %v", err)
}

func TestConnectAgentsRejectsDuplicatePairs(t *testing.T) {
	mesh := newTestMesh(t)

	first, err := mesh.ConnectAgents("client1", "server1")
	require.NoError(t, err)

	_, err = mesh.ConnectAgents("client1", "server1")
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindDuplicateConnection), "got %v", err)

	// the reverse direction is a different pair and still connects
	reverse, err := mesh.ConnectAgents("server1", "client1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), reverse.ID())

	conns := mesh.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, first.ID(), conns[0].ID())
	assert.Equal(t, reverse.ID(), conns[1].ID())

	got, ok := mesh.Connection("client1", "server1")
	require.True(t, ok)
	assert.Equal(t, first.ID(), got.ID())
	_, ok = mesh.Connection("client2", "server1")
	assert.False(t, ok)
}

func TestCoordinate(t *testing.T) {
	mesh := newTestMesh(t)
	_, err := mesh.ConnectAgents("client1", "server1")
	require.NoError(t, err)

	results, err := mesh.Coordinate(context.Background(),
		CallStep("client1", "server1", "text_processor",
			map[string]any{"text": "hello", "operation": "uppercase"}),
		CallStep("client1", "server1", "calculator",
			map[string]any{"operation": "multiply", "a": 6, "b": 7}),
		ReadStep("client1", "server1", toolkit.UserDirectoryURI),
	)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "HELLO", results[0].Value)
	assert.Equal(t, 42.0, results[1].Value)

	users, ok := results[2].Value.([]any)
	require.True(t, ok, "expected a JSON array, got %T", results[2].Value)
	assert.Len(t, users, 3)
}

func TestCoordinateFailsFast(t *testing.T) {
	mesh := newTestMesh(t)
	_, err := mesh.ConnectAgents("client1", "server1")
	require.NoError(t, err)

	results, err := mesh.Coordinate(context.Background(),
		CallStep("client1", "server1", "calculator",
			map[string]any{"operation": "add", "a": 1, "b": 2}),
		CallStep("client1", "server1", "missing_tool", nil),
		CallStep("client1", "server1", "calculator",
			map[string]any{"operation": "add", "a": 3, "b": 4}),
	)
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindUnknownTool), "got %v", err)

	// the completed prefix survives, the rest never ran
	require.Len(t, results, 1)
	assert.Equal(t, 3.0, results[0].Value)
}

func TestCoordinateRequiresConnection(t *testing.T) {
	mesh := newTestMesh(t)
	_, err := mesh.ConnectAgents("client1", "server1")
	require.NoError(t, err)

	results, err := mesh.Coordinate(context.Background(),
		CallStep("client2", "server1", "calculator",
			map[string]any{"operation": "add", "a": 1, "b": 2}),
	)
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindUnknownConnection), "got %v", err)
	assert.Contains(t, err.Error(), "step 1")
	assert.Empty(t, results)
}

func TestBroadcast(t *testing.T) {
	mesh := newTestMesh(t)

	replies := mesh.Broadcast(context.Background(), mcp.NewListToolsRequest())
	require.Len(t, replies, 3)

	assert.Equal(t, "server1", replies[0].Agent)
	assert.Equal(t, "client1", replies[1].Agent)
	assert.Equal(t, "client2", replies[2].Agent)

	result, err := replies[0].Response.ListToolsResult()
	require.NoError(t, err)
	assert.Len(t, result.Tools, 2)

	for _, reply := range replies[1:] {
		result, err := reply.Response.ListToolsResult()
		require.NoError(t, err)
		assert.Empty(t, result.Tools)
	}
}
