package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

var _ Provider = (*Agent)(nil)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()

	reg := capability.New(capability.WithLogger(util.NopLogger{}))
	adder := func(ctx context.Context, args mcp.Arguments) (any, error) {
		a, err := args.Float("a")
		if err != nil {
			return nil, err
		}
		b, err := args.Float("b")
		if err != nil {
			return nil, err
		}
		return a + b, nil
	}
	tool := mcp.NewTool("adder",
		mcp.WithNumber("a", mcp.Required()),
		mcp.WithNumber("b", mcp.Required()),
	)
	require.NoError(t, reg.RegisterTool(tool, adder))
	require.NoError(t, reg.RegisterResource(
		mcp.NewResource("data/greeting", "Greeting"), "hello"))

	return New("server1", WithRegistry(reg), WithLogger(util.NopLogger{}))
}

// --- Dispatch Tests ---

func TestHandleListTools(t *testing.T) {
	a := newTestAgent(t)

	req := mcp.NewListToolsRequest()
	resp := a.Handle(context.Background(), req)

	assert.Equal(t, req.ID, resp.ID)
	result, err := resp.ListToolsResult()
	require.NoError(t, err)
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "adder", result.Tools[0].Name)
	assert.Equal(t, []string{"a", "b"}, result.Tools[0].ParameterNames())
}

func TestHandleCallTool(t *testing.T) {
	a := newTestAgent(t)

	req := mcp.NewCallToolRequest("adder", map[string]any{"a": 10, "b": 5})
	resp := a.Handle(context.Background(), req)

	assert.Equal(t, req.ID, resp.ID)
	result, err := resp.CallToolResult()
	require.NoError(t, err)
	assert.Equal(t, 15.0, result.Content)
}

func TestHandleCallToolFailures(t *testing.T) {
	a := newTestAgent(t)

	tests := []struct {
		name     string
		req      mcp.Request
		wantKind mcp.ErrorKind
	}{
		{
			name:     "unknown tool",
			req:      mcp.NewCallToolRequest("missing", nil),
			wantKind: mcp.ErrorKindUnknownTool,
		},
		{
			name:     "missing tool name is an unknown tool",
			req:      mcp.Request{ID: "req-x", Method: mcp.MethodCallTool, Params: json.RawMessage(`{"arguments":{}}`)},
			wantKind: mcp.ErrorKindUnknownTool,
		},
		{
			name:     "malformed params",
			req:      mcp.Request{ID: "req-y", Method: mcp.MethodCallTool, Params: json.RawMessage(`{"name":123}`)},
			wantKind: mcp.ErrorKindInvalidArguments,
		},
		{
			name:     "schema violation",
			req:      mcp.NewCallToolRequest("adder", map[string]any{"a": 1}),
			wantKind: mcp.ErrorKindInvalidArguments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := a.Handle(context.Background(), tt.req)
			require.NotNil(t, resp.Err)
			assert.Equal(t, tt.wantKind, resp.Err.Kind)
			assert.Equal(t, tt.req.ID, resp.ID)
		})
	}
}

func TestHandleResources(t *testing.T) {
	a := newTestAgent(t)

	listResp := a.Handle(context.Background(), mcp.NewListResourcesRequest())
	listResult, err := listResp.ListResourcesResult()
	require.NoError(t, err)
	require.Len(t, listResult.Resources, 1)
	assert.Equal(t, "data/greeting", listResult.Resources[0].URI)

	readResp := a.Handle(context.Background(), mcp.NewReadResourceRequest("data/greeting"))
	readResult, err := readResp.ReadResourceResult()
	require.NoError(t, err)
	assert.Equal(t, "hello", readResult.Content)

	missing := a.Handle(context.Background(), mcp.NewReadResourceRequest("data/absent"))
	require.NotNil(t, missing.Err)
	assert.Equal(t, mcp.ErrorKindUnknownResource, missing.Err.Kind)
}

func TestHandleUnsupportedMethod(t *testing.T) {
	a := newTestAgent(t)

	resp := a.Handle(context.Background(), mcp.Request{ID: "req-z", Method: "tools/destroy"})
	require.NotNil(t, resp.Err)
	assert.Equal(t, mcp.ErrorKindUnsupportedMethod, resp.Err.Kind)
	assert.Contains(t, resp.Err.Message, "tools/destroy")
	assert.Equal(t, "req-z", resp.ID)
}

// --- Lifecycle Tests ---

func TestStateTransitions(t *testing.T) {
	a := New("worker", WithLogger(util.NopLogger{}))
	assert.Equal(t, StateIdle, a.State())
	assert.Equal(t, "idle", a.State().String())

	a.MarkActive()
	assert.Equal(t, StateActive, a.State())
	assert.Equal(t, "active", a.State().String())

	// no transition back to idle
	a.MarkActive()
	assert.Equal(t, StateActive, a.State())
}

func TestNewAgentDefaults(t *testing.T) {
	a := New("fresh", WithLogger(util.NopLogger{}))
	assert.Equal(t, "fresh", a.Name())
	require.NotNil(t, a.Registry())
	assert.Equal(t, 0, a.Registry().ToolCount())
	assert.Equal(t, 0, a.Registry().ResourceCount())
}
