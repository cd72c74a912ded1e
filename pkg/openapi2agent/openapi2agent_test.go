package openapi2agent

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

const petstorePath = "testdata/petstore.yaml"

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)
	assert.Equal(t, "Petstore", doc.Info.Title)
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadSpec(context.Background(), "testdata/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadSpecRejectsInvalidDocument(t *testing.T) {
	_, err := LoadSpec(context.Background(), "testdata/broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestExtractOperations(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)

	ops := ExtractOperations(doc)
	require.Len(t, ops, 3)

	// paths in lexical order, GET before POST within a path
	assert.Equal(t, "listPets", ops[0].ID)
	assert.Equal(t, "createPet", ops[1].ID)
	assert.Equal(t, "getPet", ops[2].ID)

	list := ops[0]
	assert.Equal(t, http.MethodGet, list.Method)
	assert.Equal(t, "/pets", list.Path)
	assert.Equal(t, []string{"pets"}, list.Tags)
	require.Len(t, list.Parameters, 1)
	assert.Equal(t, "limit", list.Parameters[0].Name)
	assert.Equal(t, "number", list.Parameters[0].Kind)
	assert.False(t, list.Parameters[0].Required)

	create := ops[1]
	assert.Equal(t, http.MethodPost, create.Method)
	require.Len(t, create.Parameters, 1)
	assert.Equal(t, "name", create.Parameters[0].Name)
	assert.Equal(t, "string", create.Parameters[0].Kind)
	assert.True(t, create.Parameters[0].Required)
}

func TestExtractOperationsMergesPathParameters(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)

	ops := ExtractOperations(doc)
	require.Len(t, ops, 3)
	get := ops[2]
	require.Equal(t, "getPet", get.ID)

	// operation-level parameters come first and win name clashes with the
	// path item's declarations
	require.Len(t, get.Parameters, 2)
	petID := get.Parameters[0]
	assert.Equal(t, "petId", petID.Name)
	assert.Equal(t, "path", petID.In)
	assert.Equal(t, "number", petID.Kind)
	assert.True(t, petID.Required)
	assert.Equal(t, "ID of the pet to fetch", petID.Description)

	verbosity := get.Parameters[1]
	assert.Equal(t, "verbosity", verbosity.Name)
	assert.Equal(t, "query", verbosity.In)
	assert.Equal(t, "string", verbosity.Kind)
	assert.False(t, verbosity.Required)
	assert.Equal(t, []string{"basic", "full"}, verbosity.Enum)
}

func TestExtractOperationsNilDocument(t *testing.T) {
	assert.Nil(t, ExtractOperations(nil))
}

func TestFallbackOperationID(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{method: "GET", path: "/pets/{petId}", want: "get_pets_petId"},
		{method: "POST", path: "/pets", want: "post_pets"},
		{method: "DELETE", path: "/pets/{petId}/toys/{toyId}", want: "delete_pets_petId_toys_toyId"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fallbackOperationID(tt.method, tt.path))
	}
}

func TestBuildTool(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)
	ops := ExtractOperations(doc)
	require.Len(t, ops, 3)

	tool := BuildTool(ops[2])
	assert.Equal(t, "getPet", tool.Name)
	assert.Equal(t, "Fetch a single pet", tool.Description)
	assert.Equal(t, []string{"petId", "verbosity"}, tool.ParameterNames())
	assert.Equal(t, []string{"petId"}, tool.InputSchema.Required)

	verbosity, ok := tool.InputSchema.Properties["verbosity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"basic", "full"}, verbosity["enum"])
}

func TestBindOperations(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)

	reg := capability.New(capability.WithLogger(util.NopLogger{}))
	bound, err := BindOperations(reg, doc)
	require.NoError(t, err)
	assert.Equal(t, 3, bound)
	assert.Equal(t, 3, reg.ToolCount())

	value, err := reg.InvokeTool(context.Background(), "getPet", map[string]any{"petId": 7})
	require.NoError(t, err)
	preview, ok := value.(CallPreview)
	require.True(t, ok, "expected a call preview, got %T", value)
	assert.Equal(t, "getPet", preview.Operation)
	assert.Equal(t, http.MethodGet, preview.Method)
	assert.Equal(t, "/pets/{petId}", preview.Path)
	assert.Equal(t, map[string]any{"petId": 7}, preview.Arguments)
}

func TestBoundToolsValidateArguments(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)

	reg := capability.New(capability.WithLogger(util.NopLogger{}))
	_, err = BindOperations(reg, doc)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = reg.InvokeTool(ctx, "getPet", map[string]any{"petId": "seven"})
	require.Error(t, err)
	assert.True(t, mcp.IsKind(err, mcp.ErrorKindInvalidArguments), "got %v", err)

	_, err = reg.InvokeTool(ctx, "getPet", nil)
	require.Error(t, err, "missing required petId should fail validation")

	_, err = reg.InvokeTool(ctx, "getPet", map[string]any{"petId": 7, "verbosity": "verbose"})
	require.Error(t, err, "enum violation should fail validation")
}

func TestNewAgent(t *testing.T) {
	doc, err := LoadSpec(context.Background(), petstorePath)
	require.NoError(t, err)

	provider, err := NewAgent("petstore", doc, agent.WithLogger(util.NopLogger{}))
	require.NoError(t, err)
	assert.Equal(t, "petstore", provider.Name())

	resp := provider.Handle(context.Background(), mcp.NewListToolsRequest())
	result, err := resp.ListToolsResult()
	require.NoError(t, err)
	require.Len(t, result.Tools, 3)
	assert.Equal(t, "listPets", result.Tools[0].Name)
	assert.Equal(t, "createPet", result.Tools[1].Name)
	assert.Equal(t, "getPet", result.Tools[2].Name)
}

func TestEndpointFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{filename: "Weather_API.json", want: "weather-api"},
		{filename: "petstore.yaml", want: "petstore"},
		{filename: "Census_Data.JSON", want: "census-data"},
		{filename: "/tmp/specs/My_Spec.yml", want: "my-spec"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointFromFilename(tt.filename))
	}
}

func TestLoadDirSkipsBrokenSpecs(t *testing.T) {
	specs, err := LoadDir(context.Background(), "testdata")
	require.NoError(t, err)
	require.Len(t, specs, 1, "the broken spec should be skipped")
	assert.Equal(t, "petstore", specs[0].Name)
	assert.Equal(t, "Petstore", specs[0].Doc.Info.Title)
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, err := LoadDir(context.Background(), "testdata/absent")
	require.Error(t, err)
}
