package orchestrator

import (
	"encoding/json"

	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
)

// Step is one unit of a coordinated workflow: a request sent over the
// connection from Consumer to Provider.
type Step struct {
	Consumer string
	Provider string
	Request  mcp.Request
}

// StepResult pairs a completed step with its decoded value
type StepResult struct {
	Step  Step
	Value any
}

// CallStep builds a tools/call step
func CallStep(consumer, provider, tool string, arguments map[string]any) Step {
	return Step{
		Consumer: consumer,
		Provider: provider,
		Request:  mcp.NewCallToolRequest(tool, arguments),
	}
}

// ReadStep builds a resources/read step
func ReadStep(consumer, provider, uri string) Step {
	return Step{
		Consumer: consumer,
		Provider: provider,
		Request:  mcp.NewReadResourceRequest(uri),
	}
}

// ListToolsStep builds a tools/list step
func ListToolsStep(consumer, provider string) Step {
	return Step{
		Consumer: consumer,
		Provider: provider,
		Request:  mcp.NewListToolsRequest(),
	}
}

// decodeStepValue extracts the method-appropriate payload from a response.
// Call and read steps yield the content value; list steps yield the
// descriptor slices.
func decodeStepValue(resp mcp.Response, method mcp.Method) (any, error) {
	switch method {
	case mcp.MethodCallTool:
		result, err := resp.CallToolResult()
		if err != nil {
			return nil, err
		}
		return result.Content, nil
	case mcp.MethodReadResource:
		result, err := resp.ReadResourceResult()
		if err != nil {
			return nil, err
		}
		return result.Content, nil
	case mcp.MethodListTools:
		result, err := resp.ListToolsResult()
		if err != nil {
			return nil, err
		}
		return result.Tools, nil
	case mcp.MethodListResources:
		result, err := resp.ListResourcesResult()
		if err != nil {
			return nil, err
		}
		return result.Resources, nil
	default:
		if resp.Err != nil {
			return nil, resp.Err
		}
		var value any
		if err := json.Unmarshal(resp.Result, &value); err != nil {
			return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments, "malformed result: %v", err)
		}
		return value, nil
	}
}
