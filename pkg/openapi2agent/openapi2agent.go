// Package openapi2agent turns OpenAPI 3.x specifications into mesh agents.
//
// Every operation in a spec becomes a tool on the agent's registry: the
// operation's parameters map onto the tool's schema, so arguments are
// validated before a handler ever runs. The mesh carries no HTTP transport,
// so invoking a bound tool returns a call preview describing the request a
// dispatcher would make.
//
// # Quick Start
//
//	doc, err := openapi2agent.LoadSpec(ctx, "petstore.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	provider, err := openapi2agent.NewAgent("petstore", doc)
//
// # Advanced Usage
//
//	// Extract operations for custom processing
//	ops := openapi2agent.ExtractOperations(doc)
//
//	// Bind onto an existing registry
//	bound, err := openapi2agent.BindOperations(reg, doc)
package openapi2agent

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/mcp-mesh/pkg/agent"
	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
)

// Operation describes a single OpenAPI operation to be mapped to a mesh
// tool: the operation's ID, summary, description, HTTP path/method,
// parameters, and tags.
type Operation struct {
	ID          string
	Summary     string
	Description string
	Method      string
	Path        string
	Tags        []string
	Parameters  []Parameter
}

// Parameter is one operation parameter reduced to the mesh's schema kinds
type Parameter struct {
	Name        string
	In          string
	Kind        string // "number" or "string"
	Description string
	Required    bool
	Enum        []string
}

// CallPreview is the content a bound tool returns: the request a live
// dispatcher would send for these arguments.
type CallPreview struct {
	Operation string         `json:"operation"`
	Method    string         `json:"method"`
	Path      string         `json:"path"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// methodOrder fixes the per-path extraction order so listings stay stable
// across runs.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// ExtractOperations collects every operation of the document, paths in
// lexical order and methods in a fixed order.
//
// Example usage:
//
//	doc, _ := openapi2agent.LoadSpec(ctx, "petstore.yaml")
//	ops := openapi2agent.ExtractOperations(doc)
func ExtractOperations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}

	pathMap := doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var ops []Operation
	for _, path := range paths {
		item := pathMap[path]
		if item == nil {
			continue
		}
		byMethod := item.Operations()
		for _, method := range methodOrder {
			op, ok := byMethod[method]
			if !ok || op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = fallbackOperationID(method, path)
			}
			ops = append(ops, Operation{
				ID:          id,
				Summary:     op.Summary,
				Description: op.Description,
				Method:      method,
				Path:        path,
				Tags:        op.Tags,
				Parameters:  extractParameters(item.Parameters, op.Parameters),
			})
		}
	}
	return ops
}

// fallbackOperationID derives a tool name for operations without an
// operationId: "GET /pets/{id}" becomes "get_pets_id".
func fallbackOperationID(method, path string) string {
	id := strings.ToLower(method) + strings.ReplaceAll(path, "/", "_")
	id = strings.ReplaceAll(id, "{", "")
	id = strings.ReplaceAll(id, "}", "")
	return id
}

// extractParameters merges path-level and operation-level parameters,
// operation-level first on name clashes.
func extractParameters(pathParams, opParams openapi3.Parameters) []Parameter {
	seen := make(map[string]bool)
	var params []Parameter

	collect := func(refs openapi3.Parameters) {
		for _, paramRef := range refs {
			if paramRef == nil || paramRef.Value == nil {
				continue
			}
			p := paramRef.Value
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			params = append(params, extractParameter(p))
		}
	}
	collect(opParams)
	collect(pathParams)
	return params
}

func extractParameter(p *openapi3.Parameter) Parameter {
	param := Parameter{
		Name:        p.Name,
		In:          p.In,
		Kind:        "string",
		Description: p.Description,
		Required:    p.Required,
	}
	if p.Schema == nil || p.Schema.Value == nil {
		return param
	}
	val := p.Schema.Value
	if val.Type != nil && len(*val.Type) > 0 {
		switch (*val.Type)[0] {
		case "integer", "number":
			param.Kind = "number"
		}
	}
	for _, enumVal := range val.Enum {
		if str, ok := enumVal.(string); ok {
			param.Enum = append(param.Enum, str)
		}
	}
	return param
}

// BuildTool converts an operation into a tool descriptor, parameters in
// extraction order.
func BuildTool(op Operation) mcp.Tool {
	opts := []mcp.ToolOption{}
	description := op.Summary
	if description == "" {
		description = op.Description
	}
	if description != "" {
		opts = append(opts, mcp.WithDescription(description))
	}

	for _, p := range op.Parameters {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}
		switch {
		case len(p.Enum) > 0:
			opts = append(opts, mcp.WithStringEnum(p.Name, p.Enum, propOpts...))
		case p.Kind == "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(op.ID, opts...)
}

// BindOperations registers every operation of the document as a tool on the
// registry and returns how many were bound. Binding stops at the first
// registration failure, typically a duplicate operationId.
func BindOperations(reg *capability.Registry, doc *openapi3.T) (int, error) {
	bound := 0
	for _, op := range ExtractOperations(doc) {
		op := op
		handler := func(ctx context.Context, args mcp.Arguments) (any, error) {
			return CallPreview{
				Operation: op.ID,
				Method:    op.Method,
				Path:      op.Path,
				Arguments: map[string]any(args),
			}, nil
		}
		if err := reg.RegisterTool(BuildTool(op), handler); err != nil {
			return bound, err
		}
		bound++
	}
	return bound, nil
}

// NewAgent creates an agent exposing the document's operations as tools.
//
// Example usage:
//
//	doc, _ := openapi2agent.LoadSpec(ctx, "specs/weather_api.json")
//	provider, err := openapi2agent.NewAgent("weather-api", doc)
func NewAgent(name string, doc *openapi3.T, opts ...agent.Option) (*agent.Agent, error) {
	a := agent.New(name, opts...)
	if _, err := BindOperations(a.Registry(), doc); err != nil {
		return nil, err
	}
	return a, nil
}
