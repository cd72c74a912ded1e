// Package capability implements the per-agent registry of tools and
// resources. Registration order is preserved in listings, duplicates are
// rejected, and tool arguments are validated against the tool's schema
// before the handler runs.
package capability

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"github.com/yosida95/uritemplate/v3"

	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/memory"
	"github.com/ubermorgenland/mcp-mesh/pkg/util"
)

// ToolHandler executes a tool invocation with already-validated arguments
type ToolHandler func(ctx context.Context, args mcp.Arguments) (any, error)

// ResourceProducer computes a resource's content at read time
type ResourceProducer func(ctx context.Context) (any, error)

// TemplateProducer computes content for a templated resource from the
// variables extracted out of the requested URI.
type TemplateProducer func(ctx context.Context, vars map[string]string) (any, error)

type toolEntry struct {
	tool    mcp.Tool
	handler ToolHandler
	schema  *gojsonschema.Schema
}

type resourceEntry struct {
	resource mcp.Resource
	producer ResourceProducer
}

type templateEntry struct {
	resource mcp.Resource
	template *uritemplate.Template
	producer TemplateProducer
}

// Registry holds the capabilities one agent exposes. Safe for concurrent
// use; handlers and producers run outside the registry lock.
type Registry struct {
	mu            sync.RWMutex
	tools         map[string]*toolEntry
	toolOrder     []string
	resources     map[string]*resourceEntry
	resourceOrder []string
	templates     []*templateEntry
	logger        util.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the registry's logger
func WithLogger(logger util.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	r := &Registry{
		tools:     make(map[string]*toolEntry),
		resources: make(map[string]*resourceEntry),
		logger:    util.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterTool adds a tool and its handler. The tool's schema is compiled
// here so invalid schemas fail at registration, not at first call.
func (r *Registry) RegisterTool(tool mcp.Tool, handler ToolHandler) error {
	if tool.Name == "" {
		return mcp.NewInvalidArgumentsError("tool name must not be empty")
	}
	if handler == nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "tool %q has no handler", tool.Name)
	}

	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "tool %q has unencodable schema: %v", tool.Name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "tool %q has invalid schema: %v", tool.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return mcp.Errorf(mcp.ErrorKindDuplicateCapability, "tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = &toolEntry{tool: tool, handler: handler, schema: schema}
	r.toolOrder = append(r.toolOrder, tool.Name)

	r.logger.Infof("registered tool %q (%d parameters)", tool.Name, len(tool.ParameterNames()))
	return nil
}

// RegisterResource adds a resource with fixed content
func (r *Registry) RegisterResource(resource mcp.Resource, content any) error {
	return r.RegisterResourceProducer(resource, func(context.Context) (any, error) {
		return content, nil
	})
}

// RegisterResourceProducer adds a resource whose content is computed on
// every read.
func (r *Registry) RegisterResourceProducer(resource mcp.Resource, producer ResourceProducer) error {
	if resource.URI == "" {
		return mcp.NewInvalidArgumentsError("resource URI must not be empty")
	}
	if producer == nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "resource %q has no producer", resource.URI)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.uriTaken(resource.URI) {
		return mcp.Errorf(mcp.ErrorKindDuplicateCapability, "resource %q already registered", resource.URI)
	}
	r.resources[resource.URI] = &resourceEntry{resource: resource, producer: producer}
	r.resourceOrder = append(r.resourceOrder, resource.URI)

	r.logger.Infof("registered resource %q", resource.URI)
	return nil
}

// RegisterResourceTemplate adds a templated resource. The resource's URI is
// an RFC 6570 template such as "data/users/{id}"; reads of a matching
// expansion invoke the producer with the extracted variables.
func (r *Registry) RegisterResourceTemplate(resource mcp.Resource, producer TemplateProducer) error {
	if resource.URI == "" {
		return mcp.NewInvalidArgumentsError("resource URI must not be empty")
	}
	if producer == nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "resource %q has no producer", resource.URI)
	}
	template, err := uritemplate.New(resource.URI)
	if err != nil {
		return mcp.Errorf(mcp.ErrorKindInvalidArguments, "resource template %q is invalid: %v", resource.URI, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.uriTaken(resource.URI) {
		return mcp.Errorf(mcp.ErrorKindDuplicateCapability, "resource %q already registered", resource.URI)
	}
	r.templates = append(r.templates, &templateEntry{resource: resource, template: template, producer: producer})

	r.logger.Infof("registered resource template %q", resource.URI)
	return nil
}

func (r *Registry) uriTaken(uri string) bool {
	if _, exists := r.resources[uri]; exists {
		return true
	}
	for _, te := range r.templates {
		if te.resource.URI == uri {
			return true
		}
	}
	return false
}

// InvokeTool validates args against the tool's schema and runs its handler
func (r *Registry) InvokeTool(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, mcp.NewUnknownToolError(name)
	}

	if args == nil {
		args = map[string]any{}
	}
	result, err := entry.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments, "cannot validate arguments for tool %q: %v", name, err)
	}
	if !result.Valid() {
		return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments,
			"invalid arguments for tool %q: %s", name, joinValidationErrors(result))
	}

	return entry.handler(ctx, mcp.Arguments(args))
}

func joinValidationErrors(result *gojsonschema.Result) string {
	sb := memory.GetBuilder()
	defer memory.PutBuilder(sb)

	for i, desc := range result.Errors() {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(desc.String())
	}
	return sb.String()
}

// ReadResource resolves a URI to content. Exact registrations win over
// templates; templates are tried in registration order.
func (r *Registry) ReadResource(ctx context.Context, uri string) (any, error) {
	r.mu.RLock()
	if entry, ok := r.resources[uri]; ok {
		producer := entry.producer
		r.mu.RUnlock()
		return producer(ctx)
	}
	for _, te := range r.templates {
		if !te.template.Regexp().MatchString(uri) {
			continue
		}
		matched := te.template.Match(uri)
		vars := make(map[string]string, len(matched))
		for name, value := range matched {
			vars[name] = value.String()
		}
		producer := te.producer
		r.mu.RUnlock()
		return producer(ctx, vars)
	}
	r.mu.RUnlock()

	return nil, mcp.NewUnknownResourceError(uri)
}

// ListTools returns the registered tools in registration order
func (r *Registry) ListTools() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// ListResources returns concrete resources in registration order, followed
// by templates in registration order.
func (r *Registry) ListResources() []mcp.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]mcp.Resource, 0, len(r.resourceOrder)+len(r.templates))
	for _, uri := range r.resourceOrder {
		resources = append(resources, r.resources[uri].resource)
	}
	for _, te := range r.templates {
		resources = append(resources, te.resource)
	}
	return resources
}

// Tool returns the named tool's descriptor
func (r *Registry) Tool(name string) (mcp.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tools[name]
	if !ok {
		return mcp.Tool{}, false
	}
	return entry.tool, true
}

// ToolCount returns the number of registered tools
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// ResourceCount returns the number of registered resources, templates
// included.
func (r *Registry) ResourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources) + len(r.templates)
}
