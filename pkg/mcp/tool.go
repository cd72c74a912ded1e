package mcp

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ubermorgenland/mcp-mesh/pkg/memory"
)

// Tool describes an invokable capability. InputSchema is a JSON Schema
// object; parameter order follows the order the properties were declared in.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InputSchema Schema `json:"inputSchema"`
}

// Schema is the JSON Schema object advertised for a tool's parameters
type Schema struct {
	Type       string
	Properties map[string]any
	Required   []string

	order []string
}

// MarshalJSON writes properties in declared order. encoding/json would sort
// map keys, which loses the parameter order listings promise.
func (s Schema) MarshalJSON() ([]byte, error) {
	buf := memory.GetBuffer()
	defer memory.PutBuffer(buf)

	buf.WriteString(`{"type":`)
	typ, err := json.Marshal(s.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(typ)

	buf.WriteString(`,"properties":{`)
	for i, name := range s.propertyNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.Properties[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')

	if len(s.Required) > 0 {
		buf.WriteString(`,"required":`)
		required, err := json.Marshal(s.Required)
		if err != nil {
			return nil, err
		}
		buf.Write(required)
	}
	buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// UnmarshalJSON recovers the declared property order from the raw document so
// a schema survives a wire round-trip intact.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Type = raw.Type
	s.Required = raw.Required
	s.Properties = make(map[string]any, len(raw.Properties))
	for name, value := range raw.Properties {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		s.Properties[name] = v
	}
	s.order = propertyOrderFromJSON(data)
	return nil
}

// propertyNames returns declared names first, then any properties set outside
// the option helpers in sorted order.
func (s Schema) propertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.order {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	if len(names) < len(s.Properties) {
		rest := make([]string, 0, len(s.Properties)-len(names))
		for name := range s.Properties {
			if !seen[name] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		names = append(names, rest...)
	}
	return names
}

func propertyOrderFromJSON(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		if key, _ := keyTok.(string); key != "properties" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil
			}
			continue
		}
		if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
			return nil
		}
		var order []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil
			}
			name, _ := nameTok.(string)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil
			}
			order = append(order, name)
		}
		return order
	}
	return nil
}

// ToolOption configures a Tool during construction
type ToolOption func(*Tool)

// PropertyOption configures a single schema property
type PropertyOption func(map[string]any)

// NewTool creates a tool with the given name and applies the options.
//
// Example usage:
//
//	tool := mcp.NewTool("calculator",
//		mcp.WithDescription("Perform basic arithmetic operations"),
//		mcp.WithStringEnum("operation", []string{"add", "subtract"}, mcp.Required()),
//		mcp.WithNumber("a", mcp.Required()),
//		mcp.WithNumber("b", mcp.Required()),
//	)
func NewTool(name string, opts ...ToolOption) Tool {
	tool := Tool{
		Name: name,
		InputSchema: Schema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
	for _, opt := range opts {
		opt(&tool)
	}
	return tool
}

// WithDescription sets the tool's description
func WithDescription(description string) ToolOption {
	return func(t *Tool) {
		t.Description = description
	}
}

// WithNumber declares a numeric parameter
func WithNumber(name string, opts ...PropertyOption) ToolOption {
	return toolProperty(name, "number", nil, opts)
}

// WithString declares a free-form string parameter
func WithString(name string, opts ...PropertyOption) ToolOption {
	return toolProperty(name, "string", nil, opts)
}

// WithStringEnum declares a string parameter constrained to the given values
func WithStringEnum(name string, values []string, opts ...PropertyOption) ToolOption {
	enum := make([]string, len(values))
	copy(enum, values)
	return toolProperty(name, "string", enum, opts)
}

func toolProperty(name, typ string, enum []string, opts []PropertyOption) ToolOption {
	return func(t *Tool) {
		prop := map[string]any{"type": typ}
		if len(enum) > 0 {
			prop["enum"] = enum
		}
		for _, opt := range opts {
			opt(prop)
		}
		// Required is tracked on the schema, not the property.
		if req, ok := prop["required"].(bool); ok {
			delete(prop, "required")
			if req {
				t.InputSchema.Required = append(t.InputSchema.Required, name)
			}
		}
		if _, exists := t.InputSchema.Properties[name]; !exists {
			t.InputSchema.order = append(t.InputSchema.order, name)
		}
		t.InputSchema.Properties[name] = prop
	}
}

// Required marks the parameter as mandatory
func Required() PropertyOption {
	return func(prop map[string]any) {
		prop["required"] = true
	}
}

// Description sets the parameter's description
func Description(text string) PropertyOption {
	return func(prop map[string]any) {
		prop["description"] = text
	}
}

// ParameterNames returns the tool's parameter names in declared order
func (t Tool) ParameterNames() []string {
	return t.InputSchema.propertyNames()
}
