// Package mcp defines the message protocol shared by every agent in the
// mesh: request and response envelopes, the four standard methods, tool and
// resource descriptors, and the structured error taxonomy.
//
// A request names a method and carries a method-specific parameter object:
//
//	{"id": "req-...", "method": "tools/call", "params": {"name": "calculator", "arguments": {...}}}
//
// A response carries either a result payload or an error object, never both:
//
//	{"id": "req-...", "result": {"content": 15}}
//	{"id": "req-...", "error": {"kind": "UnknownToolError", "message": "unknown tool: missing"}}
//
// The error object's kind field is one of the ErrorKind constants, so a
// consumer can recover the original failure from a decoded envelope with
// IsKind or AsError.
//
// Example usage:
//
//	req := mcp.NewCallToolRequest("calculator", map[string]any{
//		"operation": "add",
//		"a":         10,
//		"b":         5,
//	})
//	resp := provider.Handle(ctx, req)
//	result, err := resp.CallToolResult()
//	if mcp.IsKind(err, mcp.ErrorKindUnknownTool) {
//		// tool is not registered on the provider
//	}
package mcp
