package mcp

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/ubermorgenland/mcp-mesh/pkg/memory"
)

// Method identifies a protocol operation
type Method string

const (
	MethodListTools     Method = "tools/list"
	MethodCallTool      Method = "tools/call"
	MethodListResources Method = "resources/list"
	MethodReadResource  Method = "resources/read"
)

// Request is the protocol request envelope. Params is kept raw so each
// method can decode its own parameter shape.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Method Method          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the protocol response envelope. Exactly one of Result and Err
// is set; a populated Err marks the failure envelope.
type Response struct {
	ID     string          `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Err    *Error          `json:"error,omitempty"`
}

// CallToolParams carries the parameters of a tools/call request
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ReadResourceParams carries the parameters of a resources/read request
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ListToolsResult is the result payload of tools/list
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolResult is the result payload of tools/call. Content carries the
// handler's return value unchanged.
type CallToolResult struct {
	Content any `json:"content"`
}

// ListResourcesResult is the result payload of resources/list
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceResult is the result payload of resources/read
type ReadResourceResult struct {
	Content any `json:"content"`
}

func newRequestID() string {
	return "req-" + uuid.New().String()
}

// NewListToolsRequest creates a tools/list request
func NewListToolsRequest() Request {
	return Request{ID: newRequestID(), Method: MethodListTools}
}

// NewCallToolRequest creates a tools/call request for the named tool
func NewCallToolRequest(name string, arguments map[string]any) Request {
	params, err := json.Marshal(CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		params = nil
	}
	return Request{ID: newRequestID(), Method: MethodCallTool, Params: params}
}

// NewListResourcesRequest creates a resources/list request
func NewListResourcesRequest() Request {
	return Request{ID: newRequestID(), Method: MethodListResources}
}

// NewReadResourceRequest creates a resources/read request for the given URI
func NewReadResourceRequest(uri string) Request {
	params, err := json.Marshal(ReadResourceParams{URI: uri})
	if err != nil {
		params = nil
	}
	return Request{ID: newRequestID(), Method: MethodReadResource, Params: params}
}

// CallToolParams decodes the request's params as a tools/call parameter
// object. Absent params decode to the zero value, so a missing tool name
// surfaces downstream as an unknown-tool lookup rather than a decode error.
func (r Request) CallToolParams() (CallToolParams, *Error) {
	var params CallToolParams
	if len(r.Params) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return CallToolParams{}, Errorf(ErrorKindInvalidArguments, "malformed tools/call params: %v", err)
	}
	return params, nil
}

// ReadResourceParams decodes the request's params as a resources/read
// parameter object.
func (r Request) ReadResourceParams() (ReadResourceParams, *Error) {
	var params ReadResourceParams
	if len(r.Params) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(r.Params, &params); err != nil {
		return ReadResourceParams{}, Errorf(ErrorKindInvalidArguments, "malformed resources/read params: %v", err)
	}
	return params, nil
}

// NewResult builds a success envelope carrying v as the result payload
func NewResult(id string, v any) Response {
	result, err := json.Marshal(v)
	if err != nil {
		return NewErrorResponse(id, Errorf(ErrorKindInvalidArguments, "unencodable result: %v", err))
	}
	return Response{ID: id, Result: result}
}

// NewErrorResponse builds a failure envelope from any error
func NewErrorResponse(id string, err error) Response {
	return Response{ID: id, Err: AsError(err)}
}

// ListToolsResult decodes the response's result payload as a tools/list
// result. A failure envelope is returned as-is.
func (r Response) ListToolsResult() (ListToolsResult, error) {
	var result ListToolsResult
	if r.Err != nil {
		return result, r.Err
	}
	if err := json.Unmarshal(r.Result, &result); err != nil {
		return ListToolsResult{}, Errorf(ErrorKindInvalidArguments, "malformed tools/list result: %v", err)
	}
	return result, nil
}

// CallToolResult decodes the response's result payload as a tools/call result
func (r Response) CallToolResult() (CallToolResult, error) {
	var result CallToolResult
	if r.Err != nil {
		return result, r.Err
	}
	if err := json.Unmarshal(r.Result, &result); err != nil {
		return CallToolResult{}, Errorf(ErrorKindInvalidArguments, "malformed tools/call result: %v", err)
	}
	return result, nil
}

// ListResourcesResult decodes the response's result payload as a
// resources/list result.
func (r Response) ListResourcesResult() (ListResourcesResult, error) {
	var result ListResourcesResult
	if r.Err != nil {
		return result, r.Err
	}
	if err := json.Unmarshal(r.Result, &result); err != nil {
		return ListResourcesResult{}, Errorf(ErrorKindInvalidArguments, "malformed resources/list result: %v", err)
	}
	return result, nil
}

// ReadResourceResult decodes the response's result payload as a
// resources/read result.
func (r Response) ReadResourceResult() (ReadResourceResult, error) {
	var result ReadResourceResult
	if r.Err != nil {
		return result, r.Err
	}
	if err := json.Unmarshal(r.Result, &result); err != nil {
		return ReadResourceResult{}, Errorf(ErrorKindInvalidArguments, "malformed resources/read result: %v", err)
	}
	return result, nil
}

// EncodeJSON renders v as a single-line JSON string using the shared buffer
// pool. Used by trace output and tests; failures surface as an error string
// so callers never branch.
func EncodeJSON(v any) string {
	buf := memory.GetBuffer()
	defer memory.PutBuffer(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return "<encode error: " + err.Error() + ">"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
