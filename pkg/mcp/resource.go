package mcp

// Resource describes a readable capability addressed by URI
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// ResourceOption configures a Resource during construction
type ResourceOption func(*Resource)

// NewResource creates a resource descriptor for the given URI.
//
// Example usage:
//
//	res := mcp.NewResource("data/users.json", "User Database",
//		mcp.WithResourceDescription("List of system users"),
//		mcp.WithMIMEType("application/json"),
//	)
func NewResource(uri, name string, opts ...ResourceOption) Resource {
	res := Resource{URI: uri, Name: name}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// WithResourceDescription sets the resource's description
func WithResourceDescription(description string) ResourceOption {
	return func(r *Resource) {
		r.Description = description
	}
}

// WithMIMEType sets the resource's MIME type
func WithMIMEType(mimeType string) ResourceOption {
	return func(r *Resource) {
		r.MIMEType = mimeType
	}
}
