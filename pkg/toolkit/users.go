package toolkit

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
)

// Resource URIs served by the stock agents
const (
	UserDirectoryURI = "data/users.json"
	UserByIDTemplate = "data/users/{id}"
	ClockURI         = "system/clock"
)

// User is one record of the user directory
type User struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// DefaultUsers returns the stock user records
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "Alice", Role: "admin"},
		{ID: 2, Name: "Bob", Role: "user"},
		{ID: 3, Name: "Charlie", Role: "user"},
	}
}

// UserDirectory returns the user database resource and its content. The
// content is a copy, so later mutation of the input slice does not leak into
// registered agents.
func UserDirectory(users []User) (mcp.Resource, []User) {
	resource := mcp.NewResource(UserDirectoryURI, "User Database",
		mcp.WithResourceDescription("List of system users"),
		mcp.WithMIMEType("application/json"),
	)
	content := make([]User, len(users))
	copy(content, users)
	return resource, content
}

// UserByID returns a templated resource serving single user records under
// data/users/{id}.
func UserByID(users []User) (mcp.Resource, capability.TemplateProducer) {
	resource := mcp.NewResource(UserByIDTemplate, "User Record",
		mcp.WithResourceDescription("Single user record by numeric id"),
		mcp.WithMIMEType("application/json"),
	)
	records := make([]User, len(users))
	copy(records, users)

	producer := func(ctx context.Context, vars map[string]string) (any, error) {
		raw := vars["id"]
		id, err := cast.ToIntE(raw)
		if err != nil {
			return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments, "user id %q is not numeric", raw)
		}
		for _, u := range records {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, mcp.NewUnknownResourceError("data/users/" + raw)
	}

	return resource, producer
}

// Clock returns a computed resource that reports the current UTC time in
// RFC 3339 form on every read.
func Clock() (mcp.Resource, capability.ResourceProducer) {
	resource := mcp.NewResource(ClockURI, "System Clock",
		mcp.WithResourceDescription("Current UTC time, computed per read"),
		mcp.WithMIMEType("text/plain"),
	)
	producer := func(ctx context.Context) (any, error) {
		return time.Now().UTC().Format(time.RFC3339), nil
	}
	return resource, producer
}
