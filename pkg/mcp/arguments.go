package mcp

import (
	"github.com/spf13/cast"
)

// Arguments is the decoded argument object of a tools/call request. Values
// arrive as JSON types, so numbers are float64 unless a handler converts
// them.
type Arguments map[string]any

// Float returns the named argument as a float64
func (a Arguments) Float(key string) (float64, error) {
	raw, ok := a[key]
	if !ok {
		return 0, Errorf(ErrorKindInvalidArguments, "missing argument %q", key)
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, Errorf(ErrorKindInvalidArguments, "argument %q is not a number: %v", key, err)
	}
	return value, nil
}

// String returns the named argument as a string
func (a Arguments) String(key string) (string, error) {
	raw, ok := a[key]
	if !ok {
		return "", Errorf(ErrorKindInvalidArguments, "missing argument %q", key)
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return "", Errorf(ErrorKindInvalidArguments, "argument %q is not a string: %v", key, err)
	}
	return value, nil
}
