package mcp

import (
	"errors"
	"fmt"
)

// ErrorKind classifies protocol failures. The string value is exactly what
// failure envelopes carry on the wire.
type ErrorKind string

const (
	ErrorKindDuplicateCapability ErrorKind = "DuplicateCapabilityError"
	ErrorKindDuplicateAgent      ErrorKind = "DuplicateAgentError"
	ErrorKindDuplicateConnection ErrorKind = "DuplicateConnectionError"
	ErrorKindUnknownTool         ErrorKind = "UnknownToolError"
	ErrorKindUnknownResource     ErrorKind = "UnknownResourceError"
	ErrorKindUnknownAgent        ErrorKind = "UnknownAgentError"
	ErrorKindUnknownConnection   ErrorKind = "UnknownConnectionError"
	ErrorKindInvalidArguments    ErrorKind = "InvalidArgumentsError"
	ErrorKindUnsupportedMethod   ErrorKind = "UnsupportedMethodError"
)

// Error is a structured protocol error. It marshals to the failure envelope's
// error object.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new protocol error of the given kind
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a new protocol error with a formatted message
func Errorf(kind ErrorKind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps a standard error as a protocol error
func WrapError(kind ErrorKind, message string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind checks if the error is a protocol error of a specific kind
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

// KindOf returns the error's kind if it's a protocol error, otherwise
// ErrorKindInvalidArguments (the kind for handler-raised domain errors).
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrorKindInvalidArguments
}

// AsError normalizes any error into a protocol error ready for a failure
// envelope. Protocol errors pass through unchanged; anything else is treated
// as a handler-raised domain violation.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: ErrorKindInvalidArguments, Message: err.Error()}
}

// Helper constructors for the lookup and dispatch failures shared across
// components.

func NewUnknownToolError(name string) *Error {
	return Errorf(ErrorKindUnknownTool, "unknown tool: %s", name)
}

func NewUnknownResourceError(uri string) *Error {
	return Errorf(ErrorKindUnknownResource, "unknown resource: %s", uri)
}

func NewUnsupportedMethodError(method string) *Error {
	return Errorf(ErrorKindUnsupportedMethod, "unsupported method: %s", method)
}

func NewInvalidArgumentsError(message string) *Error {
	return NewError(ErrorKindInvalidArguments, message)
}
