// Package callctx carries per-call metadata through context.Context so that
// provider-side logging can attribute traffic to the consumer that issued it.
package callctx

import (
	"context"
)

// CallContext describes one in-flight protocol call.
type CallContext struct {
	Caller     string // name of the consumer agent, empty for direct registry access
	RequestID  string // protocol request ID, empty for direct registry access
	Connection string // connection ID the call traveled over, if any
}

type contextKey string

const callContextKey contextKey = "call"

// WithCallContext returns a context carrying the given call metadata.
func WithCallContext(ctx context.Context, cc CallContext) context.Context {
	return context.WithValue(ctx, callContextKey, cc)
}

// FromContext extracts call metadata from the context, if present.
func FromContext(ctx context.Context) (CallContext, bool) {
	cc, ok := ctx.Value(callContextKey).(CallContext)
	return cc, ok
}

// Caller returns the consumer name recorded on the context, or empty when the
// call did not travel over a connection.
func Caller(ctx context.Context) string {
	if cc, ok := FromContext(ctx); ok {
		return cc.Caller
	}
	return ""
}

// RequestID returns the protocol request ID recorded on the context, if any.
func RequestID(ctx context.Context) string {
	if cc, ok := FromContext(ctx); ok {
		return cc.RequestID
	}
	return ""
}
