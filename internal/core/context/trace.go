package context

import "context"

// TraceContext identifies the request a context belongs to.
type TraceContext struct {
	// TraceID is the OpenTelemetry trace of the request, or the caller's
	// X-Trace-ID when no span is recording.
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// WithTrace attaches trace to ctx.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns the TraceContext of ctx, or nil.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns the trace ID of ctx, or "" outside a request.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return ""
}

// GetRequestID returns the request ID of ctx, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
