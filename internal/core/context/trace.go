package context

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps client-supplied request ids.
const maxRequestIDLength = 64

// TraceContext identifies one request across logs, error bodies and spans.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext builds the trace for a request. The trace id comes from
// the active span when there is one. A blank, oversized or non-printable
// requestID is replaced by a generated one.
func NewTraceContext(ctx context.Context, requestID string) *TraceContext {
	requestID = strings.TrimSpace(requestID)
	if !validRequestID(requestID) {
		requestID = uuid.NewString()
	}

	traceID := uuid.NewString()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	return &TraceContext{TraceID: traceID, RequestID: requestID}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLength {
		return false
	}
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
