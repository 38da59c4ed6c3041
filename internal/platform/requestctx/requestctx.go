// Package requestctx carries per-request identity and correlation values.
package requestctx

import "context"

type adminContextKey struct{}

type requestIDContextKey struct{}

// WithAdmin stores the authenticated admin username in context.
func WithAdmin(ctx context.Context, username string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminContextKey{}, username)
}

// AdminFromContext returns the authenticated admin username, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(adminContextKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// WithRequestID stores the request correlation id in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request correlation id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}
