package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the request correlation id in ctx.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// GetCorrelationID returns the correlation id stored in ctx, or an empty string.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}
