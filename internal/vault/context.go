package vault

import "context"

type correlationKey struct{}

// WithCorrelationID attaches the ID sent as X-Correlation-ID on outbound requests.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the ID attached by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}
