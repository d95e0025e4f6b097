package instrument

import "context"

type correlationKey struct{}

// SetCorrelationID returns a copy of ctx carrying cID. Log records emitted with
// the returned context get a "_cID" attribute.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	if cID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, cID)
}

// GetCorrelationID returns the correlation id stored in ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	cID, _ := ctx.Value(correlationKey{}).(string)
	return cID
}
