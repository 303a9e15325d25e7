package store

import "context"

type runIDKey struct{}

// WithRunID attaches the id of the lint run writing through this context
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID retrieves the run id from context if present
func RunID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(runIDKey{}).(string)
	return s, s != ""
}
