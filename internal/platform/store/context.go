package store

import "context"

type reqIDKey struct{}

// WithRequestID stamps a correlation id onto ctx for the traced SQL path.
// The archive writer sets the run id here so every statement in the
// transaction logs under it
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID reads the stamped id back; ok is false when absent or blank
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
