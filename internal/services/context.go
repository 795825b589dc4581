package services

import "context"

type contextKey string

const (
	itemHashKey  contextKey = "item_hash"
	sessionIDKey contextKey = "session_id"
)

// WithItemHash stamps the container hash of the item being processed.
func WithItemHash(ctx context.Context, hash string) context.Context {
	if hash == "" {
		return ctx
	}
	return context.WithValue(ctx, itemHashKey, hash)
}

// ItemHash returns the container hash stored in the context, if any.
func ItemHash(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(itemHashKey).(string)
	return value, ok && value != ""
}

// WithSessionID stamps the per-run session identifier used for log correlation.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID returns the run session identifier stored in the context, if any.
func SessionID(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(sessionIDKey).(string)
	return value, ok && value != ""
}
