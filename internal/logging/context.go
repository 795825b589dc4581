package logging

import (
	"context"
	"log/slog"

	"reclaim/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemHash is the standardized structured logging key for container hashes.
	FieldItemHash = "item_hash"
	// FieldSessionID is the standardized structured logging key for run correlation.
	FieldSessionID = "session_id"
)

// ContextAttrs extracts standardized slog attributes from the provided context.
func ContextAttrs(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var attrs []Attr
	if hash, ok := services.ItemHash(ctx); ok {
		attrs = append(attrs, String(FieldItemHash, hash))
	}
	if id, ok := services.SessionID(ctx); ok {
		attrs = append(attrs, String(FieldSessionID, id))
	}
	return attrs
}

// WithContext returns a logger carrying the context's item hash and session ID.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	attrs := ContextAttrs(ctx)
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(Args(attrs...)...)
}
