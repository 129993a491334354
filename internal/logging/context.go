package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID returns a context carrying id. An empty id mints a new UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		return logger.With(String(FieldRequestID, id))
	}
	return logger
}
