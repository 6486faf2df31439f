package logger

import (
	"context"
	"log/slog"
)

// GlobalContext is the process-wide ContextLogger set by Init.
var GlobalContext *ContextLogger

type contextKey string

const (
	userIDKey    contextKey = "authgate.user.id"
	tenantIDKey  contextKey = "authgate.tenant.id"
	operationKey contextKey = "authgate.operation"
)

// WithUserID binds the acting user's ID to the context for logging.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTenantID binds the active tenant's ID to the context for logging.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// WithOperation binds the flow name (login, refresh, tenant-switch) to the
// context for logging.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey, operation)
}

// ContextLogger emits records enriched with the session business keys
// carried by the context.
type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every business key present in ctx.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger

	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		logger = logger.With(string(userIDKey), v)
	}
	if v, ok := ctx.Value(tenantIDKey).(string); ok && v != "" {
		logger = logger.With(string(tenantIDKey), v)
	}
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		logger = logger.With(string(operationKey), v)
	}

	return logger
}
