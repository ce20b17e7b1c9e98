package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	locationIDKey contextKey = "location_id"
)

// WithRequestID stores a request identifier in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request identifier, or empty if absent
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithLocationID stores the caller's location scope in the context
func WithLocationID(ctx context.Context, locationID uuid.UUID) context.Context {
	return context.WithValue(ctx, locationIDKey, locationID)
}

// GetLocationID returns the location scope, or uuid.Nil if absent
func GetLocationID(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(locationIDKey).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// FromContext annotates a logger with the request and location scope
// carried by the context.
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if locationID := GetLocationID(ctx); locationID != uuid.Nil {
		fields = append(fields, zap.String("location_id", locationID.String()))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
