package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers caller-supplied request keys so that a
// retried mutation is not applied twice. The engine never retries on
// its own; the store only guards callers that do.
type IdempotencyStore interface {
	// MarkProcessed marks a request key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was
	// already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a request key has been seen
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases store resources
	Close() error
}

// IdempotencyConfig holds configuration for request deduplication
type IdempotencyConfig struct {
	// TTL is how long a processed request key is remembered
	TTL time.Duration

	// Enabled toggles deduplication entirely
	Enabled bool
}

// DefaultIdempotencyConfig returns the default configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
