package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores idempotency keys to prevent duplicate processing.
// It serves two callers: event handlers marking event IDs as consumed, and
// document services remembering which document a creation key produced so a
// retried request returns the original document instead of a second one.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL
	// Returns true if the key was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Remember associates a value with a key for the given TTL
	Remember(ctx context.Context, key, value string, ttl time.Duration) error

	// Recall returns the value associated with a key, or "" if none is stored
	Recall(ctx context.Context, key string) (string, error)

	// Close releases the store resources
	Close() error
}

// IdempotencyConfig controls replay detection.
type IdempotencyConfig struct {
	// TTL is the time-to-live for stored keys
	// After this duration, the same key can be processed again
	// Defaults to 24 hours
	TTL time.Duration

	// Enabled switches replay detection on
	// Defaults to true
	Enabled bool
}

// DefaultIdempotencyConfig is the production default.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
