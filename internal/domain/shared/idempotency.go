package shared

import (
	"context"
	"time"
)

// ReplayStore remembers already-processed notification keys so at-least-once
// deliveries can be short-circuited without touching the database. It is a
// fast path only: the durable replay guard is the conditional status update
// on the gateway transaction row.
type ReplayStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes a key, re-enabling processing (used when an effect fails
	// after the mark and the provider should be allowed to retry)
	Forget(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// ReplayConfig holds configuration for notification replay handling
type ReplayConfig struct {
	// TTL is the time-to-live for processed keys
	TTL time.Duration

	// Enabled determines whether the fast-path replay check is enabled
	Enabled bool
}

// DefaultReplayConfig returns the default replay configuration
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
