package cache

import (
	"context"
	"time"
)

// Provider is a byte store with TTLs that a TagCache writes envelopes into.
// Implementations must be safe for concurrent use and must return exactly the
// bytes previously passed to Set for a key.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL. ok=false means the store dropped
	// the write under pressure; that is not an error.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Missing keys are not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
