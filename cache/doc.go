// Package cache provides a tag invalidatable key/value cache.
//
// # Overview
//
// Every entry written through a TagCache is bound to a tag (an entity type
// such as "Sector", "User" or "Protocol") and to the tag's current epoch.
// Invalidating a tag advances its epoch atomically; entries recorded under an
// older epoch are treated as absent the next time they are read. Invalidation
// never enumerates or touches stored entries, so it costs the same no matter
// how many keys were cached under the tag.
//
// The package exports:
//
//   - TagCache: Get, Set, Invalidate and the read-through GetOrCompute
//   - EpochStore: the tag -> epoch counters shared by one or more caches
//   - Provider: the byte store the cache writes envelopes into
//   - Codec: envelope serialization (Msgpack, CBOR, JSON)
//   - Logger: a small leveled logger with a no-op default
//   - KeySerializer: builds the listing count keys
//
// # Basic Usage
//
//	provider, _ := cacheinfra.NewSturdycProvider(cacheinfra.DefaultConfig())
//	counts, _ := cache.New[int](cache.Options{Provider: provider})
//
//	n, err := counts.GetOrCompute(ctx, "ProtocolCount_Search_NoSearch", "Protocol", 0,
//		func(ctx context.Context) (int, error) {
//			return countProtocols(ctx)
//		})
//
//	// after a protocol write commits
//	counts.Invalidate("Protocol")
//
// # Expiry
//
// Each envelope records an absolute expiry. Expiry is checked lazily on read
// against the cache clock, so the cache behaves the same on providers that
// only support a global lifetime (bigcache) or a single client TTL (sturdyc).
// Providers are still handed the TTL so they can reclaim memory on their own.
//
// # Read-through and concurrent writes
//
// GetOrCompute captures the tag epoch before it runs the compute function and
// stores the result under that captured epoch. When a write commits and
// invalidates the tag while the value is being computed, the freshly stored
// entry is already stale and the next reader recomputes it.
//
// # Error Handling
//
// Provider errors are returned to the caller. Undecodable, expired or stale
// envelopes are removed from the provider on a best-effort basis; a failure
// to remove them is logged, not returned, because the read itself succeeded
// with a miss.
package cache
