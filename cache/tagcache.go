package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is applied when Set or GetOrCompute receive a non-positive TTL.
const DefaultTTL = 2 * time.Minute

// ErrNilProvider is returned by New when Options.Provider is missing.
var ErrNilProvider = errors.New("cache: provider is required")

// Options configures a TagCache. Only Provider is required.
type Options struct {
	Provider   Provider
	Codec      Codec            // nil => Msgpack
	Epochs     *EpochStore      // nil => private store; share one to invalidate several caches together
	Logger     Logger           // nil => NopLogger
	DefaultTTL time.Duration    // 0 => DefaultTTL
	Now        func() time.Time // nil => time.Now
}

// entry is the envelope written into the provider.
type entry[V any] struct {
	Value     V      `msgpack:"v" cbor:"v" json:"v"`
	Tag       string `msgpack:"t" cbor:"t" json:"t"`
	Epoch     uint64 `msgpack:"e" cbor:"e" json:"e"`
	ExpiresAt int64  `msgpack:"x" cbor:"x" json:"x"`
}

// TagCache is a key/value cache whose entries are bound to a tag epoch.
// It is safe for concurrent use.
type TagCache[V any] struct {
	provider   Provider
	codec      Codec
	epochs     *EpochStore
	log        Logger
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a TagCache over the configured provider.
func New[V any](opts Options) (*TagCache[V], error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}

	c := &TagCache[V]{
		provider:   opts.Provider,
		codec:      opts.Codec,
		epochs:     opts.Epochs,
		log:        opts.Logger,
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
	}
	if c.codec == nil {
		c.codec = Msgpack{}
	}
	if c.epochs == nil {
		c.epochs = NewEpochStore()
	}
	if c.log == nil {
		c.log = NopLogger{}
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = DefaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Get returns the value stored at key. Entries that expired or whose tag
// moved to a newer epoch since they were written are reported as absent.
func (c *TagCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, ok, err := c.provider.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	var e entry[V]
	if err := c.codec.Unmarshal(raw, &e); err != nil {
		c.drop(ctx, key, "decode")
		return zero, false, nil
	}
	if c.now().UnixNano() >= e.ExpiresAt {
		c.drop(ctx, key, "expired")
		return zero, false, nil
	}
	if e.Epoch != c.epochs.Current(e.Tag) {
		c.drop(ctx, key, "epoch")
		return zero, false, nil
	}
	return e.Value, true, nil
}

// Set stores value under key, bound to the current epoch of tag.
// A non-positive ttl selects the default TTL.
func (c *TagCache[V]) Set(ctx context.Context, key string, value V, tag string, ttl time.Duration) error {
	return c.set(ctx, key, value, tag, c.epochs.Current(tag), ttl)
}

// Invalidate advances the epoch of tag, making every entry previously
// written under it absent. Unknown tags are created. Returns the new epoch.
func (c *TagCache[V]) Invalidate(tag string) uint64 {
	epoch := c.epochs.Advance(tag)
	c.log.Debug("tag invalidated", Fields{"tag": tag, "epoch": epoch})
	return epoch
}

// Epoch reports the current epoch of tag.
func (c *TagCache[V]) Epoch(tag string) uint64 {
	return c.epochs.Current(tag)
}

// Epochs exposes the epoch store backing this cache.
func (c *TagCache[V]) Epochs() *EpochStore {
	return c.epochs
}

// GetOrCompute returns the cached value at key or computes, stores and
// returns it. The stored entry is bound to the epoch observed before compute
// ran, so an invalidation racing with compute leaves the entry stale.
func (c *TagCache[V]) GetOrCompute(ctx context.Context, key, tag string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	var zero V
	v, ok, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}

	observed := c.epochs.Current(tag)
	v, err = compute(ctx)
	if err != nil {
		return zero, err
	}
	if err := c.set(ctx, key, v, tag, observed, ttl); err != nil {
		return zero, err
	}
	return v, nil
}

// Close closes the underlying provider.
func (c *TagCache[V]) Close(ctx context.Context) error {
	return c.provider.Close(ctx)
}

func (c *TagCache[V]) set(ctx context.Context, key string, value V, tag string, epoch uint64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	raw, err := c.codec.Marshal(entry[V]{
		Value:     value,
		Tag:       tag,
		Epoch:     epoch,
		ExpiresAt: c.now().Add(ttl).UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	ok, err := c.provider.Set(ctx, key, raw, ttl)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("set rejected by provider", Fields{"key": key, "tag": tag})
	}
	return nil
}

func (c *TagCache[V]) drop(ctx context.Context, key, reason string) {
	if err := c.provider.Del(ctx, key); err != nil {
		c.log.Warn("failed to drop cache entry", Fields{"key": key, "reason": reason, "err": err})
	}
}
