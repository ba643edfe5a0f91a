package cacheinfra

import (
	"context"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/goliatone/go-protocol-registry/cache"
)

var _ cache.Provider = (*RistrettoProvider)(nil)

// RistrettoProvider stores envelopes in a ristretto cache. Every entry costs 1,
// so Capacity bounds the number of entries.
type RistrettoProvider struct {
	c *rc.Cache
}

func NewRistrettoProvider(cfg Config) (*RistrettoProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := rc.NewCache(&rc.Config{
		NumCounters: int64(cfg.Capacity) * 10,
		MaxCost:     int64(cfg.Capacity),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoProvider{c: c}, nil
}

func (p *RistrettoProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set is asynchronous in ristretto; a Get issued right after may still miss.
func (p *RistrettoProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return p.c.SetWithTTL(key, value, 1, ttl), nil
}

func (p *RistrettoProvider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *RistrettoProvider) Close(context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}
