package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-protocol-registry/cache"
)

var _ cache.Provider = (*SturdycProvider)(nil)

// SturdycProvider stores envelopes in a sturdyc client.
type SturdycProvider struct {
	client *sturdyc.Client[[]byte]
}

// ToSturdycOptions maps the optional settings to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// NewSturdycProvider creates a sturdyc backed provider.
//
// sturdyc applies a single client wide TTL, so the per-entry TTL passed to Set
// is enforced by the envelope expiry checked in cache.TagCache.
func NewSturdycProvider(cfg Config) (*SturdycProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycProvider{client: client}, nil
}

func (p *SturdycProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (p *SturdycProvider) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	p.client.Set(key, value)
	return true, nil
}

func (p *SturdycProvider) Del(_ context.Context, key string) error {
	p.client.Delete(key)
	return nil
}

func (p *SturdycProvider) Close(context.Context) error { return nil }
