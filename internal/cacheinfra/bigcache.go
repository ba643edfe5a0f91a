package cacheinfra

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/goliatone/go-protocol-registry/cache"
)

var _ cache.Provider = (*BigcacheProvider)(nil)

// BigcacheProvider stores envelopes in bigcache. bigcache only knows a global
// life window (cfg.TTL); shorter per-entry TTLs rely on the envelope expiry.
type BigcacheProvider struct {
	c *bc.BigCache
}

func NewBigcacheProvider(cfg Config) (*BigcacheProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conf := bc.DefaultConfig(cfg.TTL)
	conf.Shards = cfg.NumShards
	conf.MaxEntriesInWindow = cfg.Capacity
	conf.Verbose = false
	if cfg.EvictionInterval > 0 {
		conf.CleanWindow = cfg.EvictionInterval
	}

	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &BigcacheProvider{c: c}, nil
}

func (p *BigcacheProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *BigcacheProvider) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *BigcacheProvider) Del(_ context.Context, key string) error {
	if err := p.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (p *BigcacheProvider) Close(context.Context) error {
	return p.c.Close()
}
