package cacheinfra

import (
	"time"

	"github.com/goliatone/go-protocol-registry/cache"
)

// Provider names accepted by Config.Provider.
const (
	ProviderSturdyc   = "sturdyc"
	ProviderRistretto = "ristretto"
	ProviderBigcache  = "bigcache"
)

// Config holds the configuration shared by the cache providers.
type Config struct {
	// Provider selects the byte store: sturdyc (default), ristretto or bigcache.
	Provider string

	// Capacity defines the maximum number of entries the store keeps.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards for concurrent access.
	// bigcache requires a power of two. Default: 256
	NumShards int

	// TTL is the store level lifetime. Entries also carry their own expiry,
	// so this only bounds how long the store holds on to memory.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries sturdyc evicts
	// when it reaches capacity. Must be between 1-100. Default: 10
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc sweeps expired entries.
	// Zero uses the library default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for the listing counts.
func DefaultConfig() Config {
	return Config{
		Provider:           ProviderSturdyc,
		Capacity:           10000,
		NumShards:          256,
		TTL:                cache.DefaultTTL,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderSturdyc, ProviderRistretto, ProviderBigcache:
	default:
		return &ConfigError{Field: "Provider", Message: "must be one of sturdyc, ristretto, bigcache"}
	}

	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.Provider == ProviderBigcache && c.NumShards&(c.NumShards-1) != 0 {
		return &ConfigError{Field: "NumShards", Message: "must be a power of two for bigcache"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// NewProvider validates cfg and builds the configured provider.
func NewProvider(cfg Config) (cache.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderRistretto:
		return NewRistrettoProvider(cfg)
	case ProviderBigcache:
		return NewBigcacheProvider(cfg)
	default:
		return NewSturdycProvider(cfg)
	}
}
