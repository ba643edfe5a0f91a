// Package config loads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-protocol-registry/cache"
	"github.com/goliatone/go-protocol-registry/internal/cacheinfra"
	"github.com/goliatone/go-protocol-registry/internal/logx"
	"github.com/goliatone/go-protocol-registry/internal/service"
	"github.com/goliatone/go-protocol-registry/internal/store"
	"github.com/goliatone/go-protocol-registry/paging"
)

type Config struct {
	AppAddr string `mapstructure:"APP_ADDR"`

	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`

	CacheProvider string        `mapstructure:"CACHE_PROVIDER"`
	CacheCodec    string        `mapstructure:"CACHE_CODEC"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	CacheCapacity int           `mapstructure:"CACHE_CAPACITY"`
	CacheShards   int           `mapstructure:"CACHE_SHARDS"`

	ListDefaultPageSize int `mapstructure:"LIST_DEFAULT_PAGE_SIZE"`
	ListMaxPageSize     int `mapstructure:"LIST_MAX_PAGE_SIZE"`

	ProtocolNumberAttempts int `mapstructure:"PROTOCOL_NUMBER_ATTEMPTS"`

	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogBackend string `mapstructure:"LOG_BACKEND"`
}

// Default returns the configuration used when no variable is set: an
// in-memory sqlite database and a sturdyc count cache.
func Default() Config {
	cc := cacheinfra.DefaultConfig()
	return Config{
		AppAddr:                ":8080",
		DBDriver:               store.DriverSQLite,
		DBDSN:                  store.MemoryDSN,
		CacheProvider:          cc.Provider,
		CacheCodec:             "msgpack",
		CacheTTL:               cache.DefaultTTL,
		CacheCapacity:          cc.Capacity,
		CacheShards:            cc.NumShards,
		ListDefaultPageSize:    paging.DefaultPageSize,
		ListMaxPageSize:        paging.MaxPageSize,
		ProtocolNumberAttempts: service.DefaultNumberAttempts,
		LogLevel:               "info",
		LogBackend:             logx.BackendZap,
	}
}

// Load reads envFile when it exists, then the process environment, over
// the defaults. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	def := Default()
	defaults := map[string]any{
		"APP_ADDR":                 def.AppAddr,
		"DB_DRIVER":                def.DBDriver,
		"DB_DSN":                   def.DBDSN,
		"CACHE_PROVIDER":           def.CacheProvider,
		"CACHE_CODEC":              def.CacheCodec,
		"CACHE_TTL":                def.CacheTTL,
		"CACHE_CAPACITY":           def.CacheCapacity,
		"CACHE_SHARDS":             def.CacheShards,
		"LIST_DEFAULT_PAGE_SIZE":   def.ListDefaultPageSize,
		"LIST_MAX_PAGE_SIZE":       def.ListMaxPageSize,
		"PROTOCOL_NUMBER_ATTEMPTS": def.ProtocolNumberAttempts,
		"LOG_LEVEL":                def.LogLevel,
		"LOG_BACKEND":              def.LogBackend,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.CacheProvider = strings.ToLower(strings.TrimSpace(c.CacheProvider))
	c.CacheCodec = strings.ToLower(strings.TrimSpace(c.CacheCodec))
	c.LogBackend = strings.ToLower(strings.TrimSpace(c.LogBackend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks the values Load cannot default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AppAddr) == "" {
		return &ConfigError{Field: "APP_ADDR", Message: "is required"}
	}

	switch c.DBDriver {
	case store.DriverSQLite:
	case store.DriverPostgres:
		if c.DBDSN == "" {
			return &ConfigError{Field: "DB_DSN", Message: "is required for postgres"}
		}
	default:
		return &ConfigError{Field: "DB_DRIVER", Message: "must be one of sqlite, postgres"}
	}

	if _, err := cache.CodecByName(c.CacheCodec); err != nil {
		return &ConfigError{Field: "CACHE_CODEC", Message: "must be one of msgpack, cbor, json"}
	}

	if err := c.CacheConfig().Validate(); err != nil {
		return err
	}

	if c.ListMaxPageSize < 1 || c.ListMaxPageSize > paging.MaxPageSize {
		return &ConfigError{Field: "LIST_MAX_PAGE_SIZE", Message: fmt.Sprintf("must be between 1 and %d", paging.MaxPageSize)}
	}
	if c.ListDefaultPageSize < 1 || c.ListDefaultPageSize > c.ListMaxPageSize {
		return &ConfigError{Field: "LIST_DEFAULT_PAGE_SIZE", Message: "must be between 1 and LIST_MAX_PAGE_SIZE"}
	}

	if c.ProtocolNumberAttempts < 1 {
		return &ConfigError{Field: "PROTOCOL_NUMBER_ATTEMPTS", Message: "must be greater than 0"}
	}

	switch c.LogBackend {
	case logx.BackendZap, logx.BackendLogrus:
	default:
		return &ConfigError{Field: "LOG_BACKEND", Message: "must be one of zap, logrus"}
	}
	return nil
}

// CacheConfig maps the cache settings to the provider configuration.
func (c Config) CacheConfig() cacheinfra.Config {
	cc := cacheinfra.DefaultConfig()
	cc.Provider = c.CacheProvider
	cc.TTL = c.CacheTTL
	cc.Capacity = c.CacheCapacity
	cc.NumShards = c.CacheShards
	return cc
}

// PagingOptions maps the listing settings to executor options.
func (c Config) PagingOptions(logger cache.Logger) paging.Options {
	return paging.Options{
		DefaultPageSize: c.ListDefaultPageSize,
		MaxPageSize:     c.ListMaxPageSize,
		CountTTL:        c.CacheTTL,
		Logger:          logger,
	}
}

// String renders the configuration with the DSN credentials masked.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "addr=%s db=%s dsn=%s ", c.AppAddr, c.DBDriver, maskDSN(c.DBDSN))
	fmt.Fprintf(&sb, "cache=%s codec=%s ttl=%s capacity=%d shards=%d ",
		c.CacheProvider, c.CacheCodec, c.CacheTTL, c.CacheCapacity, c.CacheShards)
	fmt.Fprintf(&sb, "page=%d/%d attempts=%d log=%s/%s",
		c.ListDefaultPageSize, c.ListMaxPageSize, c.ProtocolNumberAttempts, c.LogBackend, c.LogLevel)
	return sb.String()
}

// maskDSN hides the password of a URL style DSN.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":********" + dsn[at:]
	}
	return dsn
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
