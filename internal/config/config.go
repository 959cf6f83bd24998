package config

import (
	"log/slog"

	"github.com/bietkhonhungvandi212/bufferpool/pkg/logging"
)

// Config holds the buffer pool's tunables. Narrowed from the wider
// database-level Options the coordinator used to carry: K and
// BucketCapacity are consumed by the BPC, LKR and EHT; Logger is stored
// but not read by them.
type Config struct {
	K              int // LRU-K lookback
	BucketCapacity int // EHT bucket capacity
	Logger         *slog.Logger
}

// DefaultConfig returns sane defaults: K=2 (classic LRU-2), bucket
// capacity 4, and the package-level logger.
func DefaultConfig() Config {
	return Config{
		K:              2,
		BucketCapacity: 4,
		Logger:         logging.GetLogger(),
	}
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithK overrides the LRU-K lookback.
func WithK(k int) Option {
	return func(c *Config) { c.K = k }
}

// WithBucketCapacity overrides the EHT bucket capacity.
func WithBucketCapacity(cap int) Option {
	return func(c *Config) { c.BucketCapacity = cap }
}

// WithLogger sets Config.Logger. The pool, the replacer and the hash
// table do not read this field; they log through pkg/logging's
// package-level logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Apply builds a Config from defaults plus the given options.
func Apply(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
