// Package cache stores rendered artifacts keyed by the data they came from.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing a cache, and [NullCache] to disable caching. [Open]
// picks one from configuration, and [Instrument] reports hits and misses
// to the observability hooks.
//
// Keys come from a [Keyer]. Artifact keys hash the document together with
// every option that changes the output, so a stale entry is never served
// after an edit; old entries simply expire.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/entitymap/pkg/config"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the cache selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Driver {
	case config.CacheNone:
		return NewNullCache(), nil
	case config.CacheRedis:
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheFile, "":
		if cfg.Dir == "" {
			return NewNullCache(), nil
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
