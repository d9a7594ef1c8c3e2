package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppiankov/pmicheck/internal/model"
)

// Cache defines the interface for caching scoring responses and session snapshots
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// KeyPrefix namespaces every key pmicheck writes to a shared Redis
const KeyPrefix = "pmicheck:v1:"

// HashKey generates a cache key from a namespace and an opaque payload
func HashKey(namespace string, payload []byte) string {
	hash := sha256.Sum256(payload)
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds the backend named by cfg.Backend
func New(cfg model.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires redis_addr")
		}
		return NewRedisCache(cfg.RedisAddr, KeyPrefix, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
