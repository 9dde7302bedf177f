package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process TTL cache. It backs single-node deployments
// and tests where Redis is not worth running.
type MemoryCache struct {
	inner *gocache.Cache
}

// NewMemoryCache creates an in-memory cache that prunes expired entries every
// ten minutes.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		inner: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (mc *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := mc.inner.Get(key)
	if !ok {
		return "", ErrMiss
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrMiss
	}
	return s, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	mc.inner.Set(key, value, ttl)
	return nil
}

func (mc *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		mc.inner.Delete(k)
	}
	return nil
}
