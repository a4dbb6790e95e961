package cache

import (
	"context"
	"sync"
	"time"
)

// Versioned orders writes to an inner cache. Invalidate bumps a key's
// version and a value loaded under an older version is dropped instead of
// stored, so a slow reader cannot put back what a newer write replaced.
// Versions are process-local.
type Versioned[V any] struct {
	inner Cache[V]

	mu       sync.Mutex
	versions map[string]uint64
}

// NewVersioned wraps inner.
func NewVersioned[V any](inner Cache[V]) *Versioned[V] {
	return &Versioned[V]{
		inner:    inner,
		versions: make(map[string]uint64),
	}
}

// Version is the key's current version. Read it before loading the value
// that will be passed to SetIfVersion.
func (c *Versioned[V]) Version(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key]
}

func (c *Versioned[V]) Get(ctx context.Context, key string) (V, error) {
	return c.inner.Get(ctx, key)
}

// Invalidate bumps the key's version and deletes its value. The new version
// is returned even when the delete fails.
func (c *Versioned[V]) Invalidate(ctx context.Context, key string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.versions[key]++
	return c.versions[key], c.inner.Delete(ctx, key)
}

// SetIfVersion stores value only while the key is still at version. It
// reports whether the value was written.
func (c *Versioned[V]) SetIfVersion(ctx context.Context, key string, version uint64, value V, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.versions[key] != version {
		return false, nil
	}
	if err := c.inner.Set(ctx, key, value, ttl); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Versioned[V]) Close() error {
	return c.inner.Close()
}

// GetOrLoadVersioned returns the cached value for key, calling load on a miss
// and storing its result for ttl unless the key was invalidated while it
// loaded. Backend errors fall through to load and a failed Set is not
// reported, so a broken cache only costs latency.
func GetOrLoadVersioned[V any](ctx context.Context, c *Versioned[V], key string, ttl time.Duration, load func(context.Context) (V, error)) (V, error) {
	version := c.Version(key)
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	_, _ = c.SetIfVersion(ctx, key, version, v, ttl)
	return v, nil
}
