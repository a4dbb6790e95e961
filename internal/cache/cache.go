package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
	// Close releases connections or background goroutines.
	Close() error
}

// Config selects and tunes the cache backend.
type Config struct {
	Backend       string        `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=memory redis"`
	KeyPrefix     string        `env:"CACHE_KEY_PREFIX" env-default:"funmarket:"`
	RedisAddr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	RedisPoolSize int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	OpTimeout     time.Duration `env:"CACHE_OP_TIMEOUT" env-default:"50ms"`
}

// GetDefaultConfig returns an in-process cache configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Backend:       MemoryBackend,
		KeyPrefix:     "funmarket:",
		RedisAddr:     "localhost:6379",
		RedisPoolSize: 10,
		OpTimeout:     50 * time.Millisecond,
	}
}

// Validate checks the backend name and redis settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case MemoryBackend:
		return nil
	case RedisBackend:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis address is required", models.ErrInvalidCacheBackend)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidCacheBackend, c.Backend)
	}
}

// New builds the backend named by cfg.
func New[V any](cfg *Config) (Cache[V], error) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Backend == RedisBackend {
		return NewRedisCache[V](&RedisOptions{
			Addr:            cfg.RedisAddr,
			Password:        cfg.RedisPassword,
			DB:              cfg.RedisDB,
			PoolSize:        cfg.RedisPoolSize,
			MinRetryBackoff: 8 * time.Millisecond,
			MaxRetryBackoff: 512 * time.Millisecond,
			OpTimeout:       cfg.OpTimeout,
			KeyPrefix:       cfg.KeyPrefix,
		}), nil
	}
	return NewMemoryCache[V](), nil
}

// JSON stores typed values in a string cache, so modules can share the
// container's Cache[string] without each opening its own backend.
type JSON[V any] struct {
	inner Cache[string]
}

var _ Cache[struct{}] = (*JSON[struct{}])(nil)

// NewJSON wraps inner with a JSON codec for V.
func NewJSON[V any](inner Cache[string]) *JSON[V] {
	return &JSON[V]{inner: inner}
}

func (j *JSON[V]) Get(ctx context.Context, key string) (V, error) {
	var val V
	raw, err := j.inner.Get(ctx, key)
	if err != nil {
		return val, err
	}
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		return val, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return val, nil
}

func (j *JSON[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return j.inner.Set(ctx, key, string(data), ttl)
}

func (j *JSON[V]) Delete(ctx context.Context, key string) error {
	return j.inner.Delete(ctx, key)
}

// Close is a no-op; the wrapped cache is owned by whoever created it.
func (j *JSON[V]) Close() error {
	return nil
}
