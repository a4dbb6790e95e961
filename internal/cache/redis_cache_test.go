package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T, opTimeout time.Duration) (*RedisCache[string], *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	rc := NewRedisCache[string](&RedisOptions{
		Addr:            s.Addr(),
		PoolSize:        5,
		MinIdleConns:    1,
		MaxRetries:      1,
		MinRetryBackoff: time.Millisecond,
		MaxRetryBackoff: 10 * time.Millisecond,
		OpTimeout:       opTimeout,
		KeyPrefix:       "test:",
	})
	t.Cleanup(func() { _ = rc.Close() })
	return rc, s
}

func TestRedisCacheDefaultOpTimeout(t *testing.T) {
	rc, _ := setupRedisCache(t, 0)
	assert.Equal(t, 50*time.Millisecond, rc.opTimeout)

	ctx := context.Background()
	assert.NoError(t, rc.Set(ctx, "foo", "bar", 0))
	v, err := rc.Get(ctx, "foo")
	assert.NoError(t, err)
	assert.Equal(t, "bar", v)
}

func TestRedisCacheBasicAndEdgeCases(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rc.Ping(ctx))

	assert.NoError(t, rc.Set(ctx, "key", "value", 0))
	v, err := rc.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	raw, err := s.Get("test:key")
	require.NoError(t, err)
	assert.Equal(t, `"value"`, raw, "values are stored as JSON under the prefixed key")

	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, rc.Set(ctx, "temp", "x", 50*time.Millisecond))
	s.FastForward(100 * time.Millisecond)
	v, err = rc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, v)

	assert.NoError(t, rc.Delete(ctx, "key"))
	_, err = rc.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheClosedClient(t *testing.T) {
	rc, _ := setupRedisCache(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "foo", "bar", 0))
	require.NoError(t, rc.Close())

	_, err := rc.Get(ctx, "foo")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheGet_UnmarshalError(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)

	require.NoError(t, s.Set("test:bad", "not-a-json"))
	val, err := rc.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid character")
	assert.Empty(t, val)
}

func TestRedisCacheSet_MarshalError(t *testing.T) {
	s := miniredis.RunT(t)
	rcFunc := NewRedisCache[func()](&RedisOptions{Addr: s.Addr(), OpTimeout: 50 * time.Millisecond})
	defer rcFunc.Close()

	err := rcFunc.Set(context.Background(), "fn", func() {}, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type: func")
}
