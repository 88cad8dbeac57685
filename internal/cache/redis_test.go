package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/cache"
	"github.com/oggyb/findtheone/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.DB = 0
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestLikeCount_MissSetInvalidate(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)

	_, ok, err := rc.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rc.UpdateLikeCount(ctx, 42, 3))
	n, ok, err := rc.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, time.Hour, mr.TTL(rc.KeyForLikeCount(42)))

	require.NoError(t, rc.InvalidateLikeCount(ctx, 42, 43))
	assert.False(t, mr.Exists(rc.KeyForLikeCount(42)))
}

func TestAllow_FixedWindow(t *testing.T) {
	ctx := context.Background()
	rc, _ := newCache(t)

	for i := 0; i < 3; i++ {
		ok, err := rc.Allow(ctx, "user:1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i)
	}
	ok, err := rc.Allow(ctx, "user:1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	// other subjects have their own window
	ok, err = rc.Allow(ctx, "user:2", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	// non-positive limit disables limiting
	ok, err = rc.Allow(ctx, "user:1", 0, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllow_SubSecondWindows(t *testing.T) {
	ctx := context.Background()
	rc, mr := newCache(t)

	for _, window := range []time.Duration{500 * time.Millisecond, time.Microsecond, 0} {
		assert.NotPanics(t, func() {
			_, err := rc.Allow(ctx, "user:9", 5, window)
			require.NoError(t, err)
		}, "window %s", window)
	}

	key := rc.KeyForRateLimit("user:1", 500*time.Millisecond, time.UnixMilli(1_700_000_000_250))
	assert.Equal(t, "ratelimit:user:1:3400000000", key)
	assert.Equal(t, key, rc.KeyForRateLimit("user:1", 500*time.Millisecond, time.UnixMilli(1_700_000_000_499)))
	assert.NotEqual(t, key, rc.KeyForRateLimit("user:1", 500*time.Millisecond, time.UnixMilli(1_700_000_000_500)))

	ok, err := rc.Allow(ctx, "user:3", 1, 500*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	for _, k := range mr.Keys() {
		assert.Positive(t, mr.TTL(k), k)
		assert.LessOrEqual(t, mr.TTL(k), 500*time.Millisecond, k)
	}
}
