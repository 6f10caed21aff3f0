package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "storefront:")
	t.Cleanup(func() { c.Close() })
	return mr, c
}

type category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func TestSetGetDel(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "categories", []category{{ID: "1", Name: "Books"}}, time.Minute))
	assert.True(t, mr.Exists("storefront:categories"))

	var got []category
	require.True(t, c.Get(ctx, "categories", &got))
	assert.Equal(t, []category{{ID: "1", Name: "Books"}}, got)

	require.NoError(t, c.Del(ctx, "categories"))
	assert.False(t, c.Get(ctx, "categories", &got))
}

func TestTTLExpires(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "product-count", 7, time.Second))
	mr.FastForward(2 * time.Second)

	var n int
	assert.False(t, c.Get(ctx, "product-count", &n))
}

func TestRememberLoadsOnce(t *testing.T) {
	_, c := setupTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.Remember(ctx, c, "product-count", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	_, c := setupTestRedis(t)
	boom := errors.New("db down")

	_, err := cache.Remember(context.Background(), c, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var n int
	assert.False(t, c.Get(context.Background(), "k", &n), "errors are not cached")
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *cache.Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	assert.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	assert.NoError(t, c.Del(ctx, "k"))
	assert.NoError(t, c.Close())

	v, err := cache.Remember(ctx, c, "k", time.Minute, func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestRedisDownFallsThrough(t *testing.T) {
	mr, c := setupTestRedis(t)
	mr.Close()

	v, err := cache.Remember(context.Background(), c, "k", time.Minute, func() (int, error) { return 9, nil })
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}
