package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), "wpgate:", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	url, err := store.GetImageURL(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "", url, "miss should come back empty without error")

	require.NoError(t, store.SetImageURL(ctx, 42, "https://example.com/image.jpg"))

	url, err = store.GetImageURL(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/image.jpg", url)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetImageURL(ctx, 7, "https://example.com/a.jpg"))
	mr.FastForward(2 * time.Minute)

	url, err := store.GetImageURL(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "", url)
}

func TestRedisStoreClear(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetImageURL(ctx, 1, "https://example.com/1.jpg"))
	require.NoError(t, store.SetImageURL(ctx, 2, "https://example.com/2.jpg"))
	require.NoError(t, mr.Set("unrelated", "survives"))

	require.NoError(t, store.Clear(ctx))

	url, err := store.GetImageURL(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "", url)

	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not-a-redis-url", "wpgate:", time.Minute)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	url, err := store.GetImageURL(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "", url)

	require.NoError(t, store.SetImageURL(ctx, 5, "https://example.com/5.jpg"))

	url, err = store.GetImageURL(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/5.jpg", url)

	require.NoError(t, store.Clear(ctx))

	url, err = store.GetImageURL(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "", url)
	assert.NoError(t, store.Close())
}
