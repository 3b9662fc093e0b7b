package cache

import (
	"TUI_channel_analytics/infrastructure/logger"
	"TUI_channel_analytics/internal/core/domain"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVideos() []domain.Video {
	return []domain.Video{
		{ID: "v1", Title: "one", PublishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "v2", Title: "two"},
	}
}

func TestVideoCacheHitAndMiss(t *testing.T) {
	ctx := context.Background()
	c := NewVideoCache(ctx, Options{Size: 4, TTL: time.Minute}, logger.Nop())

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)

	c.Set(ctx, "UC1", 50, sampleVideos())

	got, ok := c.Get(ctx, "UC1", 50)
	require.True(t, ok)
	assert.Equal(t, sampleVideos(), got)

	_, ok = c.Get(ctx, "UC1", 10)
	assert.False(t, ok, "max_results is part of the key")

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestVideoCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewVideoCache(ctx, Options{Size: 4, TTL: time.Minute}, logger.Nop())

	c.Set(ctx, "UC1", 50, sampleVideos())
	c.Set(ctx, "UC2", 50, sampleVideos())
	c.Invalidate(ctx, "UC1", 50)

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
	_, ok = c.Get(ctx, "UC2", 50)
	assert.True(t, ok)

	c.Purge(ctx)
	_, ok = c.Get(ctx, "UC2", 50)
	assert.False(t, ok)
}

func TestVideoCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewVideoCache(ctx, Options{Size: 4, TTL: 20 * time.Millisecond}, logger.Nop())

	c.Set(ctx, "UC1", 50, sampleVideos())
	time.Sleep(60 * time.Millisecond)

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
}

func TestVideoCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewVideoCache(ctx, Options{Size: 2, TTL: time.Minute}, logger.Nop())

	c.Set(ctx, "UC1", 50, sampleVideos())
	c.Set(ctx, "UC2", 50, sampleVideos())
	c.Set(ctx, "UC3", 50, sampleVideos())

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
}

func TestVideoCacheWithoutReachableRedis(t *testing.T) {
	ctx := context.Background()

	bad := NewVideoCache(ctx, Options{Size: 2, TTL: time.Minute, RedisURL: "not a url"}, logger.Nop())
	assert.Nil(t, bad.rdb)

	down := NewVideoCache(ctx, Options{Size: 2, TTL: time.Minute, RedisURL: "redis://127.0.0.1:1/0"}, logger.Nop())
	assert.Nil(t, down.rdb)

	down.Set(ctx, "UC1", 50, sampleVideos())
	_, ok := down.Get(ctx, "UC1", 50)
	assert.True(t, ok, "falls back to L1 only")
	assert.NoError(t, down.Close())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "channel_analytics:videos:UC1:50", Key("UC1", 50))
}

func newRedisCache(t *testing.T) (*VideoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewVideoCache(context.Background(), Options{
		Size:     4,
		TTL:      time.Minute,
		RedisURL: "redis://" + mr.Addr() + "/0",
	}, logger.Nop())
	require.NotNil(t, c.rdb)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func assertSameVideos(t *testing.T, want, got []domain.Video) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.True(t, want[i].PublishedAt.Equal(got[i].PublishedAt), "published_at of %s", want[i].ID)
	}
}

func TestVideoCacheServesFromRedisAfterPurge(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	c.Set(ctx, "UC1", 50, sampleVideos())
	assert.Equal(t, time.Minute, mr.TTL(Key("UC1", 50)))

	c.Purge(ctx)
	got, ok := c.Get(ctx, "UC1", 50)
	require.True(t, ok)
	assertSameVideos(t, sampleVideos(), got)

	// the L2 hit repopulated L1
	mr.FlushAll()
	got, ok = c.Get(ctx, "UC1", 50)
	require.True(t, ok)
	assertSameVideos(t, sampleVideos(), got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(0), misses)
}

func TestVideoCacheDiscardsCorruptRedisEntry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, mr.Set(Key("UC1", 50), "not json"))

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
	assert.False(t, mr.Exists(Key("UC1", 50)))

	_, misses := c.Stats()
	assert.Equal(t, int64(1), misses)
}

func TestVideoCacheInvalidateDeletesRedisKey(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	c.Set(ctx, "UC1", 50, sampleVideos())
	c.Set(ctx, "UC1", 10, sampleVideos())
	require.True(t, mr.Exists(Key("UC1", 50)))

	c.Invalidate(ctx, "UC1", 50)

	assert.False(t, mr.Exists(Key("UC1", 50)))
	assert.True(t, mr.Exists(Key("UC1", 10)))
	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
}

func TestVideoCacheRedisEntryExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	c.Set(ctx, "UC1", 50, sampleVideos())
	c.Purge(ctx)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "UC1", 50)
	assert.False(t, ok)
}
