package cache

import (
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "channel_analytics:videos:"

// VideoCache memoizes channel listings in an in-memory LRU with TTL and,
// when a Redis client is configured, in Redis as a shared second tier.
type VideoCache struct {
	l1  *expirable.LRU[string, []domain.Video]
	rdb *redis.Client
	ttl time.Duration
	log ports.LoggerPort

	hits   atomic.Int64
	misses atomic.Int64
}

type Options struct {
	Size int
	TTL  time.Duration
	// RedisURL enables the L2 tier. Empty disables it.
	RedisURL string
}

func NewVideoCache(ctx context.Context, opts Options, logger ports.LoggerPort) *VideoCache {
	if opts.Size <= 0 {
		opts.Size = 32
	}

	c := &VideoCache{
		l1:  expirable.NewLRU[string, []domain.Video](opts.Size, nil, opts.TTL),
		ttl: opts.TTL,
		log: logger,
	}

	if opts.RedisURL != "" {
		c.rdb = connectRedis(ctx, opts.RedisURL, logger)
	}

	logger.Info(fmt.Sprintf("Video cache initialized: size=%d ttl=%s redis=%t", opts.Size, opts.TTL, c.rdb != nil))
	return c
}

func connectRedis(ctx context.Context, redisURL string, logger ports.LoggerPort) *redis.Client {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("Invalid redis URL, L2 cache disabled", err)
		return nil
	}

	rdb := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis unreachable, L2 cache disabled", err)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis L2 cache connected at " + redisOpts.Addr)
	return rdb
}

func Key(channelID string, maxResults int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, channelID, maxResults)
}

func (c *VideoCache) Get(ctx context.Context, channelID string, maxResults int64) ([]domain.Video, bool) {
	key := Key(channelID, maxResults)

	if videos, ok := c.l1.Get(key); ok {
		c.hits.Add(1)
		return videos, true
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var videos []domain.Video
			if err := json.Unmarshal(data, &videos); err == nil {
				c.l1.Add(key, videos)
				c.hits.Add(1)
				return videos, true
			}
			c.log.Warning("Discarding corrupt cache entry " + key)
			if err := c.rdb.Del(ctx, key).Err(); err != nil {
				c.log.Error("Redis delete failed", err)
			}
		} else if !errors.Is(err, redis.Nil) {
			c.log.Error("Redis get failed", err)
		}
	}

	c.misses.Add(1)
	return nil, false
}

func (c *VideoCache) Set(ctx context.Context, channelID string, maxResults int64, videos []domain.Video) {
	key := Key(channelID, maxResults)
	c.l1.Add(key, videos)

	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(videos)
	if err != nil {
		c.log.Error("Failed to encode cache entry", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("Redis set failed", err)
	}
}

func (c *VideoCache) Invalidate(ctx context.Context, channelID string, maxResults int64) {
	key := Key(channelID, maxResults)
	c.l1.Remove(key)

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.log.Error("Redis delete failed", err)
		}
	}
}

// Purge clears the in-memory tier only. Redis entries are shared with other
// processes and are left to expire.
func (c *VideoCache) Purge(context.Context) {
	c.l1.Purge()
}

func (c *VideoCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *VideoCache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

var _ ports.VideoCachePort = (*VideoCache)(nil)
