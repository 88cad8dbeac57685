package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/findtheone/internal/config"
)

const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForLikeCount generates Redis key for a user's liked-you count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

func (c *RedisCache) UpdateLikeCount(ctx context.Context, userID uint64, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, likeCountTTL).Err()
}

// GetLikeCount returns the cached count and whether it was present.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	return n, true, nil
}

// InvalidateLikeCount drops the cached count so the next read recomputes it.
// The liked-you count excludes dislikes and matches, so incrementing in place drifts.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForLikeCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}

// minRateWindow is the smallest window a fixed-window key can bucket by.
const minRateWindow = time.Millisecond

func rateWindow(window time.Duration) time.Duration {
	if window < minRateWindow {
		return minRateWindow
	}
	return window
}

// KeyForRateLimit is the fixed-window counter key for a subject.
// Windows below a millisecond are treated as one millisecond.
func (c *RedisCache) KeyForRateLimit(subject string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", subject, now.UnixMilli()/rateWindow(window).Milliseconds())
}

// Allow counts one hit for subject in the current fixed window and reports
// whether the subject is still within limit.
func (c *RedisCache) Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	window = rateWindow(window)
	key := c.KeyForRateLimit(subject, window, time.Now())

	pipe := c.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Publish sends a payload on a pub/sub channel.
func (c *RedisCache) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.Client.Publish(ctx, channel, payload).Err()
}
