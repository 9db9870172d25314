package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const leaderboardVersionKey = "leaderboard:version"

// LeaderboardCache stores rendered leaderboard pages. Pages are keyed by a
// version counter, so bumping the counter invalidates every page at once and
// stale keys simply expire.
type LeaderboardCache interface {
	// GetPage decodes a cached page into dest and reports whether it was
	// found, along with the version it looked under.
	GetPage(ctx context.Context, page, size int, dest interface{}) (version int64, found bool, err error)
	// SetPage stores value under the version returned by the GetPage miss
	// that led to it, so a page loaded before an Invalidate is never served
	// after it.
	SetPage(ctx context.Context, version int64, page, size int, value interface{}) error
	Invalidate(ctx context.Context) error
}

// RedisLeaderboardCache implements LeaderboardCache on Redis
type RedisLeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLeaderboardCache returns a Redis backed cache, or a no-op cache when
// client is nil
func NewLeaderboardCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardCache {
	if client == nil {
		return NoopLeaderboardCache{}
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLeaderboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "leaderboard_cache").Logger(),
	}
}

// PageKey builds the cache key of one page for a given version
func PageKey(version int64, page, size int) string {
	return fmt.Sprintf("leaderboard:v%d:%d:%d", version, page, size)
}

func (c *RedisLeaderboardCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, leaderboardVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetPage implements LeaderboardCache
func (c *RedisLeaderboardCache) GetPage(ctx context.Context, page, size int, dest interface{}) (int64, bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("read leaderboard version: %w", err)
	}

	raw, err := c.client.Get(ctx, PageKey(v, page, size)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read leaderboard page: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn().Err(err).Int("page", page).Msg("Discarding undecodable leaderboard page")
		return v, false, nil
	}
	return v, true, nil
}

// SetPage implements LeaderboardCache
func (c *RedisLeaderboardCache) SetPage(ctx context.Context, version int64, page, size int, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PageKey(version, page, size), data, c.ttl).Err()
}

// Invalidate implements LeaderboardCache
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, leaderboardVersionKey).Err(); err != nil {
		return fmt.Errorf("bump leaderboard version: %w", err)
	}
	return nil
}

// NoopLeaderboardCache is used when Redis is not configured
type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) GetPage(context.Context, int, int, interface{}) (int64, bool, error) {
	return 0, false, nil
}

func (NoopLeaderboardCache) SetPage(context.Context, int64, int, int, interface{}) error { return nil }

func (NoopLeaderboardCache) Invalidate(context.Context) error { return nil }
