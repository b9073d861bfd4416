package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chordfm/model"

	"github.com/go-redis/redis/v8"
)

const (
	feedPageKey   = "feed:page:%d:%d" // page, pageSize
	trackCountKey = "track:%d:counts" // Hash: likes, saves, comments
	feedTTL       = 2 * time.Minute
	countTTL      = 10 * time.Minute
)

// FeedCache caches feed pages and per-track counters in Redis so the feed
// query doesn't hit MySQL on every scroll.
type FeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a feed cache over the global client.
func NewFeedCache() *FeedCache {
	return &FeedCache{client: RedisClient}
}

// GetPage returns a cached feed page, or (nil, nil) on a miss.
func (c *FeedCache) GetPage(ctx context.Context, page, pageSize int) ([]*model.Track, error) {
	if c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	key := fmt.Sprintf(feedPageKey, page, pageSize)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed page: %w", err)
	}

	var tracks []*model.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed page: %w", err)
	}
	return tracks, nil
}

// SetPage stores a feed page with the feed TTL.
func (c *FeedCache) SetPage(ctx context.Context, page, pageSize int, tracks []*model.Track) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal feed page: %w", err)
	}
	key := fmt.Sprintf(feedPageKey, page, pageSize)
	return c.client.Set(ctx, key, data, feedTTL).Err()
}

// InvalidateFeed drops every cached feed page. Called after track ingestion.
func (c *FeedCache) InvalidateFeed(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	iter := c.client.Scan(ctx, 0, "feed:page:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete feed page key: %w", err)
		}
	}
	return iter.Err()
}

// BumpCount adjusts one per-track counter (likes/saves/comments) by delta.
func (c *FeedCache) BumpCount(ctx context.Context, trackID int64, field string, delta int64) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	key := fmt.Sprintf(trackCountKey, trackID)
	pipe := c.client.Pipeline()
	pipe.HIncrBy(ctx, key, field, delta)
	pipe.Expire(ctx, key, countTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCounts returns the cached counters for a track; missing fields are 0.
func (c *FeedCache) GetCounts(ctx context.Context, trackID int64) (map[string]int64, error) {
	if c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	raw, err := c.client.HGetAll(ctx, fmt.Sprintf(trackCountKey, trackID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get track counts: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for field, val := range raw {
		var n int64
		fmt.Sscanf(val, "%d", &n)
		counts[field] = n
	}
	return counts, nil
}
