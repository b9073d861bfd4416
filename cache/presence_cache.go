package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"chordfm/core/geo"
	"chordfm/model"

	"github.com/go-redis/redis/v8"
)

const (
	presenceMembersKey = "presence:listeners"    // Hash: userID -> Presence JSON
	presenceAliveKey   = "presence:alive:%d"     // String: per-user heartbeat key
	presenceTTL        = 90 * time.Second        // heartbeat expiry
)

// PresenceCache keeps listener heartbeats in Redis. Rows live only as long
// as their per-user heartbeat key; a listener that stops pinging falls out
// of nearby queries on the next read.
type PresenceCache struct {
	client *redis.Client
}

// NewPresenceCache creates a presence cache over the global client.
func NewPresenceCache() *PresenceCache {
	return &PresenceCache{client: RedisClient}
}

// Heartbeat stores or refreshes a listener's presence row.
func (c *PresenceCache) Heartbeat(ctx context.Context, p *model.Presence) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	p.LastSeen = time.Now()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, presenceMembersKey, fmt.Sprintf("%d", p.UserID), data)
	pipe.Set(ctx, fmt.Sprintf(presenceAliveKey, p.UserID), "1", presenceTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Remove drops a listener's presence row immediately.
func (c *PresenceCache) Remove(ctx context.Context, userID int64) error {
	if c.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	pipe := c.client.Pipeline()
	pipe.HDel(ctx, presenceMembersKey, fmt.Sprintf("%d", userID))
	pipe.Del(ctx, fmt.Sprintf(presenceAliveKey, userID))
	_, err := pipe.Exec(ctx)
	return err
}

// Nearby returns listeners within radiusKm of (lat, lon), closest first,
// excluding the querying user. Distance is the Haversine great-circle
// distance. Rows whose heartbeat expired are pruned along the way.
func (c *PresenceCache) Nearby(ctx context.Context, userID int64, lat, lon, radiusKm float64) ([]model.NearbyListener, error) {
	if c.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	rows, err := c.client.HGetAll(ctx, presenceMembersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read presence rows: %w", err)
	}

	var out []model.NearbyListener
	for field, raw := range rows {
		var p model.Presence
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		if p.UserID == userID {
			continue
		}

		alive, err := c.client.Exists(ctx, fmt.Sprintf(presenceAliveKey, p.UserID)).Result()
		if err == nil && alive == 0 {
			// Heartbeat expired; prune the stale row.
			c.client.HDel(ctx, presenceMembersKey, field)
			continue
		}

		dist := geo.HaversineKm(lat, lon, p.Lat, p.Lon)
		if dist <= radiusKm {
			out = append(out, model.NearbyListener{Presence: p, DistanceKm: dist})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
