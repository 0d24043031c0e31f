// Package cache provides a redis read-through cache for the segment catalog.
// The catalog is read on every segment resolution, so it is cached with a
// short TTL; any cache failure degrades to the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"campaign_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const segmentNamesKey = "masterdata:segments:active"

// SegmentNameSource loads active segment names from the source of truth.
type SegmentNameSource interface {
	ListActiveSegmentNames(ctx context.Context) ([]string, error)
}

// SegmentCache caches active segment names in redis.
type SegmentCache struct {
	source SegmentNameSource
	rdb    *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewSegmentCache creates a read-through segment name cache.
// A nil redis client disables caching entirely.
func NewSegmentCache(source SegmentNameSource, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *SegmentCache {
	return &SegmentCache{source: source, rdb: rdb, ttl: ttl, log: log}
}

// ListActiveSegmentNames returns the cached names, falling back to the source.
func (c *SegmentCache) ListActiveSegmentNames(ctx context.Context) ([]string, error) {
	if c.rdb == nil {
		return c.source.ListActiveSegmentNames(ctx)
	}

	payload, err := c.rdb.Get(ctx, segmentNamesKey).Bytes()
	if err == nil {
		var names []string
		if jsonErr := json.Unmarshal(payload, &names); jsonErr == nil {
			return names, nil
		}
	} else if err != redis.Nil {
		c.log.Warn("segment cache read failed", "error", err)
	}

	names, err := c.source.ListActiveSegmentNames(ctx)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(names); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, segmentNamesKey, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn("segment cache write failed", "error", setErr)
		}
	}

	return names, nil
}

// Invalidate drops the cached segment names.
func (c *SegmentCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, segmentNamesKey).Err(); err != nil {
		c.log.Warn("segment cache invalidation failed", "error", err)
	}
}
