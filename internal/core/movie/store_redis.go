// Copyright (c) 2026 Film8X. All rights reserved.

package movie

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/film8x/film8x/internal/platform/constants"
)

// RedisViewMarker implements the ViewMarker contract on top of Redis TTL keys.
//
// Each (movie, client) pair maps to one key with a sliding-window expiry.
// SetNX gives the first-view check and the marker write in one round trip.
type RedisViewMarker struct {
	client *redis.Client
}

// NewViewMarker creates a Redis-backed view deduplicator.
func NewViewMarker(client *redis.Client) *RedisViewMarker {
	return &RedisViewMarker{client: client}
}

// MarkViewed records that clientKey viewed movieID and reports whether this
// is the FIRST view inside the dedup window.
func (marker *RedisViewMarker) MarkViewed(ctx context.Context, movieID, clientKey string) (bool, error) {
	key := constants.RedisPrefixViewMarker + movieID + ":" + clientKey

	first, err := marker.client.SetNX(ctx, key, "1", constants.ViewMarkerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis_view_marker_setnx_failed: %w", err)
	}

	return first, nil
}
