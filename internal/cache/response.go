// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache of encoded API responses.
// Keys embed the catalog version, so a reload never serves stale bodies;
// InvalidateAll only reclaims memory held by older versions.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix is the Valkey key prefix for cached responses.
	keyPrefix = "catalog:"

	// DefaultTTL is how long an encoded response stays cached.
	DefaultTTL = 5 * time.Minute
)

// ResponseCache stores encoded responses in Valkey. A nil *ResponseCache
// is valid and caches nothing.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key returns the Valkey key for a request under a catalog version.
func Key(version, request string) string {
	return keyPrefix + version + ":" + request
}

// Get retrieves a cached body. Errors are logged and reported as a miss.
func (rc *ResponseCache) Get(ctx context.Context, version, request string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, Key(version, request)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "request", request, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "request", request)
	return val, true
}

// Set stores an encoded body with the configured TTL.
func (rc *ResponseCache) Set(ctx context.Context, version, request string, body []byte) {
	if rc == nil {
		return
	}
	if err := rc.client.Set(ctx, Key(version, request), body, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "request", request, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Called after a catalog reload.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	if rc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}
