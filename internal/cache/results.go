// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// results.go caches computed read results (the published category tree and
// search hits) in Valkey. Every content mutation clears the whole prefix, so
// entries never outlive the data they were computed from by more than one
// write. Failures are logged and reported as misses.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"helpcenter/internal/models"
	"helpcenter/internal/tree"
)

const (
	// keyPrefix namespaces every help-center cache entry.
	keyPrefix = "help:"

	searchPrefix = keyPrefix + "search:"
	treeKey      = keyPrefix + "tree:published"

	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = 5 * time.Minute
)

// ResultCache stores JSON-encoded read results. A nil *ResultCache is a
// valid cache that always misses.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a result cache backed by the given Valkey client.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

func (rc *ResultCache) enabled() bool {
	return rc != nil && rc.client != nil
}

// get decodes the value at key into dst. Returns false on miss or error.
func (rc *ResultCache) get(ctx context.Context, key string, dst any) bool {
	if !rc.enabled() {
		return false
	}
	val, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("result cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("result cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("result cache hit", "key", key)
	return true
}

// set encodes v and stores it at key with the configured TTL.
func (rc *ResultCache) set(ctx context.Context, key string, v any) {
	if !rc.enabled() {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("result cache encode error", "key", key, "error", err)
		return
	}
	if err := rc.client.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("result cache set error", "key", key, "error", err)
	}
}

// GetItems returns the cached search hits for a token key.
func (rc *ResultCache) GetItems(ctx context.Context, key string) ([]models.Item, bool) {
	var items []models.Item
	if !rc.get(ctx, searchPrefix+key, &items) {
		return nil, false
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, true
}

// SetItems caches search hits for a token key.
func (rc *ResultCache) SetItems(ctx context.Context, key string, items []models.Item) {
	rc.set(ctx, searchPrefix+key, items)
}

// GetTree returns the cached published category branches.
func (rc *ResultCache) GetTree(ctx context.Context) ([]tree.Node, bool) {
	var nodes []tree.Node
	if !rc.get(ctx, treeKey, &nodes) {
		return nil, false
	}
	return nodes, true
}

// SetTree caches the published category branches.
func (rc *ResultCache) SetTree(ctx context.Context, nodes []tree.Node) {
	rc.set(ctx, treeKey, nodes)
}

// InvalidateAll removes every cached result by scanning for the prefix.
// Called after any category or item mutation.
func (rc *ResultCache) InvalidateAll(ctx context.Context) {
	rc.deleteMatching(ctx, keyPrefix+"*")
}

// InvalidateSearch removes cached search results only. Votes change the
// counters carried in search payloads but never the category tree.
func (rc *ResultCache) InvalidateSearch(ctx context.Context) {
	rc.deleteMatching(ctx, searchPrefix+"*")
}

func (rc *ResultCache) deleteMatching(ctx context.Context, pattern string) {
	if !rc.enabled() {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("result cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("result cache bulk delete error", "pattern", pattern, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("result cache cleared", "pattern", pattern, "deleted", deleted)
	}
}
