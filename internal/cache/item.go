package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stashkeep/stashkeep/internal/model"
)

const (
	itemsKeyPrefix = "items:"

	// DefaultItemsTTL bounds how stale a cached item list can get.
	DefaultItemsTTL = 5 * time.Minute
)

// ErrCacheMiss indicates no cached value exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// itemsKey builds the cache key for an owner's item list.
func itemsKey(ownerID string) string {
	return itemsKeyPrefix + ownerID
}

// GetItems retrieves an owner's cached item list.
// Returns ErrCacheMiss if not cached.
func (c *Cache) GetItems(ctx context.Context, ownerID string) ([]*model.Item, error) {
	data, err := c.client.Get(ctx, itemsKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []*model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		// Unreadable entry: drop it and fall back to the store.
		c.client.Del(ctx, itemsKey(ownerID))
		return nil, ErrCacheMiss
	}

	return items, nil
}

// SetItems caches an owner's item list with the default TTL.
func (c *Cache) SetItems(ctx context.Context, ownerID string, items []*model.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	if err := c.client.SetEx(ctx, itemsKey(ownerID), data, DefaultItemsTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache items: %w", err)
	}

	return nil
}

// InvalidateItems drops an owner's cached item list.
// Called after every item mutation so reads never serve another tenant's
// view or a stale one past a write.
func (c *Cache) InvalidateItems(ctx context.Context, ownerID string) error {
	if err := c.client.Del(ctx, itemsKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate items: %w", err)
	}
	return nil
}
