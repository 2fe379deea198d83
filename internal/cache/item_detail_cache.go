package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shareloop/service-sharing/internal/application"
)

// ItemDetailCache stores assembled item detail views in Redis. The detail
// embeds the time-derived last/next projection, so entries carry a short TTL
// and are invalidated whenever a booking or comment for the item changes.
type ItemDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewItemDetailCache creates a cache over the given Redis client.
func NewItemDetailCache(client *redis.Client, ttl time.Duration) *ItemDetailCache {
	return &ItemDetailCache{client: client, ttl: ttl}
}

func detailKey(itemID uuid.UUID, ownerView bool) string {
	if ownerView {
		return "item-detail:" + itemID.String() + ":owner"
	}
	return "item-detail:" + itemID.String() + ":guest"
}

// Get returns the cached detail view, or (nil, nil) on a miss.
func (c *ItemDetailCache) Get(ctx context.Context, itemID uuid.UUID, ownerView bool) (*application.ItemDetailView, error) {
	raw, err := c.client.Get(ctx, detailKey(itemID, ownerView)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read item detail cache: %w", err)
	}

	var detail application.ItemDetailView
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode cached item detail: %w", err)
	}
	return &detail, nil
}

// Set stores the detail view under the cache TTL.
func (c *ItemDetailCache) Set(ctx context.Context, itemID uuid.UUID, ownerView bool, detail *application.ItemDetailView) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode item detail: %w", err)
	}
	if err := c.client.Set(ctx, detailKey(itemID, ownerView), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write item detail cache: %w", err)
	}
	return nil
}

// Invalidate drops both the owner and guest variants for the item.
func (c *ItemDetailCache) Invalidate(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Del(ctx, detailKey(itemID, true), detailKey(itemID, false)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate item detail cache: %w", err)
	}
	return nil
}
