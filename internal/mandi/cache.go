package mandi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jayant-source/farmconnect/internal/models"
)

// Cache holds recent price snapshots in Redis so repeated lookups within a
// poll interval don't hit the upstream API.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis and verifies the connection.
func NewCache(addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func snapshotKey(market, date string) string {
	if market == "" {
		market = "all"
	}
	if date == "" {
		date = "latest"
	}
	return fmt.Sprintf("mandi:%s:%s", strings.ToLower(market), date)
}

// Get returns a cached snapshot, or nil on miss.
func (c *Cache) Get(ctx context.Context, market, date string) ([]*models.MandiPrice, error) {
	raw, err := c.client.Get(ctx, snapshotKey(market, date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price cache: %w", err)
	}

	var prices []*models.MandiPrice
	if err := json.Unmarshal(raw, &prices); err != nil {
		return nil, fmt.Errorf("failed to decode cached prices: %w", err)
	}
	return prices, nil
}

// Set stores a snapshot with the configured TTL.
func (c *Cache) Set(ctx context.Context, market, date string, prices []*models.MandiPrice) error {
	raw, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("failed to encode prices for cache: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(market, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
