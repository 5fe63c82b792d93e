package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/stock-indicator-system/internal/models"
)

const hotStocksKeyPrefix = "hot-stocks:"

// Cache is a read-through Redis cache for screener results. Every failure
// degrades to a miss so the caller falls back to the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Cache connected to the given Redis instance
func New(addr, password string, db int, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// GetHotStocks returns the cached screener result for a date, if present
func (c *Cache) GetHotStocks(ctx context.Context, date time.Time) ([]*models.HotStock, bool) {
	data, err := c.client.Get(ctx, hotStocksKey(date)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache read failed: %v", err)
		return nil, false
	}

	var hot []*models.HotStock
	if err := json.Unmarshal(data, &hot); err != nil {
		log.Printf("cache entry corrupt, ignoring: %v", err)
		return nil, false
	}
	return hot, true
}

// SetHotStocks stores the screener result for a date with the configured TTL
func (c *Cache) SetHotStocks(ctx context.Context, date time.Time, hot []*models.HotStock) {
	data, err := json.Marshal(hot)
	if err != nil {
		log.Printf("cache marshal failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, hotStocksKey(date), data, c.ttl).Err(); err != nil {
		log.Printf("cache write failed: %v", err)
	}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func hotStocksKey(date time.Time) string {
	return hotStocksKeyPrefix + date.Format("2006-01-02")
}
