package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"cardstatx/internal/services"

	"github.com/redis/go-redis/v9"
)

// reconnectInterval is how often an unavailable Redis is re-probed.
const reconnectInterval = 10 * time.Second

// AveragesCache is a read-through Redis cache for computed price
// averages. Redis being down is never fatal: lookups simply miss and
// callers fall through to the aggregator.
type AveragesCache struct {
	client    *redis.Client
	ttl       time.Duration
	mu        sync.RWMutex
	available bool
}

// New connects to Redis and starts a background availability monitor.
// An empty addr disables caching entirely (returns nil).
func New(addr, password string, ttl time.Duration) *AveragesCache {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	c := &AveragesCache{client: client, ttl: ttl}

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[cache] redis unavailable at %s: %v", addr, err)
	} else {
		c.available = true
	}
	log.Printf("[cache] redis cache initialized (available: %v)", c.available)

	go c.monitor()
	return c
}

func (c *AveragesCache) monitor() {
	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()

	for range ticker.C {
		err := c.client.Ping(context.Background()).Err()

		c.mu.Lock()
		was := c.available
		c.available = err == nil
		now := c.available
		c.mu.Unlock()

		if was != now {
			log.Printf("[cache] redis availability changed: %v", now)
		}
	}
}

func (c *AveragesCache) isAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// Get returns the cached averages for a card, or false on miss (which
// includes Redis being unavailable).
func (c *AveragesCache) Get(ctx context.Context, cardID string) (*services.Averages, bool) {
	if c == nil || !c.isAvailable() {
		return nil, false
	}

	data, err := c.client.Get(ctx, key(cardID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get failed for %s: %v", cardID, err)
		}
		return nil, false
	}

	var averages services.Averages
	if err := json.Unmarshal(data, &averages); err != nil {
		log.Printf("[cache] corrupt entry for %s: %v", cardID, err)
		return nil, false
	}
	return &averages, true
}

// Set stores the averages for a card with the configured TTL.
func (c *AveragesCache) Set(ctx context.Context, cardID string, averages *services.Averages) {
	if c == nil || !c.isAvailable() {
		return
	}

	data, err := json.Marshal(averages)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(cardID), data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set failed for %s: %v", cardID, err)
	}
}

func key(cardID string) string {
	return "cardstatx:averages:" + cardID
}
