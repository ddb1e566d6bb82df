package cache

// Package cache provides short-lived caching for resolved price quotes.

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider defines the interface for caching string values with a TTL.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// PriceQuoteKey builds the cache key for one (item, store) price lookup.
// Item names are case-insensitive for caching purposes.
func PriceQuoteKey(itemName, storeID string) string {
	return fmt.Sprintf("price:%s:%s", strings.ToLower(strings.TrimSpace(itemName)), storeID)
}
