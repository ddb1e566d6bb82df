package pricing

// Package pricing resolves per-store item prices and computes cross-store
// comparisons and store-allocation recommendations.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mealcartapp/mealcart/internal/cache"
	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/logging"
)

// unavailableMarker is cached when a lookup succeeded but the store carries no
// available product for the item, so repeat misses stay cheap too.
const unavailableMarker = "unavailable"

const retryBackoff = 150 * time.Millisecond

type ProductSearcher interface {
	SearchProducts(ctx context.Context, query, storeID string, limit int) ([]catalog.Product, error)
}

// Resolver answers "what does this item cost at this store" with a cache-aside
// layer in front of the catalog provider. Quotes are valid for the configured
// TTL; concurrent writers race benignly (last write wins).
type Resolver struct {
	searcher ProductSearcher
	cache    cache.Provider
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewResolver(searcher ProductSearcher, cacheProvider cache.Provider, ttl, timeout time.Duration, logger *slog.Logger) (*Resolver, error) {
	if searcher == nil {
		return nil, fmt.Errorf("product searcher is required")
	}
	if cacheProvider == nil {
		return nil, fmt.Errorf("cache provider is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("provider timeout must be positive")
	}

	return &Resolver{
		searcher: searcher,
		cache:    cacheProvider,
		ttl:      ttl,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Resolve returns the item's price in cents at the given store. ok=false means
// no available product there; it is distinct from a zero price and never an error.
// The returned error is reserved for caller cancellation; provider failures
// degrade to unavailable after one retry.
func (r *Resolver) Resolve(ctx context.Context, itemName, storeID string) (int, bool, error) {
	key := cache.PriceQuoteKey(itemName, storeID)

	if cached, err := r.cache.Get(ctx, key); err == nil {
		if cached == unavailableMarker {
			return 0, false, nil
		}
		if cents, parseErr := strconv.Atoi(cached); parseErr == nil {
			return cents, true, nil
		}
		// A corrupt entry falls through to a fresh lookup.
	} else if !errors.Is(err, cache.ErrNotFound) {
		logging.FromContext(ctx, r.logger).WarnContext(ctx, "price cache read failed",
			slog.String("key", key), slog.Any("error", err))
	}

	products, err := r.search(ctx, itemName, storeID)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		logging.FromContext(ctx, r.logger).WarnContext(ctx, "price lookup failed, treating as unavailable",
			slog.String("item", itemName), slog.String("store_id", storeID), slog.Any("error", err))
		return 0, false, nil
	}

	cents, ok := bestQuote(products)

	value := unavailableMarker
	if ok {
		value = strconv.Itoa(cents)
	}
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		logging.FromContext(ctx, r.logger).WarnContext(ctx, "price cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}

	return cents, ok, nil
}

func (r *Resolver) search(ctx context.Context, itemName, storeID string) ([]catalog.Product, error) {
	products, err := r.searchOnce(ctx, itemName, storeID)
	if err == nil || ctx.Err() != nil {
		return products, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryBackoff):
	}

	return r.searchOnce(ctx, itemName, storeID)
}

func (r *Resolver) searchOnce(ctx context.Context, itemName, storeID string) ([]catalog.Product, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.searcher.SearchProducts(lookupCtx, itemName, storeID, 0)
}

// bestQuote picks the cheapest available product, ties broken by product ID so
// repeated runs quote consistently.
func bestQuote(products []catalog.Product) (int, bool) {
	best := -1
	bestID := ""
	for _, product := range products {
		if !product.Available {
			continue
		}
		if best == -1 || product.PriceCents < best || (product.PriceCents == best && product.ID < bestID) {
			best = product.PriceCents
			bestID = product.ID
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
