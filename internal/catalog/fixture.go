package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/time/rate"
)

//go:embed fixtures/catalog.yaml
var fixtureCatalog []byte

// FixtureProvider serves the embedded store catalog. It throttles lookups the
// same way a remote provider client would, so swapping in a live integration
// does not change caller behavior.
type FixtureProvider struct {
	stores          []Store
	storesByID      map[string]Store
	productsByStore map[string][]Product
	limiter         *rate.Limiter
}

func NewFixtureProvider(requestsPerSecond float64) (*FixtureProvider, error) {
	return newFixtureProvider(fixtureCatalog, requestsPerSecond)
}

func newFixtureProvider(content []byte, requestsPerSecond float64) (*FixtureProvider, error) {
	if requestsPerSecond <= 0 {
		return nil, fmt.Errorf("requests per second must be positive")
	}

	parsed, err := NewParser().Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := NewValidator().Validate(parsed); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	provider := &FixtureProvider{
		stores:          parsed.Stores,
		storesByID:      make(map[string]Store, len(parsed.Stores)),
		productsByStore: make(map[string][]Product),
		limiter:         rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)),
	}

	for _, store := range parsed.Stores {
		provider.storesByID[store.ID] = store
	}
	for _, product := range parsed.Products {
		provider.productsByStore[product.StoreID] = append(provider.productsByStore[product.StoreID], product)
	}

	return provider, nil
}

func (p *FixtureProvider) ListStores(ctx context.Context) ([]Store, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	stores := make([]Store, len(p.stores))
	copy(stores, p.stores)
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return stores, nil
}

func (p *FixtureProvider) GetStore(ctx context.Context, id string) (*Store, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	store, ok := p.storesByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, id)
	}
	return &store, nil
}

// SearchProducts matches query case-insensitively against product name, brand
// and category. An empty storeID searches every store. Unavailable products
// are included; callers decide whether stock matters for their use.
func (p *FixtureProvider) SearchProducts(ctx context.Context, query, storeID string, limit int) ([]Product, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, fmt.Errorf("search query is required")
	}

	var pools [][]Product
	if storeID != "" {
		// Unknown store means no data, not an error; the caller treats an
		// empty result as unavailability.
		pools = append(pools, p.productsByStore[storeID])
	} else {
		ids := make([]string, 0, len(p.productsByStore))
		for id := range p.productsByStore {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			pools = append(pools, p.productsByStore[id])
		}
	}

	var matches []Product
	for _, pool := range pools {
		for _, product := range pool {
			if !productMatches(product, needle) {
				continue
			}
			matches = append(matches, product)
			if limit > 0 && len(matches) >= limit {
				return matches, nil
			}
		}
	}

	return matches, nil
}

func productMatches(product Product, needle string) bool {
	return strings.Contains(strings.ToLower(product.Name), needle) ||
		strings.Contains(strings.ToLower(product.Brand), needle) ||
		strings.Contains(strings.ToLower(product.Category), needle)
}
