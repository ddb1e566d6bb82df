package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mealcartapp/mealcart/internal/cache"
	"github.com/mealcartapp/mealcart/internal/catalog"
)

type fakeSearcher struct {
	mu       sync.Mutex
	products map[string][]catalog.Product
	err      error
	failures int
	calls    int
}

func (f *fakeSearcher) SearchProducts(_ context.Context, query, storeID string, _ int) ([]catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("provider blip")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.products[query+"|"+storeID], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestResolver(t *testing.T, searcher *fakeSearcher) *Resolver {
	t.Helper()

	memory, err := cache.NewMemoryProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolver, err := NewResolver(searcher, memory, 2*time.Hour, time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resolver
}

func TestResolverReturnsCheapestAvailableProduct(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{products: map[string][]catalog.Product{
		"Milk|store_001": {
			{ID: "p_2", Name: "Organic Whole Milk", PriceCents: 549, Available: true},
			{ID: "p_1", Name: "Whole Milk", PriceCents: 429, Available: true},
			{ID: "p_3", Name: "Skim Milk", PriceCents: 199, Available: false},
		},
	}}
	resolver := newTestResolver(t, searcher)

	cents, ok, err := resolver.Resolve(context.Background(), "Milk", "store_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a quote")
	}
	if cents != 429 {
		t.Fatalf("unexpected price: got=%d want=%d", cents, 429)
	}
}

func TestResolverCacheHitSkipsProvider(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{products: map[string][]catalog.Product{
		"Eggs|store_002": {{ID: "p_1", Name: "Large Eggs", PriceCents: 479, Available: true}},
	}}
	resolver := newTestResolver(t, searcher)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cents, ok, err := resolver.Resolve(ctx, "Eggs", "store_002")
		if err != nil || !ok || cents != 479 {
			t.Fatalf("resolve %d: got=(%d,%t,%v) want=(479,true,nil)", i, cents, ok, err)
		}
	}

	if got := searcher.callCount(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestResolverCachesUnavailability(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{products: map[string][]catalog.Product{}}
	resolver := newTestResolver(t, searcher)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cents, ok, err := resolver.Resolve(ctx, "Saffron", "store_001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || cents != 0 {
			t.Fatalf("expected unavailable, got=(%d,%t)", cents, ok)
		}
	}

	if got := searcher.callCount(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestResolverRetriesOnceThenRecovers(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		failures: 1,
		products: map[string][]catalog.Product{
			"Rice|store_003": {{ID: "p_1", Name: "Jasmine Rice", PriceCents: 599, Available: true}},
		},
	}
	resolver := newTestResolver(t, searcher)

	cents, ok, err := resolver.Resolve(context.Background(), "Rice", "store_003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || cents != 599 {
		t.Fatalf("expected recovered quote, got=(%d,%t)", cents, ok)
	}
	if got := searcher.callCount(); got != 2 {
		t.Fatalf("provider called %d times, want 2", got)
	}
}

func TestResolverPersistentFailureReadsAsUnavailable(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{err: errors.New("provider down")}
	resolver := newTestResolver(t, searcher)

	cents, ok, err := resolver.Resolve(context.Background(), "Milk", "store_001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || cents != 0 {
		t.Fatalf("expected unavailable, got=(%d,%t)", cents, ok)
	}
}

func TestResolverPropagatesCallerCancellation(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{err: errors.New("provider down")}
	resolver := newTestResolver(t, searcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := resolver.Resolve(ctx, "Milk", "store_001"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
