package catalog

import (
	"context"
	"errors"
	"testing"
)

func newTestProvider(t *testing.T) *FixtureProvider {
	t.Helper()

	provider, err := NewFixtureProvider(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return provider
}

func TestFixtureProviderListStores(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)

	stores, err := provider.ListStores(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stores) != 5 {
		t.Fatalf("unexpected store count: got=%d want=%d", len(stores), 5)
	}

	for i := 1; i < len(stores); i++ {
		if stores[i-1].ID >= stores[i].ID {
			t.Fatalf("stores not sorted by id: %q before %q", stores[i-1].ID, stores[i].ID)
		}
	}
}

func TestFixtureProviderGetStore(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	ctx := context.Background()

	store, err := provider.GetStore(ctx, "store_005")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Name != "Market Basket" {
		t.Fatalf("unexpected store name: got=%q want=%q", store.Name, "Market Basket")
	}

	if _, err := provider.GetStore(ctx, "store_999"); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestFixtureProviderSearchProducts(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		storeID   string
		limit     int
		wantCount int
		wantErr   bool
	}{
		{name: "milk across all stores", query: "milk", wantCount: 5},
		{name: "scoped to one store", query: "milk", storeID: "store_004", wantCount: 1},
		{name: "case insensitive", query: "JASMINE RICE", wantCount: 5},
		{name: "matches brand", query: "kerrygold", wantCount: 1},
		{name: "limit caps results", query: "milk", limit: 2, wantCount: 2},
		{name: "no matches", query: "caviar", wantCount: 0},
		{name: "empty query rejected", query: "   ", wantErr: true},
		{name: "unknown store yields no rows", query: "milk", storeID: "store_999", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			products, err := provider.SearchProducts(ctx, tt.query, tt.storeID, tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(products) != tt.wantCount {
				t.Fatalf("unexpected match count: got=%d want=%d", len(products), tt.wantCount)
			}
			if tt.storeID != "" {
				for _, product := range products {
					if product.StoreID != tt.storeID {
						t.Fatalf("product %s from wrong store: got=%q want=%q", product.ID, product.StoreID, tt.storeID)
					}
				}
			}
		})
	}
}

func TestFixtureProviderSearchHonorsContext(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.SearchProducts(ctx, "milk", "", 0); err == nil {
		t.Fatalf("expected error from canceled context")
	}
}
