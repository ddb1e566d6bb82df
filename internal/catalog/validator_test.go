package catalog

import (
	"strings"
	"testing"
)

func validCatalog() *Catalog {
	return &Catalog{
		Stores: []Store{
			{ID: "store_001", Name: "Corner Grocer", DeliveryFeeCents: 399, MinOrderCents: 2500, Rating: 4.5},
		},
		Products: []Product{
			{ID: "p_001", Name: "Whole Milk", PriceCents: 429, StoreID: "store_001", Available: true},
		},
	}
}

func TestValidatorAcceptsValidCatalog(t *testing.T) {
	t.Parallel()

	if err := NewValidator().Validate(validCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatorRejectsBadCatalogs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Catalog)
		wantErr string
	}{
		{
			name:    "no stores",
			mutate:  func(c *Catalog) { c.Stores = nil },
			wantErr: "at least one store",
		},
		{
			name:    "duplicate store id",
			mutate:  func(c *Catalog) { c.Stores = append(c.Stores, c.Stores[0]) },
			wantErr: "duplicate store id",
		},
		{
			name:    "negative delivery fee",
			mutate:  func(c *Catalog) { c.Stores[0].DeliveryFeeCents = -1 },
			wantErr: "delivery fee",
		},
		{
			name:    "rating out of range",
			mutate:  func(c *Catalog) { c.Stores[0].Rating = 5.5 },
			wantErr: "rating",
		},
		{
			name:    "duplicate product id",
			mutate:  func(c *Catalog) { c.Products = append(c.Products, c.Products[0]) },
			wantErr: "duplicate product id",
		},
		{
			name:    "product with unknown store",
			mutate:  func(c *Catalog) { c.Products[0].StoreID = "store_999" },
			wantErr: "unknown store",
		},
		{
			name:    "free product",
			mutate:  func(c *Catalog) { c.Products[0].PriceCents = 0 },
			wantErr: "price must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := validCatalog()
			tt.mutate(catalog)

			err := NewValidator().Validate(catalog)
			if err == nil {
				t.Fatalf("expected error containing %q, got none", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("unexpected error: got=%q want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
