package catalog

// Package catalog supplies the candidate stores and per-store product search
// used by pricing and cart generation.

import (
	"context"
	"errors"
)

var ErrStoreNotFound = errors.New("store not found")

type Store struct {
	ID                string  `yaml:"id" json:"id"`
	Name              string  `yaml:"name" json:"name"`
	Location          string  `yaml:"location" json:"location"`
	Address           string  `yaml:"address" json:"address"`
	DeliveryFeeCents  int     `yaml:"delivery_fee_cents" json:"delivery_fee_cents"`
	MinOrderCents     int     `yaml:"min_order_cents" json:"min_order_cents"`
	EstimatedDelivery string  `yaml:"estimated_delivery" json:"estimated_delivery"`
	Rating            float64 `yaml:"rating" json:"rating"`
}

type Product struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Brand      string `yaml:"brand" json:"brand"`
	PriceCents int    `yaml:"price_cents" json:"price_cents"`
	Unit       string `yaml:"unit" json:"unit"`
	Size       string `yaml:"size" json:"size"`
	Available  bool   `yaml:"available" json:"available"`
	StoreID    string `yaml:"store_id" json:"store_id"`
	Category   string `yaml:"category" json:"category"`
}

// Provider is the store/price data source. Implementations are pluggable; the
// shipped one serves an embedded fixture catalog.
type Provider interface {
	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, id string) (*Store, error)
	SearchProducts(ctx context.Context, query, storeID string, limit int) ([]Product, error)
}
