package catalog

// Package catalog provides catalog validation.

import (
	"fmt"
	"strings"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(catalog *Catalog) error {
	if len(catalog.Stores) == 0 {
		return fmt.Errorf("at least one store is required")
	}

	storeIDs := make(map[string]bool)
	for i, store := range catalog.Stores {
		if err := v.validateStore(&store); err != nil {
			return fmt.Errorf("store %d validation failed: %w", i, err)
		}

		if storeIDs[store.ID] {
			return fmt.Errorf("duplicate store id: %s", store.ID)
		}
		storeIDs[store.ID] = true
	}

	productIDs := make(map[string]bool)
	for i, product := range catalog.Products {
		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		if productIDs[product.ID] {
			return fmt.Errorf("duplicate product id: %s", product.ID)
		}
		productIDs[product.ID] = true

		if !storeIDs[product.StoreID] {
			return fmt.Errorf("product %s references unknown store: %s", product.ID, product.StoreID)
		}
	}

	return nil
}

func (v *Validator) validateStore(store *Store) error {
	if strings.TrimSpace(store.ID) == "" {
		return fmt.Errorf("store id is required")
	}

	if strings.TrimSpace(store.Name) == "" {
		return fmt.Errorf("store name is required")
	}

	if store.DeliveryFeeCents < 0 {
		return fmt.Errorf("delivery fee must be zero or positive")
	}

	if store.MinOrderCents < 0 {
		return fmt.Errorf("minimum order must be zero or positive")
	}

	if store.Rating < 0 || store.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}

	return nil
}

func (v *Validator) validateProduct(product *Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return fmt.Errorf("product id is required")
	}

	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if product.PriceCents <= 0 {
		return fmt.Errorf("product price must be positive")
	}

	if strings.TrimSpace(product.StoreID) == "" {
		return fmt.Errorf("product store id is required")
	}

	return nil
}
