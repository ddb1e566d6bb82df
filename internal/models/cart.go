package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingCart records a generated checkout link for a grocery list at a store.
type ShoppingCart struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	GroceryListID       uuid.UUID `json:"grocery_list_id"`
	Provider            string    `json:"provider"`
	StoreID             string    `json:"store_id"`
	DeepLink            string    `json:"deep_link"`
	EstimatedTotalCents int       `json:"estimated_total_cents"`
	DeliveryFeeCents    int       `json:"delivery_fee_cents"`
	CreatedAt           time.Time `json:"created_at"`
}
