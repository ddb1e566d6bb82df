package models

import (
	"time"

	"github.com/google/uuid"
)

type GroceryList struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Name          string            `json:"name"`
	WeekStartDate *time.Time        `json:"week_start_date,omitempty"`
	Items         []GroceryListItem `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
}

// GroceryListItem is one consolidated entry on a grocery list. Items merge by
// lowercased name, so Unit reflects the first unit seen for that name.
type GroceryListItem struct {
	ID            uuid.UUID  `json:"id"`
	GroceryListID uuid.UUID  `json:"grocery_list_id"`
	Name          string     `json:"name"`
	Quantity      float64    `json:"quantity"`
	Unit          string     `json:"unit"`
	Category      string     `json:"category"`
	RecipeID      *uuid.UUID `json:"recipe_id,omitempty"`
}

// PriceComparison is a persisted quote for one (item, store) pair. Rows for an
// item are replaced wholesale on every comparison run.
type PriceComparison struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	StoreID    string    `json:"store_id"`
	StoreName  string    `json:"store_name"`
	PriceCents int       `json:"price_cents"`
	Available  bool      `json:"available"`
	CreatedAt  time.Time `json:"created_at"`
}
