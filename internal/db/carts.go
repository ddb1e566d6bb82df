package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartStore struct {
	pool *pgxpool.Pool
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

func (s *CartStore) Create(ctx context.Context, cart *ShoppingCart) error {
	cart.ID = uuid.New()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO shopping_carts (id, user_id, grocery_list_id, provider, store_id, deep_link, estimated_total_cents, delivery_fee_cents)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		cart.ID, cart.UserID, cart.GroceryListID, cart.Provider, cart.StoreID,
		cart.DeepLink, cart.EstimatedTotalCents, cart.DeliveryFeeCents,
	).Scan(&cart.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert shopping cart: %w", err)
	}
	return nil
}
