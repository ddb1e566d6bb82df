package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ComparisonStore struct {
	pool *pgxpool.Pool
}

func NewComparisonStore(pool *pgxpool.Pool) *ComparisonStore {
	return &ComparisonStore{pool: pool}
}

// ReplaceForItems swaps out every stored quote for the given items in one
// transaction: old rows deleted, fresh rows bulk-inserted. A comparison run
// that dies mid-way is repaired by simply rerunning it.
func (s *ComparisonStore) ReplaceForItems(ctx context.Context, itemIDs []uuid.UUID, comparisons []PriceComparison) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint

	if _, err := tx.Exec(ctx,
		`DELETE FROM price_comparisons WHERE item_id = ANY($1)`,
		itemIDs,
	); err != nil {
		return fmt.Errorf("failed to delete stale comparisons: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"price_comparisons"},
		[]string{"id", "item_id", "store_id", "store_name", "price_cents", "available"},
		pgx.CopyFromSlice(len(comparisons), func(i int) ([]any, error) {
			row := comparisons[i]
			id := row.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			return []any{id, row.ItemID, row.StoreID, row.StoreName, row.PriceCents, row.Available}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert comparisons: %w", err)
	}

	return tx.Commit(ctx)
}

// ListForItems returns stored quotes for the given items, grouped by item.
func (s *ComparisonStore) ListForItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]PriceComparison, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, item_id, store_id, store_name, price_cents, available, created_at
		 FROM price_comparisons
		 WHERE item_id = ANY($1)
		 ORDER BY store_id`,
		itemIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load comparisons: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]PriceComparison)
	for rows.Next() {
		var row PriceComparison
		if err := rows.Scan(&row.ID, &row.ItemID, &row.StoreID, &row.StoreName, &row.PriceCents, &row.Available, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		result[row.ItemID] = append(result[row.ItemID], row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comparisons: %w", err)
	}
	return result, nil
}
