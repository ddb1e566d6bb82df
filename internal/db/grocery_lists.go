package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroceryListStore struct {
	pool *pgxpool.Pool
}

func NewGroceryListStore(pool *pgxpool.Pool) *GroceryListStore {
	return &GroceryListStore{pool: pool}
}

// Create persists the list and its items in one transaction and fills in the
// generated IDs and timestamps.
func (s *GroceryListStore) Create(ctx context.Context, list *GroceryList) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint

	list.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO grocery_lists (id, user_id, name, week_start_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		list.ID, list.UserID, list.Name, list.WeekStartDate,
	).Scan(&list.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert grocery list: %w", err)
	}

	for i := range list.Items {
		list.Items[i].ID = uuid.New()
		list.Items[i].GroceryListID = list.ID
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"grocery_list_items"},
		[]string{"id", "grocery_list_id", "name", "quantity", "unit", "category", "recipe_id"},
		pgx.CopyFromSlice(len(list.Items), func(i int) ([]any, error) {
			item := list.Items[i]
			return []any{item.ID, item.GroceryListID, item.Name, item.Quantity, item.Unit, item.Category, item.RecipeID}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert grocery list items: %w", err)
	}

	return tx.Commit(ctx)
}

// GetForUser loads a list with its items, scoped to the owning user.
func (s *GroceryListStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*GroceryList, error) {
	list := &GroceryList{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, week_start_date, created_at
		 FROM grocery_lists
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&list.ID, &list.UserID, &list.Name, &list.WeekStartDate, &list.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}

	items, err := s.loadItems(ctx, []uuid.UUID{list.ID})
	if err != nil {
		return nil, err
	}
	list.Items = items[list.ID]
	if list.Items == nil {
		list.Items = []GroceryListItem{}
	}
	return list, nil
}

// ListForUser returns the user's lists, newest first, items included.
func (s *GroceryListStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]GroceryList, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, week_start_date, created_at
		 FROM grocery_lists
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery lists: %w", err)
	}
	defer rows.Close()

	lists := []GroceryList{}
	listIDs := []uuid.UUID{}
	for rows.Next() {
		var list GroceryList
		if err := rows.Scan(&list.ID, &list.UserID, &list.Name, &list.WeekStartDate, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grocery list: %w", err)
		}
		list.Items = []GroceryListItem{}
		lists = append(lists, list)
		listIDs = append(listIDs, list.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grocery lists: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	items, err := s.loadItems(ctx, listIDs)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if listItems, ok := items[lists[i].ID]; ok {
			lists[i].Items = listItems
		}
	}
	return lists, nil
}

// Delete removes a user's list; items go with it via cascade.
func (s *GroceryListStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM grocery_lists WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GroceryListStore) loadItems(ctx context.Context, listIDs []uuid.UUID) (map[uuid.UUID][]GroceryListItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, grocery_list_id, name, quantity, unit, category, recipe_id
		 FROM grocery_list_items
		 WHERE grocery_list_id = ANY($1)
		 ORDER BY name`,
		listIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]GroceryListItem)
	for rows.Next() {
		var item GroceryListItem
		if err := rows.Scan(&item.ID, &item.GroceryListID, &item.Name, &item.Quantity, &item.Unit, &item.Category, &item.RecipeID); err != nil {
			return nil, fmt.Errorf("failed to scan grocery list item: %w", err)
		}
		items[item.GroceryListID] = append(items[item.GroceryListID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grocery list items: %w", err)
	}
	return items, nil
}
