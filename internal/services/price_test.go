package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/pricing"
)

type fakeEngine struct {
	result   *pricing.Result
	err      error
	gotItems []models.GroceryListItem
}

func (f *fakeEngine) Compare(_ context.Context, items []models.GroceryListItem, _ []string) (*pricing.Result, error) {
	f.gotItems = items
	return f.result, f.err
}

type fakeComparisonStore struct {
	itemIDs []uuid.UUID
	rows    []models.PriceComparison
	err     error
}

func (f *fakeComparisonStore) ReplaceForItems(_ context.Context, itemIDs []uuid.UUID, rows []models.PriceComparison) error {
	f.itemIDs = itemIDs
	f.rows = rows
	return f.err
}

func (f *fakeComparisonStore) ListForItems(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]models.PriceComparison, error) {
	if f.err != nil {
		return nil, f.err
	}
	grouped := make(map[uuid.UUID][]models.PriceComparison)
	for _, row := range f.rows {
		grouped[row.ItemID] = append(grouped[row.ItemID], row)
	}
	return grouped, nil
}

func priceFixture() (uuid.UUID, uuid.UUID, *fakeListStore, *pricing.Result) {
	userID := uuid.New()
	listID := uuid.New()
	itemID := uuid.New()

	lists := &fakeListStore{lists: map[uuid.UUID]*models.GroceryList{
		listID: {
			ID:     listID,
			UserID: userID,
			Items:  []models.GroceryListItem{{ID: itemID, Name: "Milk", Quantity: 1}},
		},
	}}

	result := &pricing.Result{
		Items: []pricing.ItemComparison{{
			ItemID:   itemID,
			ItemName: "Milk",
			Comparisons: []pricing.StoreComparison{
				{StoreID: "store_a", StoreName: "Alpha", PriceCents: 400, Available: true, SavingsCents: 100},
				{StoreID: "store_b", StoreName: "Beta", Available: false},
			},
		}},
		Recommendation: pricing.Recommendation{
			SingleStore:           &pricing.StoreTotal{StoreID: "store_a", StoreName: "Alpha", TotalCents: 400, ItemCount: 1},
			PotentialSavingsCents: 0,
		},
	}
	return userID, listID, lists, result
}

func TestCompareForListPersistsFreshRows(t *testing.T) {
	t.Parallel()

	userID, listID, lists, result := priceFixture()
	engine := &fakeEngine{result: result}
	comparisons := &fakeComparisonStore{}
	service := NewPriceService(lists, engine, comparisons, nil)

	got, err := service.CompareForList(context.Background(), userID, listID, []string{"store_a", "store_b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != result {
		t.Fatalf("engine result should be returned as-is")
	}

	if len(comparisons.itemIDs) != 1 {
		t.Fatalf("expected one item replaced, got %v", comparisons.itemIDs)
	}
	if len(comparisons.rows) != 2 {
		t.Fatalf("expected a row per (item, store) pair, got %d", len(comparisons.rows))
	}
	if comparisons.rows[1].Available {
		t.Fatalf("unavailable pairs must be persisted too: %+v", comparisons.rows[1])
	}
	if len(engine.gotItems) != 1 || engine.gotItems[0].Name != "Milk" {
		t.Fatalf("engine fed wrong items: %+v", engine.gotItems)
	}
}

func TestCompareForListValidation(t *testing.T) {
	t.Parallel()

	userID, listID, lists, result := priceFixture()
	service := NewPriceService(lists, &fakeEngine{result: result}, &fakeComparisonStore{}, nil)

	if _, err := service.CompareForList(context.Background(), userID, listID, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty store set should be a validation error, got %v", err)
	}

	if _, err := service.CompareForList(context.Background(), uuid.New(), listID, []string{"store_a"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign list should be not-found, got %v", err)
	}
}

func TestCompareForListEmptyListRejected(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	listID := uuid.New()
	lists := &fakeListStore{lists: map[uuid.UUID]*models.GroceryList{
		listID: {ID: listID, UserID: userID, Items: []models.GroceryListItem{}},
	}}
	service := NewPriceService(lists, &fakeEngine{}, &fakeComparisonStore{}, nil)

	if _, err := service.CompareForList(context.Background(), userID, listID, []string{"store_a"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty list should be a validation error, got %v", err)
	}
}

func TestStoredForListReturnsLastRun(t *testing.T) {
	t.Parallel()

	userID, listID, lists, result := priceFixture()
	engine := &fakeEngine{result: result}
	comparisons := &fakeComparisonStore{}
	service := NewPriceService(lists, engine, comparisons, nil)

	if _, err := service.CompareForList(context.Background(), userID, listID, []string{"store_a", "store_b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := service.StoredForList(context.Background(), userID, listID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	itemID := result.Items[0].ItemID
	if len(stored[itemID]) != 2 {
		t.Fatalf("expected both quotes for the item, got %+v", stored)
	}

	if _, err := service.StoredForList(context.Background(), uuid.New(), listID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign list should be not-found, got %v", err)
	}
}

func TestCompareForListEngineFailureIsInternal(t *testing.T) {
	t.Parallel()

	userID, listID, lists, _ := priceFixture()
	service := NewPriceService(lists, &fakeEngine{err: errors.New("boom")}, &fakeComparisonStore{}, nil)

	_, err := service.CompareForList(context.Background(), userID, listID, []string{"store_a"})
	if err == nil || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		t.Fatalf("engine failure should surface as internal error, got %v", err)
	}
}
