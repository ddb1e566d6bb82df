package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/models"
)

// splitSavingsThresholdCents gates the multi-store recommendation: the split
// breakdown is attached only when it beats the best single store by more than
// this amount.
const splitSavingsThresholdCents = 500

const defaultCompareWorkers = 8

type PriceResolver interface {
	Resolve(ctx context.Context, itemName, storeID string) (int, bool, error)
}

type StoreGetter interface {
	GetStore(ctx context.Context, id string) (*catalog.Store, error)
}

type StoreComparison struct {
	StoreID      string `json:"store_id"`
	StoreName    string `json:"store_name"`
	PriceCents   int    `json:"price_cents"`
	Available    bool   `json:"available"`
	SavingsCents int    `json:"savings_cents"`
}

type ItemComparison struct {
	ItemID      uuid.UUID         `json:"item_id"`
	ItemName    string            `json:"item_name"`
	Comparisons []StoreComparison `json:"comparisons"`
}

type StoreTotal struct {
	StoreID    string `json:"store_id"`
	StoreName  string `json:"store_name"`
	TotalCents int    `json:"total_cents"`
	ItemCount  int    `json:"item_count"`
}

type SplitItem struct {
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	PriceCents int       `json:"price_cents"`
}

type StoreSplit struct {
	StoreID       string      `json:"store_id"`
	StoreName     string      `json:"store_name"`
	Items         []SplitItem `json:"items"`
	SubtotalCents int         `json:"subtotal_cents"`
}

// Recommendation carries the engine's verdict. SingleStore == nil means no
// candidate store had price data at all. MultiStore is only populated when the
// split clears the savings threshold; PotentialSavingsCents is always set so
// callers can render "not worth splitting".
type Recommendation struct {
	SingleStore           *StoreTotal  `json:"single_store,omitempty"`
	MultiStore            []StoreSplit `json:"multi_store,omitempty"`
	PotentialSavingsCents int          `json:"potential_savings_cents"`
}

type Result struct {
	Items          []ItemComparison `json:"price_comparisons"`
	Recommendation Recommendation   `json:"recommendations"`
}

// Engine fans the (item × store) cross-product out to the resolver, builds the
// per-item comparison table, and derives single-store and split
// recommendations.
type Engine struct {
	resolver PriceResolver
	stores   StoreGetter
	workers  int

	// splitDeliveryFees folds delivery fees into the split economics. Off by
	// default: the split compares shelf subtotals only, which can understate
	// the true multi-store cost. Known simplification, kept behind this flag.
	splitDeliveryFees bool
}

func NewEngine(resolver PriceResolver, stores StoreGetter, workers int, splitDeliveryFees bool) (*Engine, error) {
	if resolver == nil {
		return nil, fmt.Errorf("price resolver is required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store getter is required")
	}
	if workers <= 0 {
		workers = defaultCompareWorkers
	}

	return &Engine{
		resolver:          resolver,
		stores:            stores,
		workers:           workers,
		splitDeliveryFees: splitDeliveryFees,
	}, nil
}

type quoteCell struct {
	priceCents int
	available  bool
}

func (e *Engine) Compare(ctx context.Context, items []models.GroceryListItem, storeIDs []string) (*Result, error) {
	if len(storeIDs) == 0 {
		return nil, fmt.Errorf("at least one store is required")
	}

	storeNames := make([]string, len(storeIDs))
	deliveryFees := make([]int, len(storeIDs))
	for i, storeID := range storeIDs {
		store, err := e.stores.GetStore(ctx, storeID)
		if errors.Is(err, catalog.ErrStoreNotFound) {
			// An unknown store still gets comparison rows; every pair reads
			// as unavailable.
			storeNames[i] = storeID
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load store %s: %w", storeID, err)
		}
		storeNames[i] = store.Name
		deliveryFees[i] = store.DeliveryFeeCents
	}

	quotes := make([][]quoteCell, len(items))
	for i := range quotes {
		quotes[i] = make([]quoteCell, len(storeIDs))
	}

	// Each goroutine writes a distinct cell, so the matrix needs no lock and
	// completion order is irrelevant.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)
	for i := range items {
		for j := range storeIDs {
			group.Go(func() error {
				cents, ok, err := e.resolver.Resolve(groupCtx, items[i].Name, storeIDs[j])
				if err != nil {
					return err
				}
				quotes[i][j] = quoteCell{priceCents: cents, available: ok}
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("price comparison aborted: %w", err)
	}

	result := &Result{Items: make([]ItemComparison, 0, len(items))}
	for i, item := range items {
		result.Items = append(result.Items, buildItemComparison(item, storeIDs, storeNames, quotes[i]))
	}
	result.Recommendation = e.recommend(items, storeIDs, storeNames, deliveryFees, quotes)

	return result, nil
}

// buildItemComparison computes per-store savings as distance from the worst
// observed price: the most expensive store shows 0, cheaper stores show how
// far below the ceiling they sit.
func buildItemComparison(item models.GroceryListItem, storeIDs, storeNames []string, row []quoteCell) ItemComparison {
	maxPrice := 0
	for _, cell := range row {
		if cell.available && cell.priceCents > maxPrice {
			maxPrice = cell.priceCents
		}
	}

	comparison := ItemComparison{
		ItemID:      item.ID,
		ItemName:    item.Name,
		Comparisons: make([]StoreComparison, 0, len(storeIDs)),
	}
	for j, cell := range row {
		entry := StoreComparison{
			StoreID:   storeIDs[j],
			StoreName: storeNames[j],
			Available: cell.available,
		}
		if cell.available {
			entry.PriceCents = cell.priceCents
			entry.SavingsCents = maxPrice - cell.priceCents
		}
		comparison.Comparisons = append(comparison.Comparisons, entry)
	}
	return comparison
}

func (e *Engine) recommend(items []models.GroceryListItem, storeIDs, storeNames []string, deliveryFees []int, quotes [][]quoteCell) Recommendation {
	single := bestSingleStore(storeIDs, storeNames, quotes)
	if single == nil {
		return Recommendation{}
	}

	splits, splitTotal := bestSplit(items, storeIDs, storeNames, quotes)

	singleCost := single.TotalCents
	splitCost := splitTotal
	if e.splitDeliveryFees {
		singleCost += deliveryFeeFor(single.StoreID, storeIDs, deliveryFees)
		for _, split := range splits {
			splitCost += deliveryFeeFor(split.StoreID, storeIDs, deliveryFees)
		}
	}

	savings := singleCost - splitCost
	if savings < 0 {
		savings = 0
	}

	recommendation := Recommendation{
		SingleStore:           single,
		PotentialSavingsCents: savings,
	}
	if savings > splitSavingsThresholdCents {
		recommendation.MultiStore = splits
	}
	return recommendation
}

// bestSingleStore ranks stores by the sum of prices over items they stock.
// Stores covering zero items are skipped outright rather than winning with a
// zero total. Ties go to the lowest total, then the smallest store ID, so the
// outcome is stable regardless of input order.
func bestSingleStore(storeIDs, storeNames []string, quotes [][]quoteCell) *StoreTotal {
	var best *StoreTotal
	for j, storeID := range storeIDs {
		total := 0
		count := 0
		for i := range quotes {
			if quotes[i][j].available {
				total += quotes[i][j].priceCents
				count++
			}
		}
		if count == 0 {
			continue
		}
		candidate := &StoreTotal{StoreID: storeID, StoreName: storeNames[j], TotalCents: total, ItemCount: count}
		if best == nil || candidate.TotalCents < best.TotalCents ||
			(candidate.TotalCents == best.TotalCents && candidate.StoreID < best.StoreID) {
			best = candidate
		}
	}
	return best
}

// bestSplit assigns each item to its cheapest store (ties to the smallest
// store ID). A store appears in the result only if it won at least one item;
// the result is sorted by store ID.
func bestSplit(items []models.GroceryListItem, storeIDs, storeNames []string, quotes [][]quoteCell) ([]StoreSplit, int) {
	splitsByStore := make(map[string]*StoreSplit)
	total := 0

	for i, item := range items {
		winner := -1
		for j := range storeIDs {
			if !quotes[i][j].available {
				continue
			}
			if winner == -1 || quotes[i][j].priceCents < quotes[i][winner].priceCents ||
				(quotes[i][j].priceCents == quotes[i][winner].priceCents && storeIDs[j] < storeIDs[winner]) {
				winner = j
			}
		}
		if winner == -1 {
			continue
		}

		split, ok := splitsByStore[storeIDs[winner]]
		if !ok {
			split = &StoreSplit{StoreID: storeIDs[winner], StoreName: storeNames[winner]}
			splitsByStore[storeIDs[winner]] = split
		}
		price := quotes[i][winner].priceCents
		split.Items = append(split.Items, SplitItem{ItemID: item.ID, ItemName: item.Name, PriceCents: price})
		split.SubtotalCents += price
		total += price
	}

	splits := make([]StoreSplit, 0, len(splitsByStore))
	for _, split := range splitsByStore {
		splits = append(splits, *split)
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].StoreID < splits[j].StoreID })
	return splits, total
}

func deliveryFeeFor(storeID string, storeIDs []string, deliveryFees []int) int {
	for j, id := range storeIDs {
		if id == storeID {
			return deliveryFees[j]
		}
	}
	return 0
}
