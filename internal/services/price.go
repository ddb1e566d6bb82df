package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/db"
	"github.com/mealcartapp/mealcart/internal/logging"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/observability"
	"github.com/mealcartapp/mealcart/internal/pricing"
)

type comparisonEngine interface {
	Compare(ctx context.Context, items []models.GroceryListItem, storeIDs []string) (*pricing.Result, error)
}

type comparisonStore interface {
	ReplaceForItems(ctx context.Context, itemIDs []uuid.UUID, comparisons []models.PriceComparison) error
	ListForItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]models.PriceComparison, error)
}

type listGetter interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.GroceryList, error)
}

type PriceService struct {
	lists       listGetter
	engine      comparisonEngine
	comparisons comparisonStore
	logger      *slog.Logger
}

func NewPriceService(lists listGetter, engine comparisonEngine, comparisons comparisonStore, logger *slog.Logger) *PriceService {
	return &PriceService{lists: lists, engine: engine, comparisons: comparisons, logger: logger}
}

// CompareForList runs the comparison engine over a user's list and replaces
// the stored quotes with the fresh run before returning it.
func (s *PriceService) CompareForList(ctx context.Context, userID, listID uuid.UUID, storeIDs []string) (*pricing.Result, error) {
	span := sentry.StartSpan(
		ctx,
		"service.price.compare_for_list",
		sentry.WithOpName("service.price"),
		sentry.WithDescription("CompareForList"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if len(storeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one store id is required", ErrValidation)
	}

	list, err := s.lists.GetForUser(ctx, listID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: grocery list %s", ErrNotFound, listID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, fmt.Errorf("%w: grocery list has no items", ErrValidation)
	}

	result, err := s.engine.Compare(ctx, list.Items, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("price comparison failed: %w", err)
	}

	itemIDs := make([]uuid.UUID, 0, len(list.Items))
	for _, item := range list.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	rows := comparisonRows(result)
	if err := s.comparisons.ReplaceForItems(ctx, itemIDs, rows); err != nil {
		return nil, fmt.Errorf("failed to store comparisons: %w", err)
	}

	meter := observability.MeterFromContext(ctx)
	meter.Count("price.compare.runs", 1, sentry.WithAttributes(
		attribute.Int("items", len(list.Items)),
		attribute.Int("stores", len(storeIDs)),
	))
	meter.Distribution("price.compare.potential_savings_cents", float64(result.Recommendation.PotentialSavingsCents))

	logger := logging.FromContext(ctx, s.logger)
	logger.InfoContext(ctx, "compared grocery list prices",
		slog.String("list_id", listID.String()),
		slog.Int("items", len(list.Items)),
		slog.Int("stores", len(storeIDs)),
		slog.Int("potential_savings_cents", result.Recommendation.PotentialSavingsCents))

	return result, nil
}

// StoredForList returns the quotes persisted by the most recent comparison
// run, grouped by list item.
func (s *PriceService) StoredForList(ctx context.Context, userID, listID uuid.UUID) (map[uuid.UUID][]models.PriceComparison, error) {
	list, err := s.lists.GetForUser(ctx, listID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: grocery list %s", ErrNotFound, listID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}

	itemIDs := make([]uuid.UUID, 0, len(list.Items))
	for _, item := range list.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	stored, err := s.comparisons.ListForItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored comparisons: %w", err)
	}
	return stored, nil
}

// comparisonRows flattens the engine output into persisted rows, one per
// (item, store) pair, unavailable pairs included.
func comparisonRows(result *pricing.Result) []models.PriceComparison {
	var rows []models.PriceComparison
	for _, item := range result.Items {
		for _, entry := range item.Comparisons {
			rows = append(rows, models.PriceComparison{
				ItemID:     item.ItemID,
				StoreID:    entry.StoreID,
				StoreName:  entry.StoreName,
				PriceCents: entry.PriceCents,
				Available:  entry.Available,
			})
		}
	}
	return rows
}
