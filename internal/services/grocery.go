package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/db"
	"github.com/mealcartapp/mealcart/internal/grocery"
	"github.com/mealcartapp/mealcart/internal/logging"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/observability"
)

type groceryListStore interface {
	Create(ctx context.Context, list *models.GroceryList) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.GroceryList, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.GroceryList, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type recipeGetter interface {
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Recipe, error)
}

type GroceryService struct {
	lists        groceryListStore
	recipes      recipeGetter
	consolidator *grocery.Consolidator
	logger       *slog.Logger
}

func NewGroceryService(lists groceryListStore, recipes recipeGetter, consolidator *grocery.Consolidator, logger *slog.Logger) *GroceryService {
	if consolidator == nil {
		consolidator = grocery.NewConsolidator(nil)
	}
	return &GroceryService{lists: lists, recipes: recipes, consolidator: consolidator, logger: logger}
}

func (s *GroceryService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

type CreateListInput struct {
	Name          string
	RecipeIDs     []uuid.UUID
	CustomItems   []string
	RemovedNames  []string
	WeekStartDate *time.Time
}

// CreateList consolidates the input sources into one list and persists it.
// Recipes contribute their active ingredient set: the optimized one once an
// optimization was accepted, otherwise the original.
func (s *GroceryService) CreateList(ctx context.Context, userID uuid.UUID, input CreateListInput) (*models.GroceryList, error) {
	span := sentry.StartSpan(
		ctx,
		"service.grocery.create_list",
		sentry.WithOpName("service.grocery"),
		sentry.WithDescription("CreateList"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: list name is required", ErrValidation)
	}
	if len(input.RecipeIDs) == 0 && len(input.CustomItems) == 0 {
		return nil, fmt.Errorf("%w: at least one recipe or custom item is required", ErrValidation)
	}

	sources := make([]grocery.RecipeSource, 0, len(input.RecipeIDs))
	for _, recipeID := range input.RecipeIDs {
		recipe, err := s.recipes.GetForUser(ctx, recipeID, userID)
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe %s: %w", recipeID, err)
		}
		sources = append(sources, grocery.RecipeSource{
			RecipeID:    recipe.ID,
			Ingredients: recipe.ActiveIngredients(),
		})
	}

	entries := s.consolidator.Consolidate(grocery.Input{
		Recipes:      sources,
		CustomItems:  input.CustomItems,
		RemovedNames: input.RemovedNames,
	})

	list := &models.GroceryList{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		WeekStartDate: input.WeekStartDate,
		Items:         make([]models.GroceryListItem, 0, len(entries)),
	}
	for _, entry := range entries {
		list.Items = append(list.Items, models.GroceryListItem{
			Name:     entry.Name,
			Quantity: entry.Quantity,
			Unit:     entry.Unit,
			Category: entry.Category,
			RecipeID: entry.RecipeID,
		})
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create grocery list: %w", err)
	}

	meter := observability.MeterFromContext(ctx)
	meter.Count("grocery.list.created", 1, sentry.WithAttributes(
		attribute.Int("recipes", len(input.RecipeIDs)),
	))
	meter.Distribution("grocery.list.items", float64(len(list.Items)))

	s.loggerFromContext(ctx).InfoContext(ctx, "created grocery list",
		slog.String("list_id", list.ID.String()),
		slog.Int("items", len(list.Items)))

	return list, nil
}

func (s *GroceryService) GetList(ctx context.Context, userID, listID uuid.UUID) (*models.GroceryList, error) {
	list, err := s.lists.GetForUser(ctx, listID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: grocery list %s", ErrNotFound, listID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}
	return list, nil
}

func (s *GroceryService) ListLists(ctx context.Context, userID uuid.UUID) ([]models.GroceryList, error) {
	lists, err := s.lists.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery lists: %w", err)
	}
	return lists, nil
}

func (s *GroceryService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	err := s.lists.Delete(ctx, listID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: grocery list %s", ErrNotFound, listID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete grocery list: %w", err)
	}
	return nil
}
