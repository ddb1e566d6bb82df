package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/db"
	"github.com/mealcartapp/mealcart/internal/logging"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/observability"
	"github.com/mealcartapp/mealcart/internal/optimizer"
)

type recipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Recipe, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	SetOptimization(ctx context.Context, id, userID uuid.UUID, ingredients []models.Ingredient, nutrition *models.Nutrition) error
}

type RecipeService struct {
	recipes   recipeStore
	optimizer optimizer.Client
	logger    *slog.Logger
}

func NewRecipeService(recipes recipeStore, optimizerClient optimizer.Client, logger *slog.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, optimizer: optimizerClient, logger: logger}
}

type CreateRecipeInput struct {
	Name         string
	Description  string
	Servings     int
	Instructions []string
	Ingredients  []models.Ingredient
}

func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, input CreateRecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: recipe name is required", ErrValidation)
	}
	if len(input.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: at least one ingredient is required", ErrValidation)
	}
	servings := input.Servings
	if servings <= 0 {
		servings = 1
	}

	recipe := &models.Recipe{
		UserID:              userID,
		Name:                strings.TrimSpace(input.Name),
		Description:         input.Description,
		Servings:            servings,
		Instructions:        input.Instructions,
		OriginalIngredients: input.Ingredients,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) Get(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipes.GetForUser(ctx, recipeID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.recipes.Delete(ctx, recipeID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// Optimize sends the recipe through the external optimizer and stores the
// returned ingredient set. The model's dietary choices are taken as-is.
func (s *RecipeService) Optimize(ctx context.Context, userID, recipeID uuid.UUID, profile optimizer.Profile) (*models.Recipe, error) {
	span := sentry.StartSpan(
		ctx,
		"service.recipe.optimize",
		sentry.WithOpName("service.recipe"),
		sentry.WithDescription("Optimize"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if s.optimizer == nil {
		return nil, fmt.Errorf("%w: recipe optimization is not configured", ErrValidation)
	}

	recipe, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	result, err := s.optimizer.Optimize(ctx, recipe, profile)
	if err != nil {
		return nil, fmt.Errorf("recipe optimization failed: %w", err)
	}

	nutrition := result.Nutrition
	if err := s.recipes.SetOptimization(ctx, recipeID, userID, result.OptimizedIngredients, &nutrition); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		return nil, fmt.Errorf("failed to store optimization: %w", err)
	}

	recipe.IsOptimized = true
	recipe.OptimizedIngredients = result.OptimizedIngredients
	recipe.Nutrition = &nutrition

	observability.MeterFromContext(ctx).Count("recipe.optimized", 1)
	logging.FromContext(ctx, s.logger).InfoContext(ctx, "optimized recipe",
		slog.String("recipe_id", recipeID.String()),
		slog.Int("substitutions", len(result.Substitutions)))

	return recipe, nil
}
