package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealcartapp/mealcart/internal/models"
)

type RecipeStore struct {
	pool *pgxpool.Pool
}

func NewRecipeStore(pool *pgxpool.Pool) *RecipeStore {
	return &RecipeStore{pool: pool}
}

// Ingredient sets and nutrition live in JSONB columns; they are read and
// written as whole documents, never queried into.
func (s *RecipeStore) Create(ctx context.Context, recipe *Recipe) error {
	originalJSON, err := json.Marshal(recipe.OriginalIngredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}

	recipe.ID = uuid.New()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO recipes (id, user_id, name, description, servings, instructions, is_optimized, original_ingredients, optimized_ingredients, nutrition)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7, '[]'::jsonb, NULL)
		 RETURNING created_at`,
		recipe.ID, recipe.UserID, recipe.Name, recipe.Description, recipe.Servings,
		recipe.Instructions, originalJSON,
	).Scan(&recipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	recipe.IsOptimized = false
	return nil
}

func (s *RecipeStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*Recipe, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, servings, instructions, is_optimized, original_ingredients, optimized_ingredients, nutrition, created_at
		 FROM recipes
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	recipe, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, description, servings, instructions, is_optimized, original_ingredients, optimized_ingredients, nutrition, created_at
		 FROM recipes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM recipes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOptimization stores the optimizer's output and flips the recipe to its
// optimized ingredient set.
func (s *RecipeStore) SetOptimization(ctx context.Context, id, userID uuid.UUID, ingredients []models.Ingredient, nutrition *models.Nutrition) error {
	optimizedJSON, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}
	var nutritionJSON []byte
	if nutrition != nil {
		nutritionJSON, err = json.Marshal(nutrition)
		if err != nil {
			return fmt.Errorf("failed to encode nutrition: %w", err)
		}
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE recipes
		 SET is_optimized = true, optimized_ingredients = $3, nutrition = $4
		 WHERE id = $1 AND user_id = $2`,
		id, userID, optimizedJSON, nutritionJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe optimization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecipe(row pgx.Row) (*Recipe, error) {
	recipe := &Recipe{}
	var originalJSON, optimizedJSON []byte
	var nutritionJSON []byte

	err := row.Scan(&recipe.ID, &recipe.UserID, &recipe.Name, &recipe.Description, &recipe.Servings,
		&recipe.Instructions, &recipe.IsOptimized, &originalJSON, &optimizedJSON, &nutritionJSON, &recipe.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(originalJSON, &recipe.OriginalIngredients); err != nil {
		return nil, fmt.Errorf("failed to decode original ingredients: %w", err)
	}
	if err := json.Unmarshal(optimizedJSON, &recipe.OptimizedIngredients); err != nil {
		return nil, fmt.Errorf("failed to decode optimized ingredients: %w", err)
	}
	if len(nutritionJSON) > 0 {
		recipe.Nutrition = &models.Nutrition{}
		if err := json.Unmarshal(nutritionJSON, recipe.Nutrition); err != nil {
			return nil, fmt.Errorf("failed to decode nutrition: %w", err)
		}
	}
	return recipe, nil
}
