package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID                   uuid.UUID    `json:"id"`
	UserID               uuid.UUID    `json:"user_id"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	Servings             int          `json:"servings"`
	Instructions         []string     `json:"instructions"`
	IsOptimized          bool         `json:"is_optimized"`
	OriginalIngredients  []Ingredient `json:"original_ingredients"`
	OptimizedIngredients []Ingredient `json:"optimized_ingredients"`
	Nutrition            *Nutrition   `json:"nutrition,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
}

// ActiveIngredients returns the ingredient set a grocery list should draw from:
// the optimized set once an optimization has been accepted, otherwise the original.
func (r *Recipe) ActiveIngredients() []Ingredient {
	if r.IsOptimized && len(r.OptimizedIngredients) > 0 {
		return r.OptimizedIngredients
	}
	return r.OriginalIngredients
}

type Ingredient struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	Notes          string  `json:"notes,omitempty"`
	IsSubstitution bool    `json:"is_substitution,omitempty"`
	ReplacedName   string  `json:"replaced_name,omitempty"`
}

type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber,omitempty"`
	Sugar    float64 `json:"sugar,omitempty"`
	Sodium   float64 `json:"sodium,omitempty"`
}
