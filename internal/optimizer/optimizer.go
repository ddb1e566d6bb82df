package optimizer

// Package optimizer rewrites a recipe's ingredient list against a user's
// nutrition profile via an external language model. The model's dietary
// judgment is opaque to this service; we only own the request/response
// plumbing.

import (
	"context"

	"github.com/mealcartapp/mealcart/internal/models"
)

type Profile struct {
	GoalType       string   `json:"goal_type"`
	Restrictions   []string `json:"restrictions"`
	Allergies      []string `json:"allergies"`
	Preferences    []string `json:"preferences"`
	TargetCalories float64  `json:"target_calories,omitempty"`
	TargetProtein  float64  `json:"target_protein,omitempty"`
	TargetCarbs    float64  `json:"target_carbs,omitempty"`
	TargetFats     float64  `json:"target_fats,omitempty"`
}

type Substitution struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Reason      string `json:"reason"`
}

type Result struct {
	OptimizedIngredients []models.Ingredient `json:"optimized_ingredients"`
	Substitutions        []Substitution      `json:"substitutions"`
	Nutrition            models.Nutrition    `json:"nutrition"`
	Notes                []string            `json:"notes"`
}

type Client interface {
	Optimize(ctx context.Context, recipe *models.Recipe, profile Profile) (*Result, error)
}
