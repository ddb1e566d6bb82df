package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mealcartapp/mealcart/internal/models"
)

func testRecipe() *models.Recipe {
	return &models.Recipe{
		Name:     "Mac and Cheese",
		Servings: 4,
		OriginalIngredients: []models.Ingredient{
			{Name: "elbow macaroni", Quantity: 1, Unit: "lb"},
			{Name: "cheddar cheese", Quantity: 2, Unit: "cups"},
		},
		Instructions: []string{"Boil pasta", "Melt cheese"},
	}
}

func TestHTTPClientOptimizeParsesModelReply(t *testing.T) {
	t.Parallel()

	reply := `Here is the optimized recipe:
{
  "optimizedIngredients": [
    {"name": "whole wheat macaroni", "quantity": 1, "unit": "lb", "category": "grains", "isSubstitution": true, "originalIngredient": "elbow macaroni"}
  ],
  "substitutions": [{"original": "elbow macaroni", "replacement": "whole wheat macaroni", "reason": "more fiber"}],
  "nutrition": {"calories": 1600, "protein": 80, "carbs": 200, "fats": 40},
  "notes": ["texture will be slightly denser"]
}`

	var gotAuth string
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: reply}}}})
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "test-key", "test-model", time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := client.Optimize(context.Background(), testRecipe(), Profile{GoalType: "LOSE_WEIGHT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "test-model" {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || !strings.Contains(gotBody.Messages[0].Content, "Mac and Cheese") {
		t.Fatalf("prompt should carry the recipe name: %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "weight loss") {
		t.Fatalf("prompt should describe the goal")
	}

	if len(result.OptimizedIngredients) != 1 {
		t.Fatalf("unexpected ingredients: %+v", result.OptimizedIngredients)
	}
	ingredient := result.OptimizedIngredients[0]
	if ingredient.Name != "whole wheat macaroni" || !ingredient.IsSubstitution || ingredient.ReplacedName != "elbow macaroni" {
		t.Fatalf("substitution not mapped: %+v", ingredient)
	}
	if result.Nutrition.Calories != 1600 {
		t.Fatalf("unexpected nutrition: %+v", result.Nutrition)
	}
	if len(result.Substitutions) != 1 || result.Substitutions[0].Reason != "more fiber" {
		t.Fatalf("unexpected substitutions: %+v", result.Substitutions)
	}
}

func TestHTTPClientOptimizeRejectsBadReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "upstream error", status: http.StatusBadGateway, payload: `{}`},
		{name: "no choices", status: http.StatusOK, payload: `{"choices": []}`},
		{name: "no json in reply", status: http.StatusOK, payload: `{"choices": [{"message": {"content": "sorry, cannot help"}}]}`},
		{name: "empty ingredient set", status: http.StatusOK, payload: `{"choices": [{"message": {"content": "{\"optimizedIngredients\": []}"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client, err := NewHTTPClient(server.URL, "", "test-model", time.Second, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, err := client.Optimize(context.Background(), testRecipe(), Profile{GoalType: "MAINTAIN"}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
