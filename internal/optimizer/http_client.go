package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mealcartapp/mealcart/internal/models"
)

const maxResponseBytes = 1 << 20

var goalDescriptions = map[string]string{
	"LOSE_WEIGHT":  "weight loss (reduce calories, increase protein, reduce fats)",
	"BUILD_MUSCLE": "muscle building (high protein, moderate carbs, healthy fats)",
	"MAINTAIN":     "maintenance (balanced macros)",
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint and asks
// the model to return the optimization as a single JSON object.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey, model string, timeout time.Duration, httpClient *http.Client) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("optimizer url is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("optimizer model is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) Optimize(ctx context.Context, recipe *models.Recipe, profile Profile) (*Result, error) {
	payload, err := json.Marshal(chatRequest{
		Model:     c.model,
		MaxTokens: 4000,
		Messages:  []chatMessage{{Role: "user", Content: buildPrompt(recipe, profile)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimizer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build optimizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("optimizer request failed: %w", err)
	}
	defer resp.Body.Close() //nolint

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read optimizer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("optimizer returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode optimizer response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("optimizer returned no choices")
	}

	return parseResult(chat.Choices[0].Message.Content)
}

func buildPrompt(recipe *models.Recipe, profile Profile) string {
	goal, ok := goalDescriptions[profile.GoalType]
	if !ok {
		goal = fmt.Sprintf("custom macros (%.0fg protein, %.0fg carbs, %.0fg fats)",
			profile.TargetProtein, profile.TargetCarbs, profile.TargetFats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional nutritionist and chef. Optimize this recipe for %s while maintaining its core identity and taste.\n\n", goal)
	fmt.Fprintf(&b, "Recipe: %s\n", recipe.Name)
	if recipe.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", recipe.Description)
	}
	fmt.Fprintf(&b, "Servings: %d\n\nOriginal Ingredients:\n", recipe.Servings)
	for _, ingredient := range recipe.OriginalIngredients {
		fmt.Fprintf(&b, "- %g %s %s\n", ingredient.Quantity, ingredient.Unit, ingredient.Name)
	}
	if len(recipe.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, instruction := range recipe.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
		}
	}

	fmt.Fprintf(&b, "\nUser Constraints:\n- Dietary Restrictions: %s\n- Allergies: %s\n- Preferences: %s\n- Goal: %s\n",
		orNone(profile.Restrictions), orNone(profile.Allergies), orNone(profile.Preferences), profile.GoalType)
	if profile.TargetCalories > 0 {
		fmt.Fprintf(&b, "- Target Calories per Serving: %.0f\n", profile.TargetCalories)
	}

	b.WriteString(`
IMPORTANT RULES:
1. Keep the same dish type
2. Provide specific, realistic substitutions
3. Respect all dietary restrictions and allergies
4. Calculate accurate nutrition facts for the entire recipe (all servings)
5. Explain each substitution clearly
6. Maintain flavor and cooking techniques as much as possible

Return your response as a single JSON object with this shape and no other text:
{
  "optimizedIngredients": [{"name": "...", "quantity": 0, "unit": "...", "category": "produce|dairy|meat|grains|other", "notes": "...", "isSubstitution": false, "originalIngredient": "..."}],
  "substitutions": [{"original": "...", "replacement": "...", "reason": "..."}],
  "nutrition": {"calories": 0, "protein": 0, "carbs": 0, "fats": 0, "fiber": 0, "sugar": 0, "sodium": 0},
  "notes": ["..."]
}`)

	return b.String()
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

// wire types match the JSON shape the prompt demands of the model.
type wireResult struct {
	OptimizedIngredients []wireIngredient `json:"optimizedIngredients"`
	Substitutions        []Substitution   `json:"substitutions"`
	Nutrition            models.Nutrition `json:"nutrition"`
	Notes                []string         `json:"notes"`
}

type wireIngredient struct {
	Name               string  `json:"name"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	Category           string  `json:"category"`
	Notes              string  `json:"notes"`
	IsSubstitution     bool    `json:"isSubstitution"`
	OriginalIngredient string  `json:"originalIngredient"`
}

// parseResult tolerates prose around the JSON object; models sometimes wrap
// the payload despite instructions.
func parseResult(content string) (*Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in optimizer reply")
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse optimization result: %w", err)
	}
	if len(wire.OptimizedIngredients) == 0 {
		return nil, fmt.Errorf("optimization result has no ingredients")
	}

	result := &Result{
		Substitutions: wire.Substitutions,
		Nutrition:     wire.Nutrition,
		Notes:         wire.Notes,
	}
	for _, ingredient := range wire.OptimizedIngredients {
		result.OptimizedIngredients = append(result.OptimizedIngredients, models.Ingredient{
			Name:           ingredient.Name,
			Quantity:       ingredient.Quantity,
			Unit:           ingredient.Unit,
			Category:       ingredient.Category,
			Notes:          ingredient.Notes,
			IsSubstitution: ingredient.IsSubstitution,
			ReplacedName:   ingredient.OriginalIngredient,
		})
	}
	return result, nil
}
