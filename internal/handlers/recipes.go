package handlers

import (
	"net/http"

	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/optimizer"
	"github.com/mealcartapp/mealcart/internal/services"
)

type createRecipeRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Servings     int                 `json:"servings"`
	Instructions []string            `json:"instructions"`
	Ingredients  []models.Ingredient `json:"ingredients"`
}

func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := h.recipes.Create(r.Context(), userID, services.CreateRecipeInput{
		Name:         req.Name,
		Description:  req.Description,
		Servings:     req.Servings,
		Instructions: req.Instructions,
		Ingredients:  req.Ingredients,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	recipes, err := h.recipes.List(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(r.Context(), userID, recipeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(r.Context(), userID, recipeID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OptimizeRecipe sends the recipe through the nutrition optimizer with the
// caller's profile.
func (h *Handlers) OptimizeRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var profile optimizer.Profile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipe, err := h.recipes.Optimize(r.Context(), userID, recipeID, profile)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}
