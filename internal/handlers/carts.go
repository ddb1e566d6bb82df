package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/cart"
	"github.com/mealcartapp/mealcart/internal/services"
)

type createCartRequest struct {
	GroceryListID uuid.UUID          `json:"grocery_list_id"`
	Provider      string             `json:"provider"`
	StoreID       string             `json:"store_id"`
	Items         []cart.ItemRequest `json:"items"`
}

// CreateCart builds a checkout link for a grocery list at a store. Items may
// be passed explicitly; otherwise the list's items are used.
func (h *Handlers) CreateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req createCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.carts.CreateCart(r.Context(), userID, services.CreateCartInput{
		GroceryListID: req.GroceryListID,
		Provider:      req.Provider,
		StoreID:       req.StoreID,
		Items:         req.Items,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
