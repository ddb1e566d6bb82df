package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mealcartapp/mealcart/internal/auth"
	"github.com/mealcartapp/mealcart/internal/services"
)

// requestUser pulls the authenticated user off the context; the auth
// middleware guarantees it for /api routes.
func requestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

type createListRequest struct {
	Name          string      `json:"name"`
	RecipeIDs     []uuid.UUID `json:"recipe_ids"`
	CustomItems   []string    `json:"custom_items"`
	RemovedNames  []string    `json:"removed_names"`
	WeekStartDate *time.Time  `json:"week_start_date,omitempty"`
}

func (h *Handlers) CreateGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req createListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.grocery.CreateList(r.Context(), userID, services.CreateListInput{
		Name:          req.Name,
		RecipeIDs:     req.RecipeIDs,
		CustomItems:   req.CustomItems,
		RemovedNames:  req.RemovedNames,
		WeekStartDate: req.WeekStartDate,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *Handlers) ListGroceryLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	lists, err := h.grocery.ListLists(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grocery_lists": lists})
}

func (h *Handlers) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	listID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.grocery.GetList(r.Context(), userID, listID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) DeleteGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	listID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.grocery.DeleteList(r.Context(), userID, listID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
