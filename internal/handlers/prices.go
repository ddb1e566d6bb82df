package handlers

import "net/http"

type comparePricesRequest struct {
	StoreIDs []string `json:"store_ids"`
}

// ComparePrices runs a fresh price comparison for the list and returns the
// per-item table plus recommendations.
func (h *Handlers) ComparePrices(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	listID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req comparePricesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.prices.CompareForList(r.Context(), userID, listID, req.StoreIDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetStoredPrices returns the quotes persisted by the most recent comparison
// run for the list, grouped by item.
func (h *Handlers) GetStoredPrices(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	listID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	stored, err := h.prices.StoredForList(r.Context(), userID, listID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"price_comparisons": stored})
}
