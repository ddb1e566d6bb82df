package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ListStores returns every store the catalog knows about.
func (h *Handlers) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.catalog.ListStores(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stores": stores})
}

// SearchProducts is a catalog passthrough: ?q= is required, ?store_id= and
// ?limit= are optional.
func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxSearchLimit)
	}

	products, err := h.catalog.SearchProducts(r.Context(), query, r.URL.Query().Get("store_id"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}
