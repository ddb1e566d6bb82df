package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mealcartapp/mealcart/internal/auth"
	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/config"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/optimizer"
	"github.com/mealcartapp/mealcart/internal/pricing"
	"github.com/mealcartapp/mealcart/internal/services"
)

type stubGrocery struct {
	list *models.GroceryList
	err  error
}

func (s *stubGrocery) CreateList(_ context.Context, _ uuid.UUID, _ services.CreateListInput) (*models.GroceryList, error) {
	return s.list, s.err
}

func (s *stubGrocery) GetList(_ context.Context, _, _ uuid.UUID) (*models.GroceryList, error) {
	return s.list, s.err
}

func (s *stubGrocery) ListLists(_ context.Context, _ uuid.UUID) ([]models.GroceryList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.GroceryList{*s.list}, nil
}

func (s *stubGrocery) DeleteList(_ context.Context, _, _ uuid.UUID) error {
	return s.err
}

type stubPrices struct {
	result *pricing.Result
	stored map[uuid.UUID][]models.PriceComparison
	err    error
}

func (s *stubPrices) CompareForList(_ context.Context, _, _ uuid.UUID, _ []string) (*pricing.Result, error) {
	return s.result, s.err
}

func (s *stubPrices) StoredForList(_ context.Context, _, _ uuid.UUID) (map[uuid.UUID][]models.PriceComparison, error) {
	return s.stored, s.err
}

type stubCarts struct {
	result *services.CartResult
	err    error
}

func (s *stubCarts) CreateCart(_ context.Context, _ uuid.UUID, _ services.CreateCartInput) (*services.CartResult, error) {
	return s.result, s.err
}

type stubRecipes struct {
	recipe *models.Recipe
	err    error
}

func (s *stubRecipes) Create(_ context.Context, _ uuid.UUID, _ services.CreateRecipeInput) (*models.Recipe, error) {
	return s.recipe, s.err
}

func (s *stubRecipes) Get(_ context.Context, _, _ uuid.UUID) (*models.Recipe, error) {
	return s.recipe, s.err
}

func (s *stubRecipes) List(_ context.Context, _ uuid.UUID) ([]models.Recipe, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Recipe{*s.recipe}, nil
}

func (s *stubRecipes) Delete(_ context.Context, _, _ uuid.UUID) error {
	return s.err
}

func (s *stubRecipes) Optimize(_ context.Context, _, _ uuid.UUID, _ optimizer.Profile) (*models.Recipe, error) {
	return s.recipe, s.err
}

type testDeps struct {
	grocery *stubGrocery
	prices  *stubPrices
	carts   *stubCarts
	recipes *stubRecipes
}

func newTestHandlers(t *testing.T, deps testDeps) *Handlers {
	t.Helper()

	if deps.grocery == nil {
		deps.grocery = &stubGrocery{list: &models.GroceryList{ID: uuid.New()}}
	}
	if deps.prices == nil {
		deps.prices = &stubPrices{result: &pricing.Result{}}
	}
	if deps.carts == nil {
		deps.carts = &stubCarts{result: &services.CartResult{}}
	}
	if deps.recipes == nil {
		deps.recipes = &stubRecipes{recipe: &models.Recipe{ID: uuid.New()}}
	}

	provider, err := catalog.NewFixtureProvider(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handlers, err := New(Dependencies{
		Config:         &config.Config{},
		Catalog:        provider,
		GroceryService: deps.grocery,
		PriceService:   deps.prices,
		CartService:    deps.carts,
		RecipeService:  deps.recipes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return handlers
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(auth.WithUserID(req.Context(), uuid.New()))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	rec := httptest.NewRecorder()
	handlers.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestListStores(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	rec := httptest.NewRecorder()
	handlers.ListStores(rec, authedRequest(http.MethodGet, "/api/stores", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	var body struct {
		Stores []catalog.Store `json:"stores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(body.Stores) != 5 {
		t.Fatalf("unexpected store count: got=%d want=%d", len(body.Stores), 5)
	}
}

func TestSearchProductsValidation(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "ok", target: "/api/products/search?q=milk", wantStatus: http.StatusOK},
		{name: "missing query", target: "/api/products/search", wantStatus: http.StatusBadRequest},
		{name: "bad limit", target: "/api/products/search?q=milk&limit=zero", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			handlers.SearchProducts(rec, authedRequest(http.MethodGet, tt.target, ""))
			if rec.Code != tt.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestComparePricesErrorMapping(t *testing.T) {
	t.Parallel()

	listID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: fmt.Errorf("%w: no stores", services.ErrValidation), wantStatus: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w: list", services.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "internal", err: fmt.Errorf("provider exploded"), wantStatus: http.StatusInternalServerError},
		{name: "ok", err: nil, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handlers := newTestHandlers(t, testDeps{prices: &stubPrices{result: &pricing.Result{}, err: tt.err}})

			req := authedRequest(http.MethodPost, "/api/grocery-lists/"+listID.String()+"/prices", `{"store_ids": ["store_001"]}`)
			req = mux.SetURLVars(req, map[string]string{"id": listID.String()})
			rec := httptest.NewRecorder()

			handlers.ComparePrices(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "exploded") {
				t.Fatalf("internal detail leaked to client: %s", rec.Body.String())
			}
		})
	}
}

func TestGetStoredPrices(t *testing.T) {
	t.Parallel()

	listID := uuid.New()
	itemID := uuid.New()
	stored := map[uuid.UUID][]models.PriceComparison{
		itemID: {{ItemID: itemID, StoreID: "store_001", PriceCents: 400, Available: true}},
	}
	handlers := newTestHandlers(t, testDeps{prices: &stubPrices{stored: stored}})

	req := authedRequest(http.MethodGet, "/api/grocery-lists/"+listID.String()+"/prices", "")
	req = mux.SetURLVars(req, map[string]string{"id": listID.String()})
	rec := httptest.NewRecorder()

	handlers.GetStoredPrices(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body struct {
		Comparisons map[uuid.UUID][]models.PriceComparison `json:"price_comparisons"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(body.Comparisons[itemID]) != 1 {
		t.Fatalf("unexpected stored rows: %+v", body.Comparisons)
	}
}

func TestComparePricesRejectsBadListID(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	req := authedRequest(http.MethodPost, "/api/grocery-lists/not-a-uuid/prices", `{"store_ids": ["store_001"]}`)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()

	handlers.ComparePrices(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateGroceryList(t *testing.T) {
	t.Parallel()

	list := &models.GroceryList{ID: uuid.New(), Name: "Weekly shop"}
	handlers := newTestHandlers(t, testDeps{grocery: &stubGrocery{list: list}})

	req := authedRequest(http.MethodPost, "/api/grocery-lists", `{"name": "Weekly shop", "custom_items": ["Milk"]}`)
	rec := httptest.NewRecorder()

	handlers.CreateGroceryList(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var got models.GroceryList
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if got.ID != list.ID {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestCreateGroceryListRejectsBadJSON(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	req := authedRequest(http.MethodPost, "/api/grocery-lists", `{"name": `)
	rec := httptest.NewRecorder()

	handlers.CreateGroceryList(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateCartUnsupportedProvider(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{carts: &stubCarts{
		err: fmt.Errorf("%w: unsupported provider", services.ErrValidation),
	}})

	body := `{"grocery_list_id": "` + uuid.NewString() + `", "provider": "doordash", "store_id": "store_001"}`
	rec := httptest.NewRecorder()

	handlers.CreateCart(rec, authedRequest(http.MethodPost, "/api/carts", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	t.Parallel()

	handlers := newTestHandlers(t, testDeps{})

	rec := httptest.NewRecorder()
	handlers.ListGroceryLists(rec, httptest.NewRequest(http.MethodGet, "/api/grocery-lists", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}
