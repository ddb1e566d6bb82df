package handlers

// Package handlers provides the HTTP layer of the MealCart API.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/config"
	"github.com/mealcartapp/mealcart/internal/logging"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/optimizer"
	"github.com/mealcartapp/mealcart/internal/pricing"
	"github.com/mealcartapp/mealcart/internal/services"
)

type groceryService interface {
	CreateList(ctx context.Context, userID uuid.UUID, input services.CreateListInput) (*models.GroceryList, error)
	GetList(ctx context.Context, userID, listID uuid.UUID) (*models.GroceryList, error)
	ListLists(ctx context.Context, userID uuid.UUID) ([]models.GroceryList, error)
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
}

type priceService interface {
	CompareForList(ctx context.Context, userID, listID uuid.UUID, storeIDs []string) (*pricing.Result, error)
	StoredForList(ctx context.Context, userID, listID uuid.UUID) (map[uuid.UUID][]models.PriceComparison, error)
}

type cartService interface {
	CreateCart(ctx context.Context, userID uuid.UUID, input services.CreateCartInput) (*services.CartResult, error)
}

type recipeService interface {
	Create(ctx context.Context, userID uuid.UUID, input services.CreateRecipeInput) (*models.Recipe, error)
	Get(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	Optimize(ctx context.Context, userID, recipeID uuid.UUID, profile optimizer.Profile) (*models.Recipe, error)
}

// Handlers provides HTTP request handlers for the MealCart API.
type Handlers struct {
	config  *config.Config
	db      *pgxpool.Pool
	catalog catalog.Provider
	grocery groceryService
	prices  priceService
	carts   cartService
	recipes recipeService
	logger  *slog.Logger
}

type Dependencies struct {
	Config         *config.Config
	DB             *pgxpool.Pool
	Catalog        catalog.Provider
	GroceryService groceryService
	PriceService   priceService
	CartService    cartService
	RecipeService  recipeService
	Logger         *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog is required")
	}
	if deps.GroceryService == nil {
		return nil, fmt.Errorf("handlers dependencies: groceryService is required")
	}
	if deps.PriceService == nil {
		return nil, fmt.Errorf("handlers dependencies: priceService is required")
	}
	if deps.CartService == nil {
		return nil, fmt.Errorf("handlers dependencies: cartService is required")
	}
	if deps.RecipeService == nil {
		return nil, fmt.Errorf("handlers dependencies: recipeService is required")
	}

	return &Handlers{
		config:  deps.Config,
		db:      deps.DB,
		catalog: deps.Catalog,
		grocery: deps.GroceryService,
		prices:  deps.PriceService,
		carts:   deps.CartService,
		recipes: deps.RecipeService,
		logger:  logger,
	}, nil
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

// Health reports liveness; when a pool is configured it also pings the
// database.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.loggerFromContext(r.Context()).ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
