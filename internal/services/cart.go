package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/cart"
	"github.com/mealcartapp/mealcart/internal/catalog"
	"github.com/mealcartapp/mealcart/internal/db"
	"github.com/mealcartapp/mealcart/internal/logging"
	"github.com/mealcartapp/mealcart/internal/models"
	"github.com/mealcartapp/mealcart/internal/observability"
)

// ProviderInstacart is the only checkout provider wired up today.
const ProviderInstacart = "instacart"

type linkGenerator interface {
	CreateLink(ctx context.Context, items []cart.ItemRequest, storeID string) (*cart.Link, error)
}

type cartStore interface {
	Create(ctx context.Context, record *models.ShoppingCart) error
}

type storeGetter interface {
	GetStore(ctx context.Context, id string) (*catalog.Store, error)
}

type CartService struct {
	lists     listGetter
	generator linkGenerator
	carts     cartStore
	stores    storeGetter
	logger    *slog.Logger
}

func NewCartService(lists listGetter, generator linkGenerator, carts cartStore, stores storeGetter, logger *slog.Logger) *CartService {
	return &CartService{lists: lists, generator: generator, carts: carts, stores: stores, logger: logger}
}

type CreateCartInput struct {
	GroceryListID uuid.UUID
	Provider      string
	StoreID       string
	Items         []cart.ItemRequest
}

type CartResult struct {
	*cart.Link
	EstimatedDelivery string `json:"estimated_delivery"`
}

// CreateCart builds a checkout link for the user's list at the chosen store
// and records it. When the request carries no explicit items, the list's own
// items are used.
func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID, input CreateCartInput) (*CartResult, error) {
	span := sentry.StartSpan(
		ctx,
		"service.cart.create_cart",
		sentry.WithOpName("service.cart"),
		sentry.WithDescription("CreateCart"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	if input.Provider != ProviderInstacart {
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrValidation, input.Provider)
	}
	if strings.TrimSpace(input.StoreID) == "" {
		return nil, fmt.Errorf("%w: store id is required", ErrValidation)
	}
	if input.GroceryListID == uuid.Nil {
		return nil, fmt.Errorf("%w: grocery list id is required", ErrValidation)
	}

	list, err := s.lists.GetForUser(ctx, input.GroceryListID, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: grocery list %s", ErrNotFound, input.GroceryListID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery list: %w", err)
	}

	store, err := s.stores.GetStore(ctx, input.StoreID)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		return nil, fmt.Errorf("%w: unknown store %q", ErrValidation, input.StoreID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	items := input.Items
	if len(items) == 0 {
		items = make([]cart.ItemRequest, 0, len(list.Items))
		for _, item := range list.Items {
			items = append(items, cart.ItemRequest{Name: item.Name, Quantity: item.Quantity})
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: grocery list has no items", ErrValidation)
	}

	link, err := s.generator.CreateLink(ctx, items, input.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart link: %w", err)
	}

	record := &models.ShoppingCart{
		UserID:              userID,
		GroceryListID:       list.ID,
		Provider:            input.Provider,
		StoreID:             input.StoreID,
		DeepLink:            link.DeepLink,
		EstimatedTotalCents: link.EstimatedTotalCents,
		DeliveryFeeCents:    link.DeliveryFeeCents,
	}
	if err := s.carts.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store cart: %w", err)
	}

	meter := observability.MeterFromContext(ctx)
	meter.Count("cart.link.created", 1, sentry.WithAttributes(
		attribute.String("store_id", input.StoreID),
	))
	meter.Distribution("cart.link.estimated_total_cents", float64(link.EstimatedTotalCents))

	logging.FromContext(ctx, s.logger).InfoContext(ctx, "created cart link",
		slog.String("cart_id", link.CartID),
		slog.String("store_id", input.StoreID),
		slog.Int("matched_items", link.ItemCount),
		slog.Int("unavailable_items", len(link.UnavailableItems)))

	return &CartResult{Link: link, EstimatedDelivery: store.EstimatedDelivery}, nil
}
