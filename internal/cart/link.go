package cart

// Package cart turns a grocery list and a chosen store into a provider
// checkout deep link with an estimated total.

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/mealcartapp/mealcart/internal/catalog"
)

const (
	taxRatePercent             = 8
	freeDeliveryThresholdCents = 3500
	fallbackDeliveryFeeCents   = 599

	cartIDSuffixLength = 9
	cartIDAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

type ProductSearcher interface {
	SearchProducts(ctx context.Context, query, storeID string, limit int) ([]catalog.Product, error)
}

type ItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type Link struct {
	CartID              string   `json:"cart_id"`
	DeepLink            string   `json:"deep_link"`
	WebLink             string   `json:"web_link"`
	SubtotalCents       int      `json:"subtotal_cents"`
	TaxCents            int      `json:"tax_cents"`
	DeliveryFeeCents    int      `json:"delivery_fee_cents"`
	EstimatedTotalCents int      `json:"estimated_total_cents"`
	ItemCount           int      `json:"item_count"`
	UnavailableItems    []string `json:"unavailable_items"`
}

// Generator builds Instacart-style cart links. The clock and suffix source
// are injectable so tests get stable cart IDs.
type Generator struct {
	searcher ProductSearcher
	now      func() time.Time
	suffix   func() string
}

func NewGenerator(searcher ProductSearcher) (*Generator, error) {
	return NewGeneratorWithClock(searcher, time.Now, randomSuffix)
}

func NewGeneratorWithClock(searcher ProductSearcher, now func() time.Time, suffix func() string) (*Generator, error) {
	if searcher == nil {
		return nil, fmt.Errorf("product searcher is required")
	}
	if now == nil || suffix == nil {
		return nil, fmt.Errorf("clock and suffix source are required")
	}
	return &Generator{searcher: searcher, now: now, suffix: suffix}, nil
}

// CreateLink matches each item to its first available product at the store.
// Unmatched items land in UnavailableItems and stay out of the totals; the
// link is still produced as long as the request itself is valid.
func (g *Generator) CreateLink(ctx context.Context, items []ItemRequest, storeID string) (*Link, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, fmt.Errorf("store id is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	type matched struct {
		product  catalog.Product
		quantity float64
	}
	var matches []matched
	unavailable := []string{}

	for _, item := range items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		products, err := g.searcher.SearchProducts(ctx, item.Name, storeID, 1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			unavailable = append(unavailable, item.Name)
			continue
		}
		if len(products) == 0 || !products[0].Available {
			unavailable = append(unavailable, item.Name)
			continue
		}
		matches = append(matches, matched{product: products[0], quantity: quantity})
	}

	subtotal := 0
	for _, match := range matches {
		subtotal += int(math.Round(float64(match.product.PriceCents) * match.quantity))
	}

	tax := (subtotal*taxRatePercent + 50) / 100
	deliveryFee := fallbackDeliveryFeeCents
	if subtotal > freeDeliveryThresholdCents {
		deliveryFee = 0
	}

	cartID := fmt.Sprintf("cart_%d_%s", g.now().UnixMilli(), g.suffix())

	params := make([]string, 0, len(matches))
	for _, match := range matches {
		params = append(params, match.product.ID+":"+strconv.FormatFloat(match.quantity, 'f', -1, 64))
	}

	return &Link{
		CartID:              cartID,
		DeepLink:            fmt.Sprintf("instacart://cart/%s?store=%s&items=%s", cartID, storeID, strings.Join(params, ",")),
		WebLink:             fmt.Sprintf("https://www.instacart.com/store/cart/%s?store=%s", cartID, storeID),
		SubtotalCents:       subtotal,
		TaxCents:            tax,
		DeliveryFeeCents:    deliveryFee,
		EstimatedTotalCents: subtotal + tax + deliveryFee,
		ItemCount:           len(matches),
		UnavailableItems:    unavailable,
	}, nil
}

func randomSuffix() string {
	var b strings.Builder
	for i := 0; i < cartIDSuffixLength; i++ {
		b.WriteByte(cartIDAlphabet[rand.IntN(len(cartIDAlphabet))])
	}
	return b.String()
}
