package grocery

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mealcartapp/mealcart/internal/models"
)

// KeyFunc decides which entries merge. NameKey is the canonical policy.
type KeyFunc func(name, unit string) string

// NameKey merges on lowercased trimmed name only: the same ingredient under
// different units still collapses into one entry, quantities summed, first
// unit kept.
func NameKey(name, _ string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NameUnitKey merges on name plus normalized unit, keeping "2 cups flour" and
// "1 lb flour" as separate entries. Not the default policy.
func NameUnitKey(name, unit string) string {
	return NameKey(name, "") + "|" + NormalizeUnit(unit)
}

type RecipeSource struct {
	RecipeID    uuid.UUID
	Ingredients []models.Ingredient
}

type Input struct {
	Recipes      []RecipeSource
	CustomItems  []string // free-form, run through ParseItem
	RemovedNames []string
}

// Entry is one consolidated line. RecipeID points at the first recipe that
// contributed the item; nil for custom items.
type Entry struct {
	Name     string
	Quantity float64
	Unit     string
	Category string
	RecipeID *uuid.UUID
}

type Consolidator struct {
	key KeyFunc
}

func NewConsolidator(key KeyFunc) *Consolidator {
	if key == nil {
		key = NameKey
	}
	return &Consolidator{key: key}
}

// Consolidate merges every source into one list: matching entries sum their
// quantities, removed names are dropped, quantities round up to two decimals,
// and the output is sorted by name.
func (c *Consolidator) Consolidate(input Input) []Entry {
	removed := make(map[string]bool, len(input.RemovedNames))
	for _, name := range input.RemovedNames {
		removed[NameKey(name, "")] = true
	}

	merged := make(map[string]*Entry)
	var order []string

	add := func(entry Entry) {
		if strings.TrimSpace(entry.Name) == "" || removed[NameKey(entry.Name, "")] {
			return
		}
		key := c.key(entry.Name, entry.Unit)
		if existing, ok := merged[key]; ok {
			existing.Quantity += entry.Quantity
			return
		}
		merged[key] = &entry
		order = append(order, key)
	}

	for _, source := range input.Recipes {
		recipeID := source.RecipeID
		for _, ingredient := range source.Ingredients {
			add(Entry{
				Name:     ingredient.Name,
				Quantity: ingredient.Quantity,
				Unit:     ingredient.Unit,
				Category: ingredient.Category,
				RecipeID: &recipeID,
			})
		}
	}

	for _, raw := range input.CustomItems {
		parsed := ParseItem(raw)
		add(Entry{
			Name:     parsed.Name,
			Quantity: parsed.Quantity,
			Unit:     parsed.Unit,
			Category: "other",
		})
	}

	entries := make([]Entry, 0, len(merged))
	for _, key := range order {
		entry := *merged[key]
		entry.Quantity = roundUpQuantity(entry.Quantity)
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}

// roundUpQuantity rounds up to two decimals so merged fractional quantities
// never under-buy.
func roundUpQuantity(quantity float64) float64 {
	return math.Ceil(quantity*100) / 100
}
