package grocery

// Package grocery consolidates recipe ingredients and free-form items into a
// single shopping list.

import "strings"

var unitAliases = map[string]string{
	"cups":        "cup",
	"cup":         "cup",
	"tablespoons": "tbsp",
	"tablespoon":  "tbsp",
	"tbsp":        "tbsp",
	"teaspoons":   "tsp",
	"teaspoon":    "tsp",
	"tsp":         "tsp",
	"ounces":      "oz",
	"ounce":       "oz",
	"oz":          "oz",
	"pounds":      "lb",
	"pound":       "lb",
	"lb":          "lb",
	"grams":       "g",
	"gram":        "g",
	"g":           "g",
	"kilograms":   "kg",
	"kilogram":    "kg",
	"kg":          "kg",
	"liters":      "l",
	"liter":       "l",
	"l":           "l",
	"milliliters": "ml",
	"milliliter":  "ml",
	"ml":          "ml",
}

// countUnits are measure words with no canonical abbreviation; they matter
// only so the item tokenizer can tell a unit from the start of a name.
var countUnits = map[string]bool{
	"clove": true, "cloves": true,
	"pinch": true, "pinches": true,
	"can": true, "cans": true,
	"slice": true, "slices": true,
	"bunch": true, "bunches": true,
	"package": true, "packages": true,
	"piece": true, "pieces": true,
}

// NormalizeUnit maps unit spellings to a canonical short form; unknown units
// pass through unchanged.
func NormalizeUnit(unit string) string {
	if canonical, ok := unitAliases[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return canonical
	}
	return unit
}

func isUnit(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := unitAliases[lower]; ok {
		return true
	}
	return countUnits[lower]
}

var conversionFactors = map[string]map[string]float64{
	"cup":  {"tbsp": 16, "tsp": 48, "ml": 236.588},
	"tbsp": {"cup": 0.0625, "tsp": 3, "ml": 14.787},
	"tsp":  {"cup": 0.0208, "tbsp": 0.333, "ml": 4.929},
	"lb":   {"oz": 16, "g": 453.592, "kg": 0.454},
	"oz":   {"lb": 0.0625, "g": 28.35, "kg": 0.028},
	"kg":   {"g": 1000, "lb": 2.205, "oz": 35.274},
	"g":    {"kg": 0.001, "lb": 0.0022, "oz": 0.035},
	"l":    {"ml": 1000, "cup": 4.227},
	"ml":   {"l": 0.001, "cup": 0.004},
}

// ConvertUnit converts a quantity between measurement units where a factor is
// known; quantities pass through unchanged for same or unconvertible units.
func ConvertUnit(quantity float64, fromUnit, toUnit string) float64 {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return quantity
	}
	if factors, ok := conversionFactors[from]; ok {
		if factor, ok := factors[to]; ok {
			return quantity * factor
		}
	}
	return quantity
}
