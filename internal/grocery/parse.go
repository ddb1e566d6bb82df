package grocery

import (
	"strconv"
	"strings"
)

type ParsedItem struct {
	Quantity float64
	Unit     string
	Name     string
}

// ParseItem splits a free-form entry like "1 1/2 cups flour" into quantity,
// unit, and name. Supported quantity forms: integers, decimals, fractions
// ("1/2"), and mixed numbers ("1 1/2"). A token only counts as a unit when it
// is a known measure word, so "2 Eggs" keeps Eggs as the name. Bare names get
// quantity 1 and no unit.
func ParseItem(raw string) ParsedItem {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ParsedItem{Quantity: 1}
	}

	quantity := 1.0
	idx := 0
	if value, ok := parseNumber(fields[0]); ok && len(fields) > 1 {
		quantity = value
		idx = 1
		// Mixed number: only a strict a/b fraction extends the quantity, so
		// "2 12 oz" is not read as fourteen.
		if idx < len(fields)-1 {
			if fraction, ok := parseFraction(fields[idx]); ok {
				quantity += fraction
				idx++
			}
		}
	}

	unit := ""
	if idx < len(fields)-1 && isUnit(fields[idx]) {
		unit = fields[idx]
		idx++
	}

	return ParsedItem{
		Quantity: quantity,
		Unit:     unit,
		Name:     strings.Join(fields[idx:], " "),
	}
}

func parseNumber(token string) (float64, bool) {
	if value, err := strconv.ParseFloat(token, 64); err == nil && value > 0 {
		return value, true
	}
	return parseFraction(token)
}

func parseFraction(token string) (float64, bool) {
	numerator, denominator, ok := strings.Cut(token, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(numerator)
	if err != nil || n <= 0 {
		return 0, false
	}
	d, err := strconv.Atoi(denominator)
	if err != nil || d <= 0 {
		return 0, false
	}
	return float64(n) / float64(d), true
}
