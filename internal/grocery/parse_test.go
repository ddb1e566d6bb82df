package grocery

import "testing"

func TestParseItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw          string
		wantQuantity float64
		wantUnit     string
		wantName     string
	}{
		{raw: "1 1/2 cups flour", wantQuantity: 1.5, wantUnit: "cups", wantName: "flour"},
		{raw: "Eggs", wantQuantity: 1, wantUnit: "", wantName: "Eggs"},
		{raw: "2 Eggs", wantQuantity: 2, wantUnit: "", wantName: "Eggs"},
		{raw: "1/2 cup sugar", wantQuantity: 0.5, wantUnit: "cup", wantName: "sugar"},
		{raw: "0.75 lb chicken breast", wantQuantity: 0.75, wantUnit: "lb", wantName: "chicken breast"},
		{raw: "3 cloves garlic", wantQuantity: 3, wantUnit: "cloves", wantName: "garlic"},
		{raw: "2 12 oz cans", wantQuantity: 2, wantUnit: "", wantName: "12 oz cans"},
		{raw: "  olive   oil  ", wantQuantity: 1, wantUnit: "", wantName: "olive oil"},
		{raw: "", wantQuantity: 1, wantUnit: "", wantName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got := ParseItem(tt.raw)
			if got.Quantity != tt.wantQuantity || got.Unit != tt.wantUnit || got.Name != tt.wantName {
				t.Fatalf("ParseItem(%q) = %+v, want {%v %q %q}", tt.raw, got, tt.wantQuantity, tt.wantUnit, tt.wantName)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unit string
		want string
	}{
		{unit: "Cups", want: "cup"},
		{unit: "tablespoons", want: "tbsp"},
		{unit: "OZ", want: "oz"},
		{unit: "handful", want: "handful"},
	}

	for _, tt := range tests {
		if got := NormalizeUnit(tt.unit); got != tt.want {
			t.Fatalf("NormalizeUnit(%q) = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

func TestConvertUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quantity float64
		from     string
		to       string
		want     float64
	}{
		{name: "cups to tbsp", quantity: 2, from: "cups", to: "tablespoons", want: 32},
		{name: "lb to oz", quantity: 1, from: "pound", to: "oz", want: 16},
		{name: "same unit", quantity: 3, from: "cup", to: "cups", want: 3},
		{name: "no factor passes through", quantity: 5, from: "cup", to: "kg", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ConvertUnit(tt.quantity, tt.from, tt.to); got != tt.want {
				t.Fatalf("ConvertUnit(%v, %q, %q) = %v, want %v", tt.quantity, tt.from, tt.to, got, tt.want)
			}
		})
	}
}
