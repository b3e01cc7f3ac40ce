package clipper

import (
	"testing"

	"meal-grocer/internal/units"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		line   string
		name   string
		amount float64
		unit   units.Unit
	}{
		{"200 g rice", "rice", 200, units.Gram},
		{"200g Basmati rice", "Basmati rice", 200, units.Gram},
		{"1 1/2 cups milk, warmed", "milk", 1.5, units.Cup},
		{"½ tsp. cumin", "cumin", 0.5, units.Teaspoon},
		{"1½ tablespoons olive oil", "olive oil", 1.5, units.Tablespoon},
		{"2 fl oz lime juice", "lime juice", 2, units.FluidOunce},
		{"3 cloves garlic, minced", "garlic", 3, units.Clove},
		{"2-3 carrots", "carrots", 3, units.Piece},
		{"2 large eggs", "large eggs", 2, units.Piece},
		{"1 kg of potatoes", "potatoes", 1, units.Kilogram},
		{"- 1,5 l stock", "stock", 1.5, units.Liter},
		{"Fresh basil (a handful)", "Fresh basil", 1, units.Piece},
		{"Salt to taste", "Salt", 0, units.ToTaste},
		{"Salt and pepper, to taste", "Salt and pepper", 0, units.ToTaste},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredient(tt.line, units.Default())
			assert.Equal(t, tt.name, got.Name)
			assert.InDelta(t, tt.amount, got.Amount, 1e-9)
			assert.Equal(t, tt.unit, got.Unit)
		})
	}
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{"2": 2, "0.25": 0.25, "3/4": 0.75, "¼": 0.25, "1-2": 2} {
		got, ok := parseAmount(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, in := range []string{"", "-1", "a/2", "1/0", "NaN", "Inf", "cup"} {
		_, ok := parseAmount(in)
		assert.False(t, ok, in)
	}
}
