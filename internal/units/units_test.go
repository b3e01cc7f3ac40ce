package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Run("CupToMilliliter", func(t *testing.T) {
		got, err := Convert(1, Cup, Milliliter)
		require.NoError(t, err)
		assert.InDelta(t, 236.588, got, 1e-9)
	})

	t.Run("KilogramToGram", func(t *testing.T) {
		got, err := Convert(1, Kilogram, Gram)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, got)
	})

	t.Run("PoundToOunce", func(t *testing.T) {
		got, err := Convert(1, Pound, Ounce)
		require.NoError(t, err)
		assert.InDelta(t, 16.0, got, 0.001)
	})

	t.Run("SameUnitIsUnchanged", func(t *testing.T) {
		got, err := Convert(0.1, Tablespoon, Tablespoon)
		require.NoError(t, err)
		assert.Equal(t, 0.1, got)
	})

	t.Run("SameCountUnitIsUnchanged", func(t *testing.T) {
		got, err := Convert(3, Piece, Piece)
		require.NoError(t, err)
		assert.Equal(t, 3.0, got)
	})

	t.Run("MassToVolumeFails", func(t *testing.T) {
		got, err := Convert(1, Cup, Gram)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIncompatibleUnits))
		assert.Zero(t, got)
	})

	t.Run("CountToMassFails", func(t *testing.T) {
		_, err := Convert(3, Piece, Gram)
		assert.ErrorIs(t, err, ErrIncompatibleUnits)
	})

	t.Run("UnknownUnitFails", func(t *testing.T) {
		_, err := Convert(1, Unit("handfuls-ish"), Gram)
		assert.ErrorIs(t, err, ErrIncompatibleUnits)
	})

	t.Run("LegitimateZeroIsNotAFailure", func(t *testing.T) {
		got, err := Convert(0, Liter, Milliliter)
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Unit
	}{
		{"g", Gram},
		{"Grams", Gram},
		{" cups ", Cup},
		{"Tbsp.", Tablespoon},
		{"fl oz", FluidOunce},
		{"to taste", ToTaste},
		{"", Piece},
		{"Sachet", Unit("sachet")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestFamily(t *testing.T) {
	table := Default()
	assert.Equal(t, FamilyMass, table.Family(Ounce))
	assert.Equal(t, FamilyVolume, table.Family(Gallon))
	assert.Equal(t, FamilyCount, table.Family(Clove))
	assert.Equal(t, FamilyCount, table.Family(Unit("sachet")))
}

func TestLoadTable(t *testing.T) {
	t.Run("Custom", func(t *testing.T) {
		table, err := LoadTable([]byte(`
families:
  mass:
    g: 1
    stone: 6350.29
aliases:
  st: stone
`))
		require.NoError(t, err)
		got, err := table.Convert(1, table.Parse("st"), Gram)
		require.NoError(t, err)
		assert.InDelta(t, 6350.29, got, 1e-9)
	})

	t.Run("UnknownFamily", func(t *testing.T) {
		_, err := LoadTable([]byte("families:\n  energy:\n    kcal: 1\n"))
		assert.ErrorContains(t, err, "unknown unit family")
	})

	t.Run("NonPositiveRate", func(t *testing.T) {
		_, err := LoadTable([]byte("families:\n  mass:\n    g: 0\n"))
		assert.ErrorContains(t, err, "positive rate")
	})

	t.Run("DanglingAlias", func(t *testing.T) {
		_, err := LoadTable([]byte("families:\n  mass:\n    g: 1\naliases:\n  cups: cup\n"))
		assert.ErrorContains(t, err, "unknown unit")
	})
}

func TestNames(t *testing.T) {
	names := Default().Names()
	assert.Contains(t, names, "cups")
	assert.Contains(t, names, "fl oz")
	assert.Contains(t, names, "g")
	for i := 1; i < len(names); i++ {
		assert.GreaterOrEqual(t, len(names[i-1]), len(names[i]))
	}
}

func TestKnown(t *testing.T) {
	table := Default()
	for _, s := range []string{"g", "Grams", "tbsp.", "fl oz", "to taste", "clove"} {
		assert.True(t, table.Known(s), s)
	}
	for _, s := range []string{"", "large", "sachet", "onion"} {
		assert.False(t, table.Known(s), s)
	}
}
