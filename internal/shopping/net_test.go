package shopping

import (
	"testing"

	"meal-grocer/internal/inventory"
	"meal-grocer/internal/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demand(name string, amount float64, unit units.Unit) Demand {
	return Demand{Key: DemandKey{Name: name, Unit: unit}, Amount: amount}
}

func TestNetter(t *testing.T) {
	table := units.Default()

	t.Run("NoStock", func(t *testing.T) {
		n := NewNetter(nil, table)
		assert.Equal(t, 500.0, n.Net(demand("flour", 500, units.Gram)))
	})

	t.Run("SameUnit", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("Flour", 200, units.Gram)}, table)
		assert.InDelta(t, 300, n.Net(demand("flour", 500, units.Gram)), 1e-9)

		left, ok := n.Remaining("flour")
		require.True(t, ok)
		assert.Zero(t, left.Amount)
	})

	t.Run("SameUnitFullyCovered", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("flour", 800, units.Gram)}, table)
		assert.Zero(t, n.Net(demand("flour", 500, units.Gram)))
		left, _ := n.Remaining("flour")
		assert.InDelta(t, 300, left.Amount, 1e-9)
	})

	t.Run("CrossUnitCovered", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("milk", 1000, units.Milliliter)}, table)
		assert.Zero(t, n.Net(demand("milk", 2, units.Cup)))

		left, _ := n.Remaining("milk")
		assert.Equal(t, units.Milliliter, left.Unit)
		assert.InDelta(t, 526.824, left.Amount, 1e-6)
	})

	t.Run("CrossUnitPartial", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("milk", 236.588, units.Milliliter)}, table)
		assert.InDelta(t, 1, n.Net(demand("milk", 2, units.Cup)), 1e-9)

		left, _ := n.Remaining("milk")
		assert.Zero(t, left.Amount)
	})

	t.Run("IncompatibleFamilies", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("egg", 500, units.Gram)}, table)
		assert.Equal(t, 3.0, n.Net(demand("egg", 3, units.Piece)))

		left, _ := n.Remaining("egg")
		assert.Equal(t, 500.0, left.Amount, "stock is untouched when no credit is given")
	})

	t.Run("StockIsSharedAcrossDemands", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("sugar", 1, units.Kilogram)}, table)
		assert.Zero(t, n.Net(demand("sugar", 600, units.Gram)))
		assert.InDelta(t, 0.1, n.Net(demand("sugar", 0.5, units.Kilogram)), 1e-9)
		assert.Equal(t, 200.0, n.Net(demand("sugar", 200, units.Gram)))
	})

	t.Run("FirstMatchWins", func(t *testing.T) {
		n := NewNetter([]inventory.Item{
			stockItem("butter", 100, units.Gram),
			stockItem("Butter", 900, units.Gram),
		}, table)
		assert.InDelta(t, 150, n.Net(demand("butter", 250, units.Gram)), 1e-9)
	})

	t.Run("NegativeStockIsEmpty", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("oats", -50, units.Gram)}, table)
		assert.Equal(t, 100.0, n.Net(demand("oats", 100, units.Gram)))
	})

	t.Run("CallerItemsUnchanged", func(t *testing.T) {
		items := []inventory.Item{stockItem("rice", 100, units.Gram)}
		n := NewNetter(items, table)
		n.Net(demand("rice", 400, units.Gram))
		assert.Equal(t, 100.0, items[0].Amount)
	})

	t.Run("UnparsedStockUnit", func(t *testing.T) {
		n := NewNetter([]inventory.Item{stockItem("cream", 1, units.Unit("Cups"))}, table)
		assert.Zero(t, n.Net(demand("cream", 100, units.Milliliter)))
	})
}
