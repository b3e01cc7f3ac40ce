package shopping

import (
	"meal-grocer/internal/inventory"
	"meal-grocer/internal/units"
)

// residualEpsilon absorbs float noise left over after subtracting stock.
const residualEpsilon = 1e-9

type stockEntry struct {
	amount float64
	unit   units.Unit
}

// Netter subtracts pantry stock from demands. It works on its own copy of the
// stock, so spending stock on one demand leaves less for the next, while the
// caller's inventory slice is never modified.
type Netter struct {
	table *units.Table
	stock map[string]*stockEntry
}

// NewNetter builds a working copy of items. When two items share a name the
// first one is used. Negative amounts count as empty.
func NewNetter(items []inventory.Item, table *units.Table) *Netter {
	n := &Netter{table: table, stock: make(map[string]*stockEntry, len(items))}
	for _, item := range items {
		name := NormalizeName(item.Name)
		if name == "" {
			continue
		}
		if _, exists := n.stock[name]; exists {
			continue
		}
		amount := item.Amount
		if amount < 0 {
			amount = 0
		}
		n.stock[name] = &stockEntry{amount: amount, unit: table.Parse(string(item.Unit))}
	}
	return n
}

// Net returns the amount of d still to buy, in the demand's unit.
func (n *Netter) Net(d Demand) float64 {
	s, ok := n.stock[d.Key.Name]
	if !ok {
		return d.Amount
	}

	if s.unit == d.Key.Unit {
		if s.amount >= d.Amount {
			s.amount -= d.Amount
			return 0
		}
		residual := d.Amount - s.amount
		s.amount = 0
		return residual
	}

	needed, err := n.table.Convert(d.Amount, d.Key.Unit, s.unit)
	if err != nil {
		return d.Amount
	}
	if s.amount >= needed {
		s.amount -= needed
		return 0
	}
	available, err := n.table.Convert(s.amount, s.unit, d.Key.Unit)
	if err != nil {
		return d.Amount
	}
	s.amount = 0
	residual := d.Amount - available
	if residual < residualEpsilon {
		return 0
	}
	return residual
}

// Remaining reports the tracked stock left for name.
func (n *Netter) Remaining(name string) (units.Quantity, bool) {
	s, ok := n.stock[NormalizeName(name)]
	if !ok {
		return units.Quantity{}, false
	}
	return units.Quantity{Amount: s.amount, Unit: s.unit}, true
}
