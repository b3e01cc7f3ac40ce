package shopping

import (
	"regexp"

	"meal-grocer/internal/inventory"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/units"
)

// Stats describes one generation run.
type Stats struct {
	Slots        int
	SkippedSlots int
	Demands      int
	Covered      int
	Filtered     int
	Items        int
}

// Generator builds shopping lists from meal plans, recipes and pantry stock.
// It holds no per-run state and is safe for concurrent use.
type Generator struct {
	rules      *Rules
	units      *units.Table
	leadingQty *regexp.Regexp
}

// NewGenerator creates a Generator. Nil arguments fall back to the built-in tables.
func NewGenerator(rules *Rules, table *units.Table) *Generator {
	if rules == nil {
		rules = DefaultRules()
	}
	if table == nil {
		table = units.Default()
	}
	return &Generator{rules: rules, units: table, leadingQty: leadingQuantityPattern(table)}
}

var defaultGenerator = NewGenerator(nil, nil)

// Generate builds a list with the built-in tables.
func Generate(days []planner.DayPlan, recipes RecipeLookup, stock []inventory.Item, requesterID string) CategorizedList {
	return defaultGenerator.Generate(days, recipes, stock, requesterID)
}

// Generate returns what must be bought for days after subtracting stock.
// requesterID only feeds the item ids.
func (g *Generator) Generate(days []planner.DayPlan, recipes RecipeLookup, stock []inventory.Item, requesterID string) CategorizedList {
	list, _ := g.Run(days, recipes, stock, requesterID)
	return list
}

// Run is Generate with run statistics.
func (g *Generator) Run(days []planner.DayPlan, recipes RecipeLookup, stock []inventory.Item, requesterID string) (CategorizedList, Stats) {
	var stats Stats
	for _, d := range days {
		stats.Slots += len(d.Meals)
	}

	demands, skipped := Aggregate(days, recipes, g.units)
	stats.SkippedSlots = skipped
	stats.Demands = len(demands)

	netter := NewNetter(stock, g.units)
	asm := &assembler{rules: g.rules, leadingQty: g.leadingQty, requesterID: requesterID}

	var items []ShoppingListItem
	for _, d := range demands.Sorted() {
		residual := netter.Net(d)
		if residual <= residualEpsilon {
			stats.Covered++
			continue
		}
		item, ok := asm.item(d, residual)
		if !ok {
			stats.Filtered++
			continue
		}
		items = append(items, item)
	}

	list := group(items)
	stats.Items = list.TotalCount
	return list, stats
}
