package shopping

import (
	"sort"

	"meal-grocer/internal/planner"
	"meal-grocer/internal/units"
)

// Demands maps an aggregation key to the running total amount.
type Demands map[DemandKey]float64

// Sorted returns the demands ordered by name, then unit.
func (d Demands) Sorted() []Demand {
	out := make([]Demand, 0, len(d))
	for k, amount := range d {
		out = append(out, Demand{Key: k, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Name != out[j].Key.Name {
			return out[i].Key.Name < out[j].Key.Name
		}
		return out[i].Key.Unit < out[j].Key.Unit
	})
	return out
}

// Aggregate sums the scaled ingredient amounts of every planned slot.
// Slots whose recipe cannot be resolved are skipped and counted in skipped.
// Ingredients with the same name but different units stay separate.
func Aggregate(days []planner.DayPlan, recipes RecipeLookup, table *units.Table) (demands Demands, skipped int) {
	demands = make(Demands)
	for _, day := range days {
		for _, slot := range day.Meals {
			r, ok := recipes.Recipe(slot.RecipeID)
			if !ok {
				skipped++
				continue
			}
			factor := scaleFactor(slot.Servings, r.Servings)
			for _, ing := range r.Ingredients {
				name := NormalizeName(ing.Name)
				if name == "" {
					continue
				}
				key := DemandKey{Name: name, Unit: table.Parse(string(ing.Unit))}
				demands[key] += ing.Amount * factor
			}
		}
	}
	return demands, skipped
}

// scaleFactor is target/base servings. A missing count on either side means the recipe is used as written.
func scaleFactor(target, base int) float64 {
	if target <= 0 || base <= 0 {
		return 1
	}
	return float64(target) / float64(base)
}
