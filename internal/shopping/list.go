package shopping

import (
	"strings"

	"meal-grocer/internal/recipe"
	"meal-grocer/internal/units"
)

// Category is a store shelf bucket.
type Category string

const (
	Produce Category = "Produce"
	Dairy   Category = "Dairy"
	Pantry  Category = "Pantry"
	Meat    Category = "Meat"
	Frozen  Category = "Frozen"
	Spices  Category = "Spices"
	Other   Category = "Other"
)

// Categories lists every bucket in display order.
var Categories = []Category{Produce, Dairy, Pantry, Meat, Frozen, Spices, Other}

// ShoppingListItem is one line of the generated list.
type ShoppingListItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Amount    float64    `json:"amount"`
	Unit      units.Unit `json:"unit"`
	Category  Category   `json:"category"`
	Purchased bool       `json:"purchased"`
}

// CategorizedList groups list items by category. Every category key is present.
type CategorizedList struct {
	Categories map[Category][]ShoppingListItem `json:"categories"`
	TotalCount int                             `json:"total_count"`
}

// NewCategorizedList returns a list with an empty bucket for every category.
func NewCategorizedList() CategorizedList {
	l := CategorizedList{Categories: make(map[Category][]ShoppingListItem, len(Categories))}
	for _, c := range Categories {
		l.Categories[c] = []ShoppingListItem{}
	}
	return l
}

// Items returns all items in display order.
func (l CategorizedList) Items() []ShoppingListItem {
	items := make([]ShoppingListItem, 0, l.TotalCount)
	for _, c := range Categories {
		items = append(items, l.Categories[c]...)
	}
	return items
}

// ApplyPurchased sets the purchased flag on every item whose id is marked.
func (l CategorizedList) ApplyPurchased(marks map[string]bool) {
	for _, c := range Categories {
		for i := range l.Categories[c] {
			item := &l.Categories[c][i]
			item.Purchased = marks[item.ID]
		}
	}
}

// DemandKey identifies an aggregated ingredient requirement.
type DemandKey struct {
	Name string
	Unit units.Unit
}

// Demand is the total amount of one ingredient needed across the planned meals.
type Demand struct {
	Key    DemandKey
	Amount float64
}

// RecipeLookup resolves a recipe by id.
type RecipeLookup interface {
	Recipe(id string) (recipe.Recipe, bool)
}

// RecipeIndex is an in-memory RecipeLookup.
type RecipeIndex map[string]recipe.Recipe

// IndexRecipes builds a RecipeIndex keyed by recipe id.
func IndexRecipes(recipes []recipe.Recipe) RecipeIndex {
	idx := make(RecipeIndex, len(recipes))
	for _, r := range recipes {
		idx[r.ID] = r
	}
	return idx
}

// Recipe implements RecipeLookup.
func (idx RecipeIndex) Recipe(id string) (recipe.Recipe, bool) {
	r, ok := idx[id]
	return r, ok
}

// NormalizeName lowercases a name and collapses its whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
