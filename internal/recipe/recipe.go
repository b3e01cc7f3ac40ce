package recipe

import (
	"fmt"
	"strings"

	"meal-grocer/internal/units"
)

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Amount float64    `json:"amount"`
	Unit   units.Unit `json:"unit"`
}

// Quantity returns the ingredient amount with its unit.
func (i Ingredient) Quantity() units.Quantity {
	return units.Quantity{Amount: i.Amount, Unit: i.Unit}
}

// Recipe represents a stored recipe with the number of servings its ingredients yield.
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	PrepTime     string       `json:"prep_time,omitempty"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

// Normalize canonicalises ingredient units and fills missing ingredient ids.
func (r *Recipe) Normalize() {
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Unit = units.Parse(string(ing.Unit))
		if ing.ID == "" {
			ing.ID = fmt.Sprintf("%s-%d", r.ID, i+1)
		}
	}
}

// Validate checks the fields the shopping list depends on.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("recipe id is required")
	}
	if r.Servings < 0 {
		return fmt.Errorf("recipe %s: servings must not be negative, got %d", r.ID, r.Servings)
	}
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("recipe %s: ingredient %s has no name", r.ID, ing.ID)
		}
		if ing.Amount < 0 {
			return fmt.Errorf("recipe %s: ingredient %q has a negative amount", r.ID, ing.Name)
		}
	}
	return nil
}
