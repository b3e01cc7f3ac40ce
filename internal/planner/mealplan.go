package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// PlanStatus represents the lifecycle state of a meal plan.
type PlanStatus string

const (
	StatusDraft PlanStatus = "DRAFT"
	StatusFinal PlanStatus = "FINAL"
)

// MealType tags a slot within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealSlot is one planned meal: which recipe, and for how many people.
type MealSlot struct {
	RecipeID    string   `json:"recipe_id"`
	RecipeTitle string   `json:"recipe_title,omitempty"`
	Servings    int      `json:"servings"`
	MealType    MealType `json:"meal_type"`
	Note        string   `json:"note,omitempty"`
}

// DayPlan represents the plan for a single day.
type DayPlan struct {
	Date  time.Time  `json:"-"`
	Day   string     `json:"day"`
	Meals []MealSlot `json:"meals"`
}

type dayPlanJSON struct {
	Date  string     `json:"date"`
	Day   string     `json:"day"`
	Meals []MealSlot `json:"meals"`
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (d DayPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayPlanJSON{
		Date:  d.Date.Format(dateLayout),
		Day:   d.Day,
		Meals: d.Meals,
	})
}

// UnmarshalJSON decodes a YYYY-MM-DD date and fills the weekday label when missing.
func (d *DayPlan) UnmarshalJSON(data []byte) error {
	var raw dayPlanJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("invalid day plan date %q: %w", raw.Date, err)
	}
	d.Date = date
	d.Day = raw.Day
	if d.Day == "" {
		d.Day = date.Weekday().String()
	}
	d.Meals = raw.Meals
	return nil
}

// Validate rejects slots the shopping list cannot use.
func (d DayPlan) Validate() error {
	if d.Date.IsZero() {
		return fmt.Errorf("day plan has no date")
	}
	for i, slot := range d.Meals {
		if slot.RecipeID == "" {
			return fmt.Errorf("%s slot %d: recipe id is required", d.Date.Format(dateLayout), i+1)
		}
		if slot.Servings < 0 {
			return fmt.Errorf("%s slot %d: servings must not be negative", d.Date.Format(dateLayout), i+1)
		}
		switch slot.MealType {
		case "", MealBreakfast, MealLunch, MealDinner, MealSnack:
		default:
			return fmt.Errorf("%s slot %d: unknown meal type %q", d.Date.Format(dateLayout), i+1, slot.MealType)
		}
	}
	return nil
}

// MealPlan represents a full weekly meal plan.
type MealPlan struct {
	ID        int64      `json:"id,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	WeekStart time.Time  `json:"week_start"`
	Status    PlanStatus `json:"status"`
	Days      []DayPlan  `json:"days"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// Validate checks every day of the plan.
func (p *MealPlan) Validate() error {
	if len(p.Days) == 0 {
		return fmt.Errorf("meal plan has no days")
	}
	for _, d := range p.Days {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
