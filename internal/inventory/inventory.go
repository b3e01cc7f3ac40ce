package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-grocer/internal/units"
)

// ErrNotFound is returned when an inventory item does not exist.
var ErrNotFound = errors.New("inventory item not found")

// Item is a pantry stock record owned by a household.
type Item struct {
	ID          string     `json:"id"`
	HouseholdID string     `json:"household_id"`
	Name        string     `json:"name"`
	Amount      float64    `json:"amount"`
	Unit        units.Unit `json:"unit"`
	Category    string     `json:"category,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Quantity returns the stocked amount with its unit.
func (i Item) Quantity() units.Quantity {
	return units.Quantity{Amount: i.Amount, Unit: i.Unit}
}

// Expired reports whether the item expired before now.
func (i Item) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// Validate checks the fields required to store an item.
func (i Item) Validate() error {
	if strings.TrimSpace(i.HouseholdID) == "" {
		return fmt.Errorf("household id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("item name is required")
	}
	if i.Amount < 0 {
		return fmt.Errorf("item %q: amount must not be negative", i.Name)
	}
	return nil
}
