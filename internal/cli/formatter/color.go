package formatter

import (
	"meal-grocer/internal/shopping"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle returns the heading style for a shopping category.
func CategoryStyle(c shopping.Category) lipgloss.Style {
	switch c {
	case shopping.Produce:
		return StyleGreen.Bold(true)
	case shopping.Dairy, shopping.Frozen:
		return lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	case shopping.Meat:
		return StyleRed.Bold(true)
	case shopping.Spices:
		return lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)
	case shopping.Pantry:
		return StyleYellow.Bold(true)
	default:
		return StyleBold
	}
}
