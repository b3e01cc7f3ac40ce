package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Column widths are measured on visible width so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
