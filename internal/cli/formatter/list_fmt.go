package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meal-grocer/internal/inventory"
	"meal-grocer/internal/metrics"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/shopping"
)

// Amount formats a quantity amount without trailing zeros.
func Amount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// FormatShoppingList renders a categorized list grouped under category headings.
// Empty categories are omitted; purchased items are dimmed and checked.
func FormatShoppingList(list shopping.CategorizedList, from, to time.Time) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("SHOPPING LIST  %s → %s", from.Format("Mon Jan 2"), to.Format("Mon Jan 2"))))
	b.WriteString("\n")

	if list.TotalCount == 0 {
		b.WriteString("\n" + StyleDim.Render("Nothing to buy.") + "\n")
		return b.String()
	}

	for _, cat := range shopping.Categories {
		items := list.Categories[cat]
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n" + CategoryStyle(cat).Render(string(cat)) + "\n")
		for _, item := range items {
			qty := Amount(item.Amount) + " " + string(item.Unit)
			if item.Purchased {
				b.WriteString("  " + StyleGreen.Render("[x]") + " " + StyleDim.Render(item.Name+" "+qty) + "\n")
				continue
			}
			b.WriteString(fmt.Sprintf("  [ ] %s %s  %s\n", item.Name, StyleDim.Render(qty), StyleDim.Render(shortID(item.ID))))
		}
	}

	b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("%d item(s)", list.TotalCount)) + "\n")
	return b.String()
}

// FormatPantry renders stock as a table, flagging expired items.
func FormatPantry(items []inventory.Item, now time.Time) string {
	if len(items) == 0 {
		return StyleDim.Render("Pantry is empty.") + "\n"
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		expires := StyleDim.Render("-")
		if it.ExpiresAt != nil {
			expires = it.ExpiresAt.Format("2006-01-02")
			if it.Expired(now) {
				expires = StyleRed.Render(expires + " expired")
			}
		}
		rows = append(rows, []string{shortID(it.ID), it.Name, Amount(it.Amount), string(it.Unit), expires})
	}
	return RenderTable([]string{"ID", "NAME", "AMOUNT", "UNIT", "EXPIRES"}, rows)
}

// FormatDailyUsage renders the per-day generation summary.
func FormatDailyUsage(usage []metrics.DailyUsage) string {
	if len(usage) == 0 {
		return StyleDim.Render("No lists generated yet.") + "\n"
	}
	rows := make([][]string, 0, len(usage))
	for _, u := range usage {
		rows = append(rows, []string{
			u.Date,
			strconv.Itoa(u.Generations),
			strconv.Itoa(u.TotalItems),
			strconv.FormatInt(u.AvgLatencyMS, 10),
		})
	}
	return RenderTable([]string{"DATE", "LISTS", "ITEMS", "AVG MS"}, rows)
}

// FormatPlans renders saved meal plans as a table.
func FormatPlans(plans []planner.MealPlan) string {
	if len(plans) == 0 {
		return StyleDim.Render("No meal plans saved.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		meals := 0
		for _, d := range p.Days {
			meals += len(d.Meals)
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.WeekStart.Format(time.DateOnly),
			string(p.Status),
			strconv.Itoa(len(p.Days)),
			strconv.Itoa(meals),
		})
	}
	return RenderTable([]string{"ID", "WEEK", "STATUS", "DAYS", "MEALS"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
