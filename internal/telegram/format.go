package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meal-grocer/internal/inventory"
	"meal-grocer/internal/metrics"
	"meal-grocer/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxListDays     = 31
	maxButtons      = 40
	callbackDateFmt = "20060102"
)

const usageText = `🛒 *Meal Grocer*

/list [days] - shopping list for your planned meals
/pantry - what you have at home
/expiring - items expiring in the next 3 days
/clear - uncheck every item`

var categoryIcons = map[shopping.Category]string{
	shopping.Produce: "🥕",
	shopping.Dairy:   "🧀",
	shopping.Pantry:  "🥫",
	shopping.Meat:    "🥩",
	shopping.Frozen:  "🧊",
	shopping.Spices:  "🌶",
	shopping.Other:   "🧺",
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func formatShoppingListMarkdown(list shopping.CategorizedList, from, to time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Shopping List* (%s → %s)\n", from.Format("Jan 2"), to.Format("Jan 2")))

	if list.TotalCount == 0 {
		sb.WriteString("\n_Nothing to buy. Either nothing is planned or your pantry has it all._")
		return sb.String()
	}

	for _, c := range shopping.Categories {
		items := list.Categories[c]
		if len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s *%s*\n", categoryIcons[c], c))
		for _, item := range items {
			mark := "▫️"
			if item.Purchased {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s - %s %s\n", mark, escape(item.Name), formatAmount(item.Amount), escape(string(item.Unit))))
		}
	}
	sb.WriteString(fmt.Sprintf("\n_%d item(s)_", list.TotalCount))
	return sb.String()
}

// listKeyboard returns one toggle button per item, or nil for an empty list.
func listKeyboard(list shopping.CategorizedList, from time.Time, days int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range list.Items() {
		if len(rows) == maxButtons {
			break
		}
		label := "☐ " + item.Name
		if item.Purchased {
			label = "☑ " + item.Name
		}
		data := toggleData{itemID: item.ID, purchased: !item.Purchased, from: from, days: days}.String()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// toggleData is packed into callback data, which Telegram caps at 64 bytes.
type toggleData struct {
	itemID    string
	purchased bool
	from      time.Time
	days      int
}

func (t toggleData) String() string {
	flag := "0"
	if t.purchased {
		flag = "1"
	}
	return strings.Join([]string{"t", t.itemID, flag, t.from.Format(callbackDateFmt), strconv.Itoa(t.days)}, "|")
}

func parseToggleData(data string) (toggleData, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 5 || parts[0] != "t" || parts[1] == "" {
		return toggleData{}, fmt.Errorf("unexpected callback data %q", data)
	}
	from, err := time.Parse(callbackDateFmt, parts[3])
	if err != nil {
		return toggleData{}, fmt.Errorf("invalid date in callback data: %w", err)
	}
	days, err := strconv.Atoi(parts[4])
	if err != nil || days < 1 || days > maxListDays {
		return toggleData{}, fmt.Errorf("invalid day count in callback data %q", data)
	}
	return toggleData{itemID: parts[1], purchased: parts[2] == "1", from: from, days: days}, nil
}

func formatPantryMarkdown(title string, items []inventory.Item, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	if len(items) == 0 {
		sb.WriteString("_Empty_")
		return sb.String()
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s - %s %s", escape(item.Name), formatAmount(item.Amount), escape(string(item.Unit))))
		if item.ExpiresAt != nil {
			if item.Expired(now) {
				sb.WriteString(fmt.Sprintf(" ⚠️ expired %s", item.ExpiresAt.Format("Jan 2")))
			} else {
				sb.WriteString(fmt.Sprintf(" (until %s)", item.ExpiresAt.Format("Jan 2")))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatMetricsMarkdown(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Lists*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d lists, %d items (avg %dms)\n", d.Date, d.Generations, d.TotalItems, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
