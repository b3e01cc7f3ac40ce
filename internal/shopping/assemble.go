package shopping

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"meal-grocer/internal/units"

	"github.com/google/uuid"
)

var itemNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("meal-grocer.shopping-item"))

// quantityPattern matches 2, 1.5, 1/2, 1 1/2, 1½, ½ and ranges such as 2-3.
const quantityPattern = `(?:\d+(?:\s+\d+/\d+|[.,/]\d+|\s*[½¼¾⅓⅔⅛])?|[½¼¾⅓⅔⅛])(?:\s*-\s*\d+(?:[.,/]\d+)?)?`

// leadingQuantityPattern matches a "2 cups " style prefix built from the unit table's names.
func leadingQuantityPattern(table *units.Table) *regexp.Regexp {
	names := table.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	unitAlt := strings.Join(quoted, "|")
	return regexp.MustCompile(`^\s*` + quantityPattern + `(?:\s*(?:` + unitAlt + `)\.?)?\s+(?:of\s+)?`)
}

type assembler struct {
	rules       *Rules
	leadingQty  *regexp.Regexp
	requesterID string
}

// cleanName strips a leaked quantity prefix and capitalizes the first letter.
func (a *assembler) cleanName(name string) string {
	cleaned := strings.TrimSpace(a.leadingQty.ReplaceAllString(name, ""))
	if cleaned == "" {
		cleaned = name
	}
	r, size := utf8.DecodeRuneInString(cleaned)
	return string(unicode.ToUpper(r)) + cleaned[size:]
}

// item turns a netted demand into a list line. ok is false when the demand is dropped.
func (a *assembler) item(d Demand, residual float64) (ShoppingListItem, bool) {
	if residual <= residualEpsilon {
		return ShoppingListItem{}, false
	}
	display := a.cleanName(d.Key.Name)
	if a.rules.Denied(d.Key.Name) || a.rules.Denied(display) {
		return ShoppingListItem{}, false
	}

	category := a.rules.Categorize(display)
	return ShoppingListItem{
		ID:       StableID(d.Key, category, a.requesterID),
		Name:     display,
		Amount:   RoundUp(residual),
		Unit:     d.Key.Unit,
		Category: category,
	}, true
}

// StableID derives the item id from its aggregation key, category and requester.
func StableID(key DemandKey, category Category, requesterID string) string {
	composite := strings.Join([]string{key.Name, string(key.Unit), string(category), requesterID}, "\x1f")
	return uuid.NewSHA1(itemNamespace, []byte(composite)).String()
}

// RoundUp rounds x up to two decimal places.
func RoundUp(x float64) float64 {
	r := math.Ceil(x*100-1e-9) / 100
	if r <= 0 {
		return 0
	}
	return r
}

func group(items []ShoppingListItem) CategorizedList {
	list := NewCategorizedList()
	for _, item := range items {
		list.Categories[item.Category] = append(list.Categories[item.Category], item)
	}
	for _, c := range Categories {
		bucket := list.Categories[c]
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Name != bucket[j].Name {
				return bucket[i].Name < bucket[j].Name
			}
			if bucket[i].Unit != bucket[j].Unit {
				return bucket[i].Unit < bucket[j].Unit
			}
			return bucket[i].ID < bucket[j].ID
		})
	}
	list.TotalCount = len(items)
	return list
}
