package clipper

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"meal-grocer/internal/recipe"
	"meal-grocer/internal/units"
)

var vulgarFractions = map[rune]float64{
	'½': 1.0 / 2,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'¼': 1.0 / 4,
	'¾': 3.0 / 4,
	'⅛': 1.0 / 8,
}

// attachedUnit matches an amount glued to its unit, as in "200g" or "1.5kg".
var attachedUnit = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)([a-zA-Z]+\.?)$`)

// ParseIngredient splits a free-text ingredient line such as "1 1/2 cups milk, warmed"
// into amount, unit and name. Lines without an amount count as one piece, except
// "... to taste" lines which carry no amount at all.
func ParseIngredient(line string, table *units.Table) recipe.Ingredient {
	fields := strings.Fields(strings.TrimLeft(strings.TrimSpace(line), "-•*·"))

	var amount float64
	var found bool
	unit := units.Piece
	i := 0

	if len(fields) > 0 {
		if a, ok := parseAmount(fields[0]); ok {
			amount, found, i = a, true, 1
			// Mixed numbers: "1 1/2", "2 ½".
			if i < len(fields) {
				if frac, ok := parseAmount(fields[i]); ok && frac < 1 {
					amount += frac
					i++
				}
			}
		} else if m := attachedUnit.FindStringSubmatch(fields[0]); m != nil && table.Known(m[2]) {
			a, _ := parseAmount(m[1])
			amount, found, unit, i = a, true, table.Parse(m[2]), 1
		}
	}

	if found && unit == units.Piece && i < len(fields) {
		if i+1 < len(fields) && table.Known(unitToken(fields[i]+" "+fields[i+1])) {
			unit = table.Parse(unitToken(fields[i] + " " + fields[i+1]))
			i += 2
		} else if table.Known(unitToken(fields[i])) {
			unit = table.Parse(unitToken(fields[i]))
			i++
		}
	}

	rest := strings.Join(fields[i:], " ")
	toTaste := !found && strings.HasSuffix(strings.ToLower(rest), "to taste")
	if toTaste {
		rest = rest[:len(rest)-len("to taste")]
	}

	name := strings.TrimPrefix(strings.TrimSpace(rest), "of ")
	if idx := strings.IndexAny(name, ",("); idx > 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)

	switch {
	case toTaste:
		return recipe.Ingredient{Name: name, Unit: units.ToTaste}
	case !found:
		amount = 1
	}
	return recipe.Ingredient{Name: name, Amount: amount, Unit: unit}
}

func unitToken(s string) string {
	return strings.TrimRight(s, ",;:")
}

// parseAmount reads "2", "1.5", "1,5", "1/2", "½", "1½" and ranges like "2-3",
// of which the upper bound is used.
func parseAmount(tok string) (float64, bool) {
	if tok == "" {
		return 0, false
	}

	if lo, hi, ok := strings.Cut(tok, "-"); ok && lo != "" {
		if _, ok := parseAmount(lo); !ok {
			return 0, false
		}
		return parseAmount(hi)
	}

	if r, size := utf8.DecodeLastRuneInString(tok); vulgarFractions[r] > 0 {
		head := tok[:len(tok)-size]
		if head == "" {
			return vulgarFractions[r], true
		}
		n, ok := parseAmount(head)
		if !ok {
			return 0, false
		}
		return n + vulgarFractions[r], true
	}

	if num, den, ok := strings.Cut(tok, "/"); ok {
		n, err1 := strconv.Atoi(num)
		d, err2 := strconv.Atoi(den)
		if err1 != nil || err2 != nil || d == 0 || n < 0 {
			return 0, false
		}
		return float64(n) / float64(d), true
	}

	n, err := strconv.ParseFloat(strings.Replace(tok, ",", ".", 1), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
