package units

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var defaultTableYAML []byte

// ErrIncompatibleUnits is returned when two units do not share a convertible family.
var ErrIncompatibleUnits = errors.New("incompatible unit families")

// Unit is a canonical unit tag such as "g", "cup" or "piece".
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	Cup        Unit = "cup"
	FluidOunce Unit = "fl_oz"
	Pint       Unit = "pint"
	Quart      Unit = "quart"
	Gallon     Unit = "gallon"
	Piece      Unit = "piece"
	Slice      Unit = "slice"
	Pinch      Unit = "pinch"
	Clove      Unit = "clove"
	ToTaste    Unit = "to_taste"
)

// Family is the physical dimension a unit belongs to.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

// Quantity is an amount expressed in a unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
}

type unitDef struct {
	family Family
	toBase float64
}

// Table holds the conversion rates and aliases used to canonicalise and convert units.
type Table struct {
	defs    map[Unit]unitDef
	aliases map[string]Unit
}

type tableFile struct {
	Families map[string]map[string]float64 `yaml:"families"`
	Count    []string                      `yaml:"count"`
	Aliases  map[string]string             `yaml:"aliases"`
}

var defaultTable = mustLoad(defaultTableYAML)

// Default returns the built-in metric/imperial table.
func Default() *Table {
	return defaultTable
}

// LoadTable parses a YAML unit table.
func LoadTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse unit table: %w", err)
	}

	t := &Table{
		defs:    make(map[Unit]unitDef),
		aliases: make(map[string]Unit),
	}

	for name, rates := range f.Families {
		family := Family(name)
		if family != FamilyMass && family != FamilyVolume {
			return nil, fmt.Errorf("unknown unit family %q", name)
		}
		for u, rate := range rates {
			if rate <= 0 {
				return nil, fmt.Errorf("unit %q must have a positive rate, got %v", u, rate)
			}
			t.defs[Unit(u)] = unitDef{family: family, toBase: rate}
		}
	}
	for _, u := range f.Count {
		if _, exists := t.defs[Unit(u)]; exists {
			return nil, fmt.Errorf("unit %q is listed in more than one family", u)
		}
		t.defs[Unit(u)] = unitDef{family: FamilyCount}
	}
	for alias, target := range f.Aliases {
		if _, ok := t.defs[Unit(target)]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown unit %q", alias, target)
		}
		t.aliases[strings.ToLower(alias)] = Unit(target)
	}

	return t, nil
}

// LoadTableFile reads a YAML unit table from disk.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit table %s: %w", path, err)
	}
	return LoadTable(data)
}

func mustLoad(data []byte) *Table {
	t, err := LoadTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse canonicalises a free-form unit string. An empty string means a plain count.
// Unknown units are kept lowercased and behave as count units.
func (t *Table) Parse(s string) Unit {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if key == "" {
		return Piece
	}
	if u, ok := t.aliases[key]; ok {
		return u
	}
	return Unit(key)
}

// Known reports whether s names a unit or alias in the table.
func (t *Table) Known(s string) bool {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if _, ok := t.aliases[key]; ok {
		return true
	}
	_, ok := t.defs[Unit(strings.ReplaceAll(key, " ", "_"))]
	return ok
}

// Family reports the family of u. Unknown units are count units.
func (t *Table) Family(u Unit) Family {
	def, ok := t.defs[u]
	if !ok {
		return FamilyCount
	}
	return def.family
}

// Convert converts amount from one unit to another through the family's base unit.
// Units from different families, or count units that differ, yield ErrIncompatibleUnits.
func (t *Table) Convert(amount float64, from, to Unit) (float64, error) {
	if from == to {
		return amount, nil
	}

	src, ok := t.defs[from]
	if !ok || src.family == FamilyCount {
		return 0, fmt.Errorf("convert %s to %s: %w", from, to, ErrIncompatibleUnits)
	}
	dst, ok := t.defs[to]
	if !ok || dst.family != src.family {
		return 0, fmt.Errorf("convert %s to %s: %w", from, to, ErrIncompatibleUnits)
	}

	base := amount * src.toBase
	return base / dst.toBase, nil
}

// Names returns every unit tag and alias the table recognises, longest first.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.defs)+len(t.aliases))
	for u := range t.defs {
		names = append(names, strings.ReplaceAll(string(u), "_", " "))
	}
	for alias := range t.aliases {
		names = append(names, alias)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Parse canonicalises s using the default table.
func Parse(s string) Unit {
	return defaultTable.Parse(s)
}

// Convert converts amount using the default table.
func Convert(amount float64, from, to Unit) (float64, error) {
	return defaultTable.Convert(amount, from, to)
}
