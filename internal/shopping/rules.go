package shopping

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultRulesYAML []byte

type categoryRule struct {
	category Category
	keywords []string
}

// Rules holds the ordered category keyword table and the denylist.
type Rules struct {
	categories  []categoryRule
	denylist    []string
	lengthSlack int
}

type rulesFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
	Denylist    []string `yaml:"denylist"`
	LengthSlack *int     `yaml:"length_slack"`
}

var defaultRules = mustLoadRules(defaultRulesYAML)

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	return defaultRules
}

// LoadRules parses a YAML rule table. The order of the categories list is the match priority.
func LoadRules(data []byte) (*Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse shopping rules: %w", err)
	}

	known := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		known[c] = true
	}

	r := &Rules{lengthSlack: 3}
	seen := make(map[Category]bool)
	for _, c := range f.Categories {
		cat := Category(c.Name)
		if !known[cat] || cat == Other {
			return nil, fmt.Errorf("unknown category %q in shopping rules", c.Name)
		}
		if seen[cat] {
			return nil, fmt.Errorf("category %q is listed twice in shopping rules", c.Name)
		}
		seen[cat] = true

		rule := categoryRule{category: cat}
		for _, kw := range c.Keywords {
			if kw = NormalizeName(kw); kw != "" {
				rule.keywords = append(rule.keywords, kw)
			}
		}
		r.categories = append(r.categories, rule)
	}

	for _, phrase := range f.Denylist {
		if phrase = denyWords(phrase); phrase != "" {
			r.denylist = append(r.denylist, phrase)
		}
	}
	if f.LengthSlack != nil {
		if *f.LengthSlack < 0 {
			return nil, fmt.Errorf("length_slack must not be negative, got %d", *f.LengthSlack)
		}
		r.lengthSlack = *f.LengthSlack
	}
	return r, nil
}

// LoadRulesFile reads a YAML rule table from disk.
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shopping rules %s: %w", path, err)
	}
	return LoadRules(data)
}

func mustLoadRules(data []byte) *Rules {
	r, err := LoadRules(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Categorize returns the first category, in priority order, with a keyword contained in name.
func (r *Rules) Categorize(name string) Category {
	n := strings.ToLower(name)
	for _, rule := range r.categories {
		for _, kw := range rule.keywords {
			if strings.Contains(n, kw) {
				return rule.category
			}
		}
	}
	return Other
}

// Denied reports whether name is a non-purchasable placeholder such as "water".
// The phrase must appear as whole words and the name may only be slightly longer.
// Punctuation separates words like spaces do.
func (r *Rules) Denied(name string) bool {
	n := denyWords(name)
	padded := " " + n + " "
	for _, phrase := range r.denylist {
		if !strings.Contains(padded, " "+phrase+" ") {
			continue
		}
		if len(n)-len(phrase) <= r.lengthSlack {
			return true
		}
	}
	return false
}

func denyWords(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}
