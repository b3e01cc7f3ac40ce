package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name string
		want Category
	}{
		{"ground ginger powder", Spices},
		{"Fresh ginger", Spices},
		{"smoked paprika", Spices},
		{"red onion", Produce},
		{"Bell pepper", Produce},
		{"eggplant", Produce},
		{"chicken thighs", Meat},
		{"salmon fillet", Meat},
		{"eggs", Dairy},
		{"Greek yogurt", Dairy},
		{"basmati rice", Pantry},
		{"olive oil", Pantry},
		{"frozen dumplings", Frozen},
		{"vanilla ice cream", Spices},
		{"dish soap", Other},
		{"", Other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Categorize(tt.name))
		})
	}
}

func TestDenied(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name string
		want bool
	}{
		{"water", true},
		{"Water", true},
		{"ice", true},
		{"ice cubes", false},
		{"cold water", false},
		{"salt to taste", true},
		{"pepper to taste", true},
		{"to taste", true},
		{"rice", false},
		{"watercress", false},
		{"sparkling water", false},
		{"juice", false},
		{"water,", true},
		{"Water.", true},
		{"(to taste)", true},
		{"ice-cold water", false},
		{"rice,", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Denied(tt.name))
		})
	}
}

func TestLoadRules(t *testing.T) {
	t.Run("CustomPriority", func(t *testing.T) {
		rules, err := LoadRules([]byte(`
categories:
  - name: Produce
    keywords: [ginger]
  - name: Spices
    keywords: [ginger, Cumin]
denylist: ["  Tap Water "]
length_slack: 0
`))
		require.NoError(t, err)
		assert.Equal(t, Produce, rules.Categorize("ginger root"))
		assert.Equal(t, Spices, rules.Categorize("cumin seeds"))
		assert.True(t, rules.Denied("tap water"))
		assert.True(t, rules.Denied("tap water!"))
		assert.False(t, rules.Denied("fresh tap water"))
	})

	t.Run("DefaultSlack", func(t *testing.T) {
		rules, err := LoadRules([]byte(`denylist: [ice]`))
		require.NoError(t, err)
		assert.True(t, rules.Denied("an ice"))
		assert.False(t, rules.Denied("dry ice"))
		assert.Equal(t, Other, rules.Categorize("anything"))
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := LoadRules([]byte(`categories: [{name: Bakery, keywords: [bread]}]`))
		assert.ErrorContains(t, err, "unknown category")
	})

	t.Run("OtherIsImplicit", func(t *testing.T) {
		_, err := LoadRules([]byte(`categories: [{name: Other, keywords: [x]}]`))
		assert.Error(t, err)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := LoadRules([]byte(`categories: [{name: Meat}, {name: Meat}]`))
		assert.ErrorContains(t, err, "listed twice")
	})

	t.Run("NegativeSlack", func(t *testing.T) {
		_, err := LoadRules([]byte(`length_slack: -1`))
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadRulesFile("does-not-exist.yaml")
		assert.Error(t, err)
	})
}
