package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"meal-grocer/internal/recipe"
	"meal-grocer/internal/units"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoIngredients is returned when a page has no recognisable ingredient list.
var ErrNoIngredients = errors.New("no ingredient list found")

var (
	servingsPattern = regexp.MustCompile(`(?i)\b(?:serves|servings|yield|makes)\s*:?\s*(\d+)`)
	firstNumber     = regexp.MustCompile(`\d+`)
	slugDisallowed  = regexp.MustCompile(`[^a-z0-9]+`)
)

const headings = "h1, h2, h3, h4"

// Clipper turns recipe pages into structured recipes without any model in the loop.
// It prefers schema.org Recipe JSON-LD and falls back to "Ingredients" and
// "Instructions" headings followed by lists.
type Clipper struct {
	httpClient *http.Client
	units      *units.Table
}

// NewClipper creates a new Clipper. A nil table uses the default unit table.
func NewClipper(table *units.Table) *Clipper {
	if table == nil {
		table = units.Default()
	}
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		units:      table,
	}
}

// ClipURL fetches the page at url and extracts its recipe.
// The recipe id is a slug of the title.
func (c *Clipper) ClipURL(ctx context.Context, url string) (recipe.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return recipe.Recipe{}, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	rec, err := c.parse(resp.Body, "", "")
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to extract recipe from %s: %w", url, err)
	}
	rec.ID = Slug(rec.Title)
	if rec.ID == "" {
		return recipe.Recipe{}, fmt.Errorf("failed to extract recipe from %s: page has no title", url)
	}
	rec.Normalize()
	return rec, nil
}

// ParseHTML extracts a recipe from an HTML fragment such as a Ghost post body.
func (c *Clipper) ParseHTML(id, title, body string) (recipe.Recipe, error) {
	rec, err := c.parse(strings.NewReader(body), id, title)
	if err != nil {
		return recipe.Recipe{}, err
	}
	rec.Normalize()
	return rec, nil
}

func (c *Clipper) parse(r io.Reader, id, title string) (recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("failed to parse html: %w", err)
	}

	rec := recipe.Recipe{ID: id, Title: title}
	lines, steps, servings := c.fromJSONLD(doc, &rec)
	if len(lines) == 0 {
		// Remove noise before reading headings and body text.
		doc.Find("script, style, nav, footer, iframe, .ads, #ads").Remove()
		lines, steps = fromHeadings(doc)
		servings = parseServings(doc.Text())
	}
	if len(lines) == 0 {
		return recipe.Recipe{}, ErrNoIngredients
	}

	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	rec.Servings = servings
	rec.Instructions = steps
	for _, line := range lines {
		ing := ParseIngredient(line, c.units)
		if ing.Name == "" {
			continue
		}
		rec.Ingredients = append(rec.Ingredients, ing)
	}
	return rec, nil
}

func fromHeadings(doc *goquery.Document) (ingredients, steps []string) {
	doc.Find(headings).Each(func(_ int, h *goquery.Selection) {
		text := strings.ToLower(h.Text())
		switch {
		case ingredients == nil && strings.Contains(text, "ingredient"):
			ingredients = listAfter(h)
		case steps == nil && containsAny(text, "instruction", "method", "direction", "steps", "preparation"):
			steps = listAfter(h)
		}
	})
	return ingredients, steps
}

// listAfter collects list items between a heading and the next heading.
func listAfter(h *goquery.Selection) []string {
	section := h.NextUntil(headings)
	items := section.Find("li").AddSelection(section.Filter("li"))

	var out []string
	items.Each(func(_ int, li *goquery.Selection) {
		if text := collapse(li.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

type ldRecipe struct {
	Type         any               `json:"@type"`
	Name         string            `json:"name"`
	Yield        any               `json:"recipeYield"`
	Ingredients  []string          `json:"recipeIngredient"`
	Instructions any               `json:"recipeInstructions"`
	TotalTime    string            `json:"totalTime"`
	Graph        []json.RawMessage `json:"@graph"`
}

func (c *Clipper) fromJSONLD(doc *goquery.Document, rec *recipe.Recipe) (lines, steps []string, servings int) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		ld, ok := findLDRecipe([]byte(s.Text()))
		if !ok {
			return true
		}
		if rec.Title == "" {
			rec.Title = html.UnescapeString(ld.Name)
		}
		rec.PrepTime = ld.TotalTime
		lines = ld.Ingredients
		steps = instructionTexts(ld.Instructions)
		servings = yieldServings(ld.Yield)
		return false
	})
	return lines, steps, servings
}

func findLDRecipe(data []byte) (*ldRecipe, bool) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, false
	}

	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, false
		}
		for _, item := range list {
			if ld, ok := findLDRecipe(item); ok {
				return ld, true
			}
		}
		return nil, false
	}

	var ld ldRecipe
	if err := json.Unmarshal(data, &ld); err != nil {
		return nil, false
	}
	if isRecipeType(ld.Type) {
		return &ld, true
	}
	for _, item := range ld.Graph {
		if found, ok := findLDRecipe(item); ok {
			return found, true
		}
	}
	return nil, false
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// instructionTexts flattens HowToStep and HowToSection trees into plain steps.
func instructionTexts(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, line := range strings.Split(t, "\n") {
			if line = collapse(line); line != "" {
				out = append(out, line)
			}
		}
	case []any:
		for _, item := range t {
			out = append(out, instructionTexts(item)...)
		}
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			if text = collapse(text); text != "" {
				out = append(out, text)
			}
		} else if items, ok := t["itemListElement"]; ok {
			out = append(out, instructionTexts(items)...)
		}
	}
	return out
}

func yieldServings(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if m := firstNumber.FindString(t); m != "" {
			n, _ := strconv.Atoi(m)
			return n
		}
	case []any:
		for _, item := range t {
			if n := yieldServings(item); n > 0 {
				return n
			}
		}
	}
	return 0
}

func parseServings(text string) int {
	m := servingsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// FormatHTML renders a recipe as a post body that ParseHTML reads back.
func FormatHTML(rec recipe.Recipe, sourceURL string) string {
	var sb strings.Builder
	if sourceURL != "" {
		u := html.EscapeString(sourceURL)
		sb.WriteString(fmt.Sprintf("<p><i>Imported from: <a href=\"%s\">%s</a></i></p>", u, u))
	}

	sb.WriteString("<h2>Ingredients</h2><ul>")
	for _, ing := range rec.Ingredients {
		sb.WriteString("<li>" + html.EscapeString(ingredientLine(ing)) + "</li>")
	}
	sb.WriteString("</ul>")

	if len(rec.Instructions) > 0 {
		sb.WriteString("<h2>Instructions</h2><ol>")
		for _, step := range rec.Instructions {
			sb.WriteString("<li>" + html.EscapeString(step) + "</li>")
		}
		sb.WriteString("</ol>")
	}

	sb.WriteString("<hr>")
	sb.WriteString(fmt.Sprintf("<p><strong>Servings:</strong> %d", rec.Servings))
	if rec.PrepTime != "" {
		sb.WriteString(fmt.Sprintf(" | <strong>Prep Time:</strong> %s", html.EscapeString(rec.PrepTime)))
	}
	sb.WriteString("</p>")
	return sb.String()
}

func ingredientLine(ing recipe.Ingredient) string {
	amount := strconv.FormatFloat(ing.Amount, 'f', -1, 64)
	switch ing.Unit {
	case units.ToTaste:
		return ing.Name + " to taste"
	case units.Piece, "":
		return amount + " " + ing.Name
	default:
		return amount + " " + strings.ReplaceAll(string(ing.Unit), "_", " ") + " " + ing.Name
	}
}

// Slug derives a recipe id from a title, e.g. "Rice & Beans!" becomes "rice-beans".
func Slug(title string) string {
	return strings.Trim(slugDisallowed.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
