package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"meal-grocer/internal/recipe"

	"github.com/rs/zerolog/log"
)

const unversioned = "unversioned"

// RecipeStore is a directory of versioned recipe files named <id>_<updatedAt>.json.
type RecipeStore struct {
	basePath string
}

// NewRecipeStore creates a new RecipeStore and ensures the base directory exists.
func NewRecipeStore(basePath string) (*RecipeStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &RecipeStore{basePath: basePath}, nil
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts string) string {
	if ts == "" {
		return unversioned
	}
	return strings.ReplaceAll(ts, ":", "-")
}

func (s *RecipeStore) versionedPath(recipeID, updatedAt string) string {
	filename := fmt.Sprintf("%s_%s.json", recipeID, sanitizeTimestamp(updatedAt))
	return filepath.Join(s.basePath, filename)
}

// Save writes rec to the file for its id and UpdatedAt version.
func (s *RecipeStore) Save(rec recipe.Recipe) error {
	if rec.ID == "" {
		return fmt.Errorf("failed to save recipe: id is required")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := os.WriteFile(s.versionedPath(rec.ID, rec.UpdatedAt), data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load retrieves a recipe from a specific version file.
func (s *RecipeStore) Load(recipeID, updatedAt string) (*recipe.Recipe, error) {
	return readRecipe(s.versionedPath(recipeID, updatedAt))
}

// Exists checks if a specific version of a recipe file exists.
func (s *RecipeStore) Exists(recipeID, updatedAt string) bool {
	_, err := os.Stat(s.versionedPath(recipeID, updatedAt))
	return !os.IsNotExist(err)
}

// RemoveStaleVersions removes all files associated with a recipeID.
// Call it before saving a new version so only the latest exists.
func (s *RecipeStore) RemoveStaleVersions(recipeID string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*.json", recipeID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}

// ListAll returns the newest version of every recipe in the store, ordered by id.
// Unreadable files are skipped with a warning.
func (s *RecipeStore) ListAll() ([]recipe.Recipe, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe files: %w", err)
	}

	latest := make(map[string]recipe.Recipe)
	for _, path := range matches {
		rec, err := readRecipe(path)
		if err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Skipping unreadable recipe file")
			continue
		}
		if rec.ID == "" {
			log.Warn().Str("file", filepath.Base(path)).Msg("Skipping recipe file without id")
			continue
		}
		if prev, ok := latest[rec.ID]; ok && prev.UpdatedAt >= rec.UpdatedAt {
			continue
		}
		latest[rec.ID] = *rec
	}

	recipes := make([]recipe.Recipe, 0, len(latest))
	for _, rec := range latest {
		recipes = append(recipes, rec)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

func readRecipe(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &rec, nil
}
