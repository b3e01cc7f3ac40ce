package storage

import (
	"os"
	"path/filepath"
	"testing"

	"meal-grocer/internal/recipe"
	"meal-grocer/internal/units"
)

func TestRecipeStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewRecipeStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create RecipeStore: %v", err)
	}

	rec := recipe.Recipe{
		ID:        "test-recipe-123",
		Title:     "Test Recipe",
		Servings:  2,
		UpdatedAt: "2024-03-01T10:00:00Z",
		Ingredients: []recipe.Ingredient{
			{Name: "flour", Amount: 1, Unit: units.Cup},
		},
	}

	t.Run("CheckExists-False", func(t *testing.T) {
		if store.Exists(rec.ID, rec.UpdatedAt) {
			t.Errorf("Expected recipe '%s' to not exist, but it does", rec.ID)
		}
	})

	t.Run("Save", func(t *testing.T) {
		if err := store.Save(rec); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}

		filePath := filepath.Join(tempDir, "test-recipe-123_2024-03-01T10-00-00Z.json")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
		}
	})

	t.Run("CheckExists-True", func(t *testing.T) {
		if !store.Exists(rec.ID, rec.UpdatedAt) {
			t.Errorf("Expected recipe '%s' to exist, but it doesn't", rec.ID)
		}
	})

	t.Run("Load", func(t *testing.T) {
		loaded, err := store.Load(rec.ID, rec.UpdatedAt)
		if err != nil {
			t.Fatalf("Failed to load recipe: %v", err)
		}
		if loaded.Title != rec.Title || loaded.Servings != 2 || len(loaded.Ingredients) != 1 {
			t.Errorf("Loaded recipe does not match saved one: %+v", loaded)
		}
	})

	t.Run("ListAllKeepsNewestVersion", func(t *testing.T) {
		newer := rec
		newer.UpdatedAt = "2024-04-01T10:00:00Z"
		newer.Servings = 4
		if err := store.Save(newer); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		if err := store.Save(recipe.Recipe{ID: "another", Title: "Another"}); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		if err := os.WriteFile(filepath.Join(tempDir, "broken_x.json"), []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}

		all, err := store.ListAll()
		if err != nil {
			t.Fatalf("Failed to list recipes: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("Expected 2 recipes, got %d", len(all))
		}
		if all[0].ID != "another" || all[1].Servings != 4 {
			t.Errorf("Unexpected recipes: %+v", all)
		}
	})

	t.Run("RemoveStaleVersions", func(t *testing.T) {
		if err := store.RemoveStaleVersions(rec.ID); err != nil {
			t.Fatalf("Failed to remove stale versions: %v", err)
		}
		if store.Exists(rec.ID, rec.UpdatedAt) {
			t.Errorf("Expected recipe '%s' to be removed", rec.ID)
		}
	})

	t.Run("SaveWithoutID", func(t *testing.T) {
		if err := store.Save(recipe.Recipe{Title: "nameless"}); err == nil {
			t.Error("Expected an error for a recipe without id")
		}
	})
}
