package recipe

import (
	"context"
	"testing"

	"meal-grocer/internal/testutil"
	"meal-grocer/internal/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riceBowl() Recipe {
	return Recipe{
		ID:       "rice-bowl",
		Title:    "Rice Bowl",
		Servings: 2,
		Ingredients: []Ingredient{
			{Name: "Rice", Amount: 200, Unit: "grams"},
			{Name: "Soy sauce", Amount: 2, Unit: "Tbsp"},
		},
		UpdatedAt: "2024-03-01T10:00:00Z",
	}
}

func TestRecipe_Normalize(t *testing.T) {
	rec := riceBowl()
	rec.Normalize()

	assert.Equal(t, units.Gram, rec.Ingredients[0].Unit)
	assert.Equal(t, units.Tablespoon, rec.Ingredients[1].Unit)
	assert.Equal(t, "rice-bowl-1", rec.Ingredients[0].ID)
	assert.Equal(t, "rice-bowl-2", rec.Ingredients[1].ID)
}

func TestRecipe_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		rec := riceBowl()
		assert.NoError(t, rec.Validate())
	})

	t.Run("MissingID", func(t *testing.T) {
		rec := riceBowl()
		rec.ID = " "
		assert.ErrorContains(t, rec.Validate(), "recipe id is required")
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		rec := riceBowl()
		rec.Ingredients[0].Amount = -1
		assert.ErrorContains(t, rec.Validate(), "negative amount")
	})
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Save(ctx, riceBowl()))
	require.NoError(t, repo.Save(ctx, Recipe{
		ID:          "omelette",
		Title:       "Omelette",
		Servings:    1,
		Ingredients: []Ingredient{{Name: "Egg", Amount: 3, Unit: "pieces"}},
	}))

	t.Run("Get", func(t *testing.T) {
		rec, err := repo.Get(ctx, "rice-bowl")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Rice Bowl", rec.Title)
		assert.Equal(t, 2, rec.Servings)
		require.Len(t, rec.Ingredients, 2)
		assert.Equal(t, units.Gram, rec.Ingredients[0].Unit)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		rec, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("GetByIDsSkipsUnknown", func(t *testing.T) {
		recs, err := repo.GetByIDs(ctx, []string{"omelette", "missing", "rice-bowl"})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "omelette", recs[0].ID)
		assert.Equal(t, "rice-bowl", recs[1].ID)
	})

	t.Run("GetByIDsEmpty", func(t *testing.T) {
		recs, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("SaveUpserts", func(t *testing.T) {
		updated := riceBowl()
		updated.Servings = 4
		require.NoError(t, repo.Save(ctx, updated))

		rec, err := repo.Get(ctx, "rice-bowl")
		require.NoError(t, err)
		assert.Equal(t, 4, rec.Servings)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		err := repo.Save(ctx, Recipe{ID: "bad", Ingredients: []Ingredient{{Name: "", Amount: 1}}})
		assert.Error(t, err)
	})

	t.Run("List", func(t *testing.T) {
		recs, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})
}
