package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-grocer/internal/clipper"
	"meal-grocer/internal/ghost"
	"meal-grocer/internal/recipe"
	"meal-grocer/internal/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGhost struct {
	posts     []ghost.Post
	published []ghost.Post
}

func (f *fakeGhost) FetchRecipes(context.Context) ([]ghost.Post, error) {
	return f.posts, nil
}

func (f *fakeGhost) CreatePost(_ context.Context, title, html string, _ bool) (*ghost.Post, error) {
	post := ghost.Post{ID: "post-new", Title: title, HTML: html, UpdatedAt: "2024-03-11T10:00:00.000Z"}
	f.published = append(f.published, post)
	return &post, nil
}

func ricePost(updatedAt string) ghost.Post {
	return ghost.Post{
		ID:        "post-rice",
		Title:     "Rice bowl",
		UpdatedAt: updatedAt,
		HTML:      clipper.FormatHTML(recipe.Recipe{Servings: 2, Ingredients: []recipe.Ingredient{{Name: "rice", Amount: 200, Unit: units.Gram}}}, ""),
	}
}

func TestSyncRecipesFromGhost(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.SyncRecipesFromGhost(ctx)
	require.ErrorIs(t, err, ErrNoRecipeSource)

	src := &fakeGhost{posts: []ghost.Post{
		ricePost("2024-03-01T10:00:00.000Z"),
		{ID: "post-essay", Title: "Why I cook", HTML: "<p>No recipe here.</p>", UpdatedAt: "2024-03-01T10:00:00.000Z"},
	}}
	a.UseGhost(src)

	res, err := a.SyncRecipesFromGhost(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Posts: 2, Imported: 1, Failed: 1}, res)

	recs, err := a.recipeRepo.GetByIDs(ctx, []string{"post-rice"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Servings)
	assert.Equal(t, units.Gram, recs[0].Ingredients[0].Unit)

	t.Run("UnchangedPostsAreCached", func(t *testing.T) {
		res, err := a.SyncRecipesFromGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Cached)
		assert.Equal(t, 0, res.Imported)
	})

	t.Run("NewVersionReplacesOldFile", func(t *testing.T) {
		src.posts = []ghost.Post{ricePost("2024-03-05T10:00:00.000Z")}
		res, err := a.SyncRecipesFromGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)

		assert.False(t, a.recipeStore.Exists("post-rice", "2024-03-01T10:00:00.000Z"))
		assert.True(t, a.recipeStore.Exists("post-rice", "2024-03-05T10:00:00.000Z"))
	})
}

func TestClipRecipe(t *testing.T) {
	ctx := context.Background()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Lemon Rice</h1><p>Serves 4</p>
			<h2>Ingredients</h2><ul><li>300 g rice</li><li>1 lemon</li></ul></body></html>`))
	}))
	defer ts.Close()

	t.Run("LocalOnly", func(t *testing.T) {
		a := newTestApp(t)
		rec, err := a.ClipRecipe(ctx, ts.URL, false)
		require.NoError(t, err)
		assert.Equal(t, "lemon-rice", rec.ID)
		assert.Equal(t, 4, rec.Servings)

		stored, err := a.recipeRepo.GetByIDs(ctx, []string{"lemon-rice"})
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("PublishRequiresGhost", func(t *testing.T) {
		a := newTestApp(t)
		_, err := a.ClipRecipe(ctx, ts.URL, true)
		assert.ErrorIs(t, err, ErrNoRecipeSource)
	})

	t.Run("PublishTakesPostID", func(t *testing.T) {
		a := newTestApp(t)
		src := &fakeGhost{}
		a.UseGhost(src)

		rec, err := a.ClipRecipe(ctx, ts.URL, true)
		require.NoError(t, err)
		assert.Equal(t, "post-new", rec.ID)
		assert.Equal(t, "post-new-1", rec.Ingredients[0].ID)
		require.Len(t, src.published, 1)
		assert.Contains(t, src.published[0].HTML, "300 g rice")

		// A later sync of the published post is a cache hit.
		src.posts = src.published
		res, err := a.SyncRecipesFromGhost(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Cached)
	})
}
