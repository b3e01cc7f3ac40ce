package app

import (
	"context"
	"fmt"

	"meal-grocer/internal/clipper"
	"meal-grocer/internal/recipe"

	"github.com/rs/zerolog/log"
)

// SyncResult summarises one pass over the Ghost recipe posts.
type SyncResult struct {
	Posts    int `json:"posts"`
	Imported int `json:"imported"`
	Cached   int `json:"cached"`
	Failed   int `json:"failed"`
}

// SyncRecipesFromGhost parses every Ghost post into a recipe and stores it in the file
// catalog and the database. Posts whose version is already in the file catalog are skipped.
func (a *App) SyncRecipesFromGhost(ctx context.Context) (SyncResult, error) {
	if a.ghost == nil {
		return SyncResult{}, ErrNoRecipeSource
	}

	posts, err := a.ghost.FetchRecipes(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to fetch recipes from ghost: %w", err)
	}

	res := SyncResult{Posts: len(posts)}
	for _, post := range posts {
		if a.recipeStore.Exists(post.ID, post.UpdatedAt) {
			res.Cached++
			continue
		}

		rec, err := a.clipper.ParseHTML(post.ID, post.Title, post.HTML)
		if err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Str("title", post.Title).Msg("Skipping post without a parsable recipe")
			res.Failed++
			continue
		}
		rec.UpdatedAt = post.UpdatedAt

		if err := a.storeRecipe(ctx, rec); err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to store synced recipe")
			res.Failed++
			continue
		}
		res.Imported++
	}

	log.Info().
		Int("posts", res.Posts).
		Int("imported", res.Imported).
		Int("cached", res.Cached).
		Int("failed", res.Failed).
		Msg("Ghost recipe sync complete")
	return res, nil
}

// ClipRecipe extracts the recipe on a web page and stores it. With publish set, the
// recipe is also posted to Ghost and takes the post's id so later syncs recognise it.
func (a *App) ClipRecipe(ctx context.Context, url string, publish bool) (recipe.Recipe, error) {
	rec, err := a.clipper.ClipURL(ctx, url)
	if err != nil {
		return recipe.Recipe{}, err
	}

	if publish {
		if a.ghost == nil {
			return recipe.Recipe{}, ErrNoRecipeSource
		}
		post, err := a.ghost.CreatePost(ctx, rec.Title, clipper.FormatHTML(rec, url), true)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("failed to publish recipe to ghost: %w", err)
		}
		rec.ID = post.ID
		rec.UpdatedAt = post.UpdatedAt
		for i := range rec.Ingredients {
			rec.Ingredients[i].ID = ""
		}
		rec.Normalize()
	}

	if err := a.storeRecipe(ctx, rec); err != nil {
		return recipe.Recipe{}, err
	}
	log.Info().Str("recipe_id", rec.ID).Str("url", url).Bool("published", publish).Msg("Clipped recipe")
	return rec, nil
}

// storeRecipe replaces older file versions of the recipe and upserts it in the database.
func (a *App) storeRecipe(ctx context.Context, rec recipe.Recipe) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if a.recipeStore != nil {
		if err := a.recipeStore.RemoveStaleVersions(rec.ID); err != nil {
			return err
		}
		if err := a.recipeStore.Save(rec); err != nil {
			return err
		}
	}
	return a.recipeRepo.Save(ctx, rec)
}
