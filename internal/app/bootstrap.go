package app

import (
	"fmt"

	"meal-grocer/internal/clipper"
	"meal-grocer/internal/config"
	"meal-grocer/internal/database"
	"meal-grocer/internal/ghost"
	"meal-grocer/internal/shopping"
	"meal-grocer/internal/storage"
	"meal-grocer/internal/units"

	"github.com/rs/zerolog/log"
)

// Bootstrap opens the database, loads the rule tables and builds the App.
func Bootstrap(cfg *config.Config) (*App, error) {
	table := units.Default()
	if cfg.UnitsPath != "" {
		t, err := units.LoadTableFile(cfg.UnitsPath)
		if err != nil {
			return nil, err
		}
		table = t
		log.Info().Str("path", cfg.UnitsPath).Msg("Loaded unit table")
	}

	rules := shopping.DefaultRules()
	if cfg.RulesPath != "" {
		r, err := shopping.LoadRulesFile(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = r
		log.Info().Str("path", cfg.RulesPath).Msg("Loaded shopping rules")
	}

	recipeStore, err := storage.NewRecipeStore(cfg.RecipeStoragePath)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}

	a := NewApp(cfg, db, recipeStore, shopping.NewGenerator(rules, table))
	a.clipper = clipper.NewClipper(table)
	if cfg.RequireGhost() == nil {
		a.UseGhost(ghost.NewClient(ghost.Options{
			BaseURL:    cfg.GhostURL,
			ContentKey: cfg.GhostContentKey,
			AdminKey:   cfg.GhostAdminKey,
			Tag:        cfg.GhostRecipeTag,
		}))
		log.Info().Str("url", cfg.GhostURL).Msg("Ghost recipe source enabled")
	}
	return a, nil
}
