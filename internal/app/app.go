package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"meal-grocer/internal/clipper"
	"meal-grocer/internal/config"
	"meal-grocer/internal/database"
	"meal-grocer/internal/ghost"
	"meal-grocer/internal/inventory"
	"meal-grocer/internal/metrics"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/recipe"
	"meal-grocer/internal/shopping"
	"meal-grocer/internal/storage"
	"meal-grocer/internal/units"

	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("invalid date range: end is before start")
	// ErrNoRecipeSource is returned when recipe sync is requested without a Ghost client.
	ErrNoRecipeSource = errors.New("ghost recipe source is not configured")
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	generator    *shopping.Generator
	recipeStore  *storage.RecipeStore
	metricsStore *metrics.Store

	db            *database.DB
	recipeRepo    *recipe.Repository
	planRepo      *planner.PlanRepository
	inventoryRepo *inventory.Repository
	markRepo      *shopping.MarkRepository

	ghost   ghost.Client
	clipper *clipper.Clipper

	now func() time.Time
}

// NewApp creates and initializes a new App instance on top of an open database.
func NewApp(cfg *config.Config, db *database.DB, recipeStore *storage.RecipeStore, generator *shopping.Generator) *App {
	if generator == nil {
		generator = shopping.NewGenerator(nil, nil)
	}
	return &App{
		cfg:           cfg,
		generator:     generator,
		recipeStore:   recipeStore,
		metricsStore:  metrics.NewStore(db.SQL),
		db:            db,
		recipeRepo:    recipe.NewRepository(db.SQL),
		planRepo:      planner.NewPlanRepository(db.SQL),
		inventoryRepo: inventory.NewRepository(db.SQL),
		markRepo:      shopping.NewMarkRepository(db.SQL),
		clipper:       clipper.NewClipper(nil),
		now:           time.Now,
	}
}

// UseGhost sets the Ghost client recipes are synced from and clipped recipes are published to.
func (a *App) UseGhost(c ghost.Client) {
	a.ghost = c
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}

// Today returns the current date at midnight UTC.
func (a *App) Today() time.Time {
	return planner.DateOnly(a.now())
}

// DefaultRange returns the configured planning window starting at from.
func (a *App) DefaultRange(from time.Time) (time.Time, time.Time) {
	from = planner.DateOnly(from)
	return from, from.AddDate(0, 0, a.cfg.DefaultPlanDays-1)
}

// GenerateShoppingList builds the user's list for the planned days in [from, to].
// Purchase marks saved earlier are applied to matching items.
func (a *App) GenerateShoppingList(ctx context.Context, userID string, from, to time.Time) (shopping.CategorizedList, error) {
	from, to = planner.DateOnly(from), planner.DateOnly(to)
	if to.Before(from) {
		return shopping.CategorizedList{}, ErrInvalidRange
	}
	start := time.Now()

	days, err := a.planRepo.ListDays(ctx, userID, from, to)
	if err != nil {
		return shopping.CategorizedList{}, fmt.Errorf("failed to load meal plan: %w", err)
	}

	recipes, err := a.recipeRepo.GetByIDs(ctx, recipeIDs(days))
	if err != nil {
		return shopping.CategorizedList{}, fmt.Errorf("failed to load recipes: %w", err)
	}

	stock, err := a.inventoryRepo.List(ctx, userID)
	if err != nil {
		return shopping.CategorizedList{}, fmt.Errorf("failed to load inventory: %w", err)
	}

	list, stats := a.generator.Run(days, shopping.IndexRecipes(recipes), stock, userID)

	marks, err := a.markRepo.PurchasedIDs(ctx, userID)
	if err != nil {
		return shopping.CategorizedList{}, fmt.Errorf("failed to load purchase marks: %w", err)
	}
	list.ApplyPurchased(marks)

	latency := time.Since(start)
	if stats.SkippedSlots > 0 {
		log.Warn().Str("user_id", userID).Int("skipped", stats.SkippedSlots).Msg("Planned meals reference missing recipes")
	}
	err = a.metricsStore.Record(ctx, metrics.GenerationMetric{
		UserID:      userID,
		Days:        int(to.Sub(from).Hours()/24) + 1,
		DemandCount: stats.Demands,
		ItemCount:   stats.Items,
		LatencyMS:   latency.Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to record generation metric")
	}

	log.Info().
		Str("user_id", userID).
		Str("from", from.Format(time.DateOnly)).
		Str("to", to.Format(time.DateOnly)).
		Int("items", stats.Items).
		Dur("latency", latency).
		Msg("Generated shopping list")
	return list, nil
}

// MarkPurchased records whether the user bought a list item.
func (a *App) MarkPurchased(ctx context.Context, userID, itemID string, purchased bool) error {
	return a.markRepo.SetPurchased(ctx, userID, itemID, purchased)
}

// ClearPurchased forgets every purchase mark of the user.
func (a *App) ClearPurchased(ctx context.Context, userID string) (int64, error) {
	return a.markRepo.Clear(ctx, userID)
}

// SavePlan validates and stores a meal plan for the user.
func (a *App) SavePlan(ctx context.Context, userID string, plan *planner.MealPlan) (int64, error) {
	if err := plan.Validate(); err != nil {
		return 0, err
	}

	weekStart := plan.WeekStart
	if weekStart.IsZero() {
		weekStart = plan.Days[0].Date
		for _, d := range plan.Days[1:] {
			if d.Date.Before(weekStart) {
				weekStart = d.Date
			}
		}
	}
	exists, err := a.planRepo.ExistsForWeek(ctx, userID, weekStart)
	if err != nil {
		return 0, err
	}
	if exists {
		log.Info().Str("user_id", userID).Str("week_start", weekStart.Format(time.DateOnly)).Msg("Newer plan overrides an existing plan for this week")
	}
	return a.planRepo.Save(ctx, userID, plan)
}

// RecentPlans returns the user's latest meal plans, newest first.
func (a *App) RecentPlans(ctx context.Context, userID string, limit int) ([]planner.MealPlan, error) {
	if limit <= 0 {
		limit = 5
	}
	return a.planRepo.ListRecentByUserID(ctx, userID, limit)
}

// PlanTemplate returns an empty draft plan for the week starting at weekStart.
// A zero weekStart means next Monday.
func (a *App) PlanTemplate(weekStart time.Time) planner.MealPlan {
	if weekStart.IsZero() {
		weekStart = planner.GetNextMonday(a.now())
	}
	weekStart = planner.DateOnly(weekStart)
	return planner.MealPlan{
		WeekStart: weekStart,
		Status:    planner.StatusDraft,
		Days:      planner.WeekDays(weekStart),
	}
}

// SaveRecipe stores a recipe in the database.
func (a *App) SaveRecipe(ctx context.Context, rec recipe.Recipe) error {
	return a.recipeRepo.Save(ctx, rec)
}

// ImportRecipesFromFiles copies recipes from the file store into the database.
// Recipes already present in the database are left alone.
func (a *App) ImportRecipesFromFiles(ctx context.Context) (int, error) {
	if a.recipeStore == nil {
		return 0, fmt.Errorf("recipe file storage is not configured")
	}

	existing, err := a.recipeRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list existing recipes in DB: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		known[rec.ID] = struct{}{}
	}

	fileRecipes, err := a.recipeStore.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list recipes from file storage: %w", err)
	}
	log.Info().Int("files", len(fileRecipes)).Int("in_db", len(known)).Msg("Importing recipes from file storage")

	imported := 0
	for _, rec := range fileRecipes {
		if _, ok := known[rec.ID]; ok {
			log.Debug().Str("recipe_id", rec.ID).Msg("Recipe already in DB, skipping")
			continue
		}
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			log.Warn().Err(err).Str("recipe_id", rec.ID).Msg("Failed to import recipe")
			continue
		}
		imported++
	}

	total, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return imported, err
	}
	log.Info().Int("imported", imported).Int("total", total).Msg("Recipe import complete")
	return imported, nil
}

// ListPantry returns the user's stock.
func (a *App) ListPantry(ctx context.Context, userID string) ([]inventory.Item, error) {
	return a.inventoryRepo.List(ctx, userID)
}

// AddPantryItem stores a stock item owned by the user.
func (a *App) AddPantryItem(ctx context.Context, userID string, item *inventory.Item) error {
	item.HouseholdID = userID
	return a.inventoryRepo.Add(ctx, item)
}

// ExpiringPantry returns the user's items that expire within the given window.
func (a *App) ExpiringPantry(ctx context.Context, userID string, within time.Duration) ([]inventory.Item, error) {
	return a.inventoryRepo.Expiring(ctx, userID, a.now().Add(within))
}

// DeletePantryItem removes a stock item if it belongs to the user.
func (a *App) DeletePantryItem(ctx context.Context, userID, itemID string) error {
	item, err := a.inventoryRepo.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if item.HouseholdID != userID {
		return inventory.ErrNotFound
	}
	return a.inventoryRepo.Delete(ctx, itemID)
}

// UpdatePantryAmount replaces the stocked quantity of an item the user owns.
func (a *App) UpdatePantryAmount(ctx context.Context, userID, itemID string, q units.Quantity) error {
	item, err := a.inventoryRepo.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if item.HouseholdID != userID {
		return inventory.ErrNotFound
	}
	return a.inventoryRepo.UpdateAmount(ctx, itemID, q)
}

// DailyUsage returns generation totals for the last days.
func (a *App) DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// CleanupMetrics deletes generation metrics older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, olderThanDays)
}

// SysHealth reports process and data directory health.
func (a *App) SysHealth() metrics.SysHealth {
	return metrics.GetSysHealth(a.cfg.DataDir())
}

func recipeIDs(days []planner.DayPlan) []string {
	seen := make(map[string]struct{})
	for _, d := range days {
		for _, slot := range d.Meals {
			seen[slot.RecipeID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
