package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/cli/formatter"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/recipe"

	"github.com/spf13/cobra"
)

func newPlanCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage meal plans",
	}
	cmd.AddCommand(
		newPlanImportCmd(a),
		newPlanListCmd(a),
		newPlanTemplateCmd(a),
	)
	return cmd
}

func newPlanListCmd(a *app.App) *cobra.Command {
	var user string
	var limit int

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the most recent meal plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := a.RecentPlans(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlans(plans))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of plans to show")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newPlanTemplateCmd(a *app.App) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print an empty weekly plan to fill in and import",
		RunE: func(cmd *cobra.Command, args []string) error {
			var start time.Time
			if week != "" {
				d, err := parseDate("week", week)
				if err != nil {
					return err
				}
				start = d
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.PlanTemplate(start))
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "First day of the week (YYYY-MM-DD, default next Monday)")
	return cmd
}

func newPlanImportCmd(a *app.App) *cobra.Command {
	var user, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Save a meal plan from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan planner.MealPlan
			if err := readJSONFile(file, &plan); err != nil {
				return err
			}
			id, err := a.SavePlan(cmd.Context(), user, &plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %d with %d day(s) starting %s\n",
				id, len(plan.Days), plan.WeekStart.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	cmd.Flags().StringVar(&file, "file", "", "Path to the plan JSON")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newRecipesCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe catalog",
	}
	cmd.AddCommand(
		newRecipesImportCmd(a),
		newRecipesAddCmd(a),
		newRecipesSyncCmd(a),
		newRecipesClipCmd(a),
	)
	return cmd
}

func newRecipesImportCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load every recipe file from the recipe storage directory into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.ImportRecipesFromFiles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipe(s)\n", n)
			return nil
		},
	}
}

func newRecipesAddCmd(a *app.App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a single recipe from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec recipe.Recipe
			if err := readJSONFile(file, &rec); err != nil {
				return err
			}
			if err := a.SaveRecipe(cmd.Context(), rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved recipe %s (%d ingredient(s))\n", rec.ID, len(rec.Ingredients))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the recipe JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newRecipesSyncCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import recipe posts from the configured Ghost blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.SyncRecipesFromGhost(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d post(s): %d imported, %d unchanged, %d failed\n",
				res.Posts, res.Imported, res.Cached, res.Failed)
			return nil
		},
	}
}

func newRecipesClipCmd(a *app.App) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "clip <url>",
		Short: "Extract the recipe on a web page and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.ClipRecipe(cmd.Context(), args[0], publish)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved recipe %s (%q, %d serving(s), %d ingredient(s))\n",
				rec.ID, rec.Title, rec.Servings, len(rec.Ingredients))
			return nil
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Also publish the recipe to Ghost")
	return cmd
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
