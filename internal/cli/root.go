package cli

import (
	"fmt"
	"time"

	"meal-grocer/internal/app"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// NewRootCmd creates the top-level "meal-grocer" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "meal-grocer",
		Short:         "Shopping lists from meal plans and pantry stock",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newMarkCmd(a),
		newClearCmd(a),
		newPlanCmd(a),
		newRecipesCmd(a),
		newPantryCmd(a),
		newMetricsCmd(a),
		newTokenCmd(a),
	)

	return root
}

func parseDate(flag, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: %w", flag, value, err)
	}
	return d, nil
}

// listRange resolves --from/--to, defaulting to the configured window starting today.
func listRange(a *app.App, from, to string) (time.Time, time.Time, error) {
	start := a.Today()
	if from != "" {
		d, err := parseDate("from", from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	start, end := a.DefaultRange(start)
	if to != "" {
		d, err := parseDate("to", to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	return start, end, nil
}
