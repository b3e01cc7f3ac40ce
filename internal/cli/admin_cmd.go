package cli

import (
	"fmt"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/cli/formatter"
	"meal-grocer/internal/httpapi"

	"github.com/spf13/cobra"
)

func newMetricsCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Inspect and prune generation metrics",
	}
	cmd.AddCommand(newMetricsUsageCmd(a), newMetricsCleanupCmd(a))
	return cmd
}

func newMetricsUsageCmd(a *app.App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show lists generated per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := a.DailyUsage(cmd.Context(), days)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatDailyUsage(usage))

			h := a.SysHealth()
			fmt.Fprintln(out, formatter.StyleDim.Render(fmt.Sprintf(
				"mem %d/%d MB, %d goroutines, data %s", h.AllocMB, h.SysMB, h.Goroutines, h.DataDiskSize)))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")
	return cmd
}

func newMetricsCleanupCmd(a *app.App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete metrics older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			n, err := a.CleanupMetrics(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d metric row(s)\n", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Keep metrics from the last N days")
	return cmd
}

func newTokenCmd(a *app.App) *cobra.Command {
	var user string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Config().RequireHTTP(); err != nil {
				return err
			}
			token, err := httpapi.GenerateToken([]byte(a.Config().JWTSecret), user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
