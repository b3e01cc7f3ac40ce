package cli

import (
	"fmt"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/cli/formatter"
	"meal-grocer/internal/inventory"
	"meal-grocer/internal/units"

	"github.com/spf13/cobra"
)

func newPantryCmd(a *app.App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage pantry stock",
	}
	cmd.PersistentFlags().StringVar(&user, "user", "", "Household / user id")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(
		newPantryAddCmd(a, &user),
		newPantryListCmd(a, &user),
		newPantryExpiringCmd(a, &user),
		newPantrySetCmd(a, &user),
		newPantryRemoveCmd(a, &user),
	)
	return cmd
}

func newPantryAddCmd(a *app.App, user *string) *cobra.Command {
	var name, unit, category, expires string
	var amount float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stock item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &inventory.Item{
				Name:     name,
				Amount:   amount,
				Unit:     units.Unit(unit),
				Category: category,
			}
			if expires != "" {
				d, err := parseDate("expires", expires)
				if err != nil {
					return err
				}
				item.ExpiresAt = &d
			}

			if err := a.AddPantryItem(cmd.Context(), *user, item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s [%s]\n", formatter.Amount(item.Amount), item.Unit, item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount in stock")
	cmd.Flags().StringVar(&unit, "unit", "piece", "Unit (g, kg, ml, cup, piece, ...)")
	cmd.Flags().StringVar(&category, "category", "", "Optional category label")
	cmd.Flags().StringVar(&expires, "expires", "", "Expiry date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newPantryListCmd(a *app.App, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stock items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.ListPantry(cmd.Context(), *user)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPantry(items, time.Now()))
			return nil
		},
	}
}

func newPantryExpiringCmd(a *app.App, user *string) *cobra.Command {
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List stock items expiring soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.ExpiringPantry(cmd.Context(), *user, within)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPantry(items, time.Now()))
			return nil
		},
	}

	cmd.Flags().DurationVar(&within, "within", 72*time.Hour, "Look-ahead window")
	return cmd
}

func newPantrySetCmd(a *app.App, user *string) *cobra.Command {
	var unit string
	var amount float64

	cmd := &cobra.Command{
		Use:   "set <item-id>",
		Short: "Replace the stocked amount of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := units.Quantity{Amount: amount, Unit: units.Unit(unit)}
			if err := a.UpdatePantryAmount(cmd.Context(), *user, args[0], q); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s to %s %s\n", args[0], formatter.Amount(amount), units.Parse(unit))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "New amount")
	cmd.Flags().StringVar(&unit, "unit", "piece", "Unit")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newPantryRemoveCmd(a *app.App, user *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Remove a stock item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.DeletePantryItem(cmd.Context(), *user, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
