package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"meal-grocer/internal/app"
	"meal-grocer/internal/cli/formatter"
	"meal-grocer/internal/shopping"

	"github.com/spf13/cobra"
)

func newListCmd(a *app.App) *cobra.Command {
	var user, from, to string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Generate the shopping list for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := listRange(a, from, to)
			if err != nil {
				return err
			}

			list, err := a.GenerateShoppingList(cmd.Context(), user, start, end)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatShoppingList(list, start, end))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default from + plan window)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newMarkCmd(a *app.App) *cobra.Command {
	var user, from, to string
	var undo bool

	cmd := &cobra.Command{
		Use:   "mark <item-id-prefix>",
		Short: "Mark a list item as purchased",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := listRange(a, from, to)
			if err != nil {
				return err
			}
			list, err := a.GenerateShoppingList(cmd.Context(), user, start, end)
			if err != nil {
				return err
			}

			item, err := resolveItem(list, args[0])
			if err != nil {
				return err
			}
			if err := a.MarkPurchased(cmd.Context(), user, item.ID, !undo); err != nil {
				return err
			}

			state := "purchased"
			if undo {
				state = "not purchased"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as %s\n", item.Name, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	cmd.Flags().StringVar(&from, "from", "", "First day of the list the item belongs to")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the list the item belongs to")
	cmd.Flags().BoolVar(&undo, "undo", false, "Clear the purchased mark instead")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newClearCmd(a *app.App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget all purchase marks for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.ClearPurchased(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d purchase mark(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Household / user id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// resolveItem finds the single item whose id starts with prefix.
func resolveItem(list shopping.CategorizedList, prefix string) (shopping.ShoppingListItem, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return shopping.ShoppingListItem{}, fmt.Errorf("item id is required")
	}

	var matches []shopping.ShoppingListItem
	for _, item := range list.Items() {
		if strings.HasPrefix(item.ID, prefix) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return shopping.ShoppingListItem{}, fmt.Errorf("no list item matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return shopping.ShoppingListItem{}, fmt.Errorf("item id prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
