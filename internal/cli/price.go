package cli

import (
	"fmt"

	"poe2scout/pricer/internal/domain"

	"github.com/spf13/cobra"
)

func newPriceCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		baseName string
		preload  bool
	)

	cmd := &cobra.Command{
		Use:   "price NAME",
		Short: "Look up the price of a single item",
		Example: `  pricer price "Exalted Shard" --category currency
  pricer price "Call of the Brotherhood" --category amulet --preload`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.build(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			league := app.Config.Poe2Scout.League
			if preload && !app.Service.LoadAll(ctx, league) {
				return fmt.Errorf("failed to preload catalog for %s", league)
			}

			item := domain.QueryItem{Name: args[0], BaseName: baseName, CategoryAPIID: category}
			result := app.Service.GetPrice(ctx, item, league)

			out := cmd.OutOrStdout()
			if !result.HasValidPrice() {
				fmt.Fprintf(out, "No price available for %q\n", item.Name)
				return nil
			}

			divine, _ := app.Service.DivinePrice()
			fmt.Fprintf(out, "%s: %s", item.Name, formatPrice(result.BestPrice(), divine))
			if result.PriceRange() != domain.FormatPrice(result.BestPrice()) {
				fmt.Fprintf(out, " (range %s)", result.PriceRange())
			}
			if result.ChangeLast7Days != 0 {
				fmt.Fprintf(out, ", 7d %+.1f%%", result.ChangeLast7Days)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category API id, e.g. currency or amulet")
	cmd.Flags().StringVarP(&baseName, "base", "b", "", "base type name for uniques")
	cmd.Flags().BoolVar(&preload, "preload", false, "load the whole catalog before the lookup")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func formatPrice(price, divine float64) string {
	if divine > 0 {
		return domain.FormatDivinePrice(price, divine)
	}
	return domain.FormatPrice(price)
}
