package cli

import (
	"errors"
	"fmt"

	"poe2scout/pricer/internal/domain"

	"github.com/spf13/cobra"
)

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the full catalog once and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			league := app.Config.Poe2Scout.League
			if !app.Service.LoadAll(cmd.Context(), league) {
				return errors.New("catalog load failed: category listing unavailable")
			}

			stats := app.Service.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "League:              %s\n", league)
			fmt.Fprintf(out, "Currency categories: %d (%d loaded)\n", stats.CurrencyCategories, stats.CurrencyPages)
			fmt.Fprintf(out, "Unique categories:   %d (%d loaded)\n", stats.UniqueCategories, stats.UniquePages)
			if divine, ok := app.Service.DivinePrice(); ok {
				fmt.Fprintf(out, "Divine price:        %s\n", domain.FormatPrice(divine))
			}
			return nil
		},
	}
}
