package cli

import (
	"errors"
	"fmt"
	"time"

	"poe2scout/pricer/internal/domain"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last published load status of a league",
		Long:  `Reads the load summary a running server publishes to Redis after every catalog load.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Status == nil {
				return errors.New("status requires redis.enabled")
			}

			league := app.Config.Poe2Scout.League
			status, err := app.Status.GetStatus(cmd.Context(), league)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status == nil {
				fmt.Fprintf(out, "League %s has not been loaded\n", league)
				return nil
			}

			fmt.Fprintf(out, "League:       %s\n", status.League)
			fmt.Fprintf(out, "Last update:  %s (%s ago)\n",
				status.LastUpdate.Local().Format(time.DateTime), time.Since(status.LastUpdate).Round(time.Second))
			fmt.Fprintf(out, "Currency:     %d/%d categories\n", status.Stats.CurrencyPages, status.Stats.CurrencyCategories)
			fmt.Fprintf(out, "Uniques:      %d/%d categories\n", status.Stats.UniquePages, status.Stats.UniqueCategories)
			fmt.Fprintf(out, "Skipped:      %d\n", status.Skipped)
			if status.DivinePrice > 0 {
				fmt.Fprintf(out, "Divine price: %s\n", domain.FormatPrice(status.DivinePrice))
			}
			return nil
		},
	}
}
