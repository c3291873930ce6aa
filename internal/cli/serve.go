package cli

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the catalog and serve price lookups over HTTP",
		Long: `Loads the full catalog for the configured league, then serves lookups, reloads and
cache clears over HTTP. With Redis enabled the same commands are also read from the task streams.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := opts.build(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			log.Info("🚀 Starting pricer...")
			if err := app.Serve(ctx); err != nil {
				return err
			}

			log.Info("👋 Pricer stopped")
			return nil
		},
	}
}
