package cli

import (
	"context"
	"fmt"
	"os"

	"poe2scout/pricer/internal/config"
	"poe2scout/pricer/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir string
	league    string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pricer",
		Short: "PoE2 item price resolver",
		Long: `Pricer resolves in-game item names to market prices using the poe2scout catalog.
It keeps the catalog in memory and tolerates misspelled or partial names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "directory holding config.yaml and .env")
	cmd.PersistentFlags().StringVar(&opts.league, "league", "", "league to price against (defaults to poe2scout.league)")

	cmd.AddCommand(
		newServeCmd(opts),
		newLoadCmd(opts),
		newPriceCmd(opts),
		newStatusCmd(opts),
		newEnqueueCmd(opts),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}

// build loads configuration and wires every component. Callers must Close the container.
func (o *rootOptions) build(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.league != "" {
		cfg.Poe2Scout.League = o.league
	}

	return container.New(ctx, cfg)
}
