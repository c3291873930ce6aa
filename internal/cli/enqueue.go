package cli

import (
	"errors"
	"fmt"
	"time"

	"poe2scout/pricer/internal/domain/task"

	"github.com/spf13/cobra"
)

func newEnqueueCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Send a command to running servers through Redis",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "refresh",
			Short: "Ask a server to rebuild its catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return enqueue(cmd, opts, func(league string) task.Task {
					return &task.RefreshTask{League: league, RequestedAt: time.Now().UTC()}
				})
			},
		},
		&cobra.Command{
			Use:   "clear-cache",
			Short: "Ask a server to drop its lookup cache",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return enqueue(cmd, opts, func(string) task.Task {
					return &task.ClearCacheTask{RequestedAt: time.Now().UTC()}
				})
			},
		},
	)

	return cmd
}

func enqueue(cmd *cobra.Command, opts *rootOptions, newTask func(league string) task.Task) error {
	app, err := opts.build(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Queue == nil {
		return errors.New("enqueue requires redis.enabled")
	}

	t := newTask(app.Config.Poe2Scout.League)
	id, err := app.Queue.AddTask(cmd.Context(), t)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Queued %s as %s\n", t.TaskType(), id)
	return nil
}
