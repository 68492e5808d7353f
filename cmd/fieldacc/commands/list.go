package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [PREFIX]",
		Short: "List blobs in the configured store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runList,
	}
	return withSetup(a, cmd)
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}

	var prefix string
	if len(args) == 1 {
		prefix = args[0]
	}

	names, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
