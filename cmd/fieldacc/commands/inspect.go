package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fieldacc/dump"
)

func newInspectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect NAME...",
		Short: "Print dump headers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runInspect,
	}
	return withSetup(a, cmd)
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRECORDS\tREPLICAS\tSTRIDE\tCOMPRESSION\tRAW\tSTORED\tCRC32C")
	for _, name := range args {
		h, err := dump.Stat(ctx, store, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%d\t%d\t%08x\n",
			name, h.N, h.NArray, h.Stride, h.Compression, h.RawLen, h.PayloadLen, h.Checksum)
	}
	return tw.Flush()
}
