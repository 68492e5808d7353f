package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/dump"
)

type reduceFlags struct {
	in           string
	out          string
	keepReplicas bool
}

func newReduceCommand(a *app) *cobra.Command {
	var f reduceFlags

	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Sum all replicas of a dump into the first",
		Long: `Load a dump, add every replica into replica 0 and write the result.

By default only replica 0 is written, as a single-replica dump. Use
--keep-replicas to write the whole allocation back unchanged apart from
replica 0.

Examples:
  fieldacc reduce --in field.facc --out summed.facc

  # Throttle reading and writing the dumps
  FIELDACC_LIMITS_IO_BYTES_PER_SEC=104857600 fieldacc reduce --in a.facc --out b.facc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReduce(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.in, "in", "", "name of the dump to reduce")
	cmd.Flags().StringVar(&f.out, "out", "", "name of the dump to write")
	cmd.Flags().BoolVar(&f.keepReplicas, "keep-replicas", false, "write every replica, not just the sum")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return withSetup(a, cmd)
}

func (a *app) runReduce(cmd *cobra.Command, f reduceFlags) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	c, err := dump.ParseCompression(a.cfg.Dump.Compression)
	if err != nil {
		return err
	}
	opts, err := a.reducerOptions()
	if err != nil {
		return err
	}
	r, err := fieldacc.New(opts...)
	if err != nil {
		return err
	}

	arr, err := dump.Load(ctx, store, f.in, a.rc)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := r.Reduce(ctx, arr); err != nil {
		return err
	}
	elapsed := time.Since(start)

	result := arr
	if !f.keepReplicas {
		result = firstReplica(arr)
	}

	if _, err := dump.Save(ctx, store, f.out, result, c, a.rc); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: reduced %d replicas of %d records in %s\n",
		f.out, arr.NArray, arr.N, elapsed.Round(time.Microsecond))
	return nil
}

// firstReplica views replica 0 as a single-replica array.
func firstReplica(arr *fieldacc.Array) *fieldacc.Array {
	if arr.NArray == 0 {
		return arr
	}
	return &fieldacc.Array{
		Records: arr.Replica(0),
		N:       arr.N,
		NArray:  1,
		Stride:  arr.N,
	}
}
