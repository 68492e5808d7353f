package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/dump"
	"github.com/hupe1980/fieldacc/testutil"
)

type genFlags struct {
	out      string
	records  int
	replicas int
	stride   int
	seed     int64
	min      float32
	max      float32
}

func newGenCommand(a *app) *cobra.Command {
	var f genFlags

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random replicated array",
		Long: `Generate a dump holding --replicas copies of --records random records.

Examples:
  # Four replicas of one million records
  fieldacc gen --out field.facc --records 1000000 --replicas 4

  # Leave a gap of 16 records between replicas
  fieldacc gen --out field.facc --records 1000 --replicas 3 --stride 1016`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGen(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.out, "out", "", "name of the dump to write")
	cmd.Flags().IntVar(&f.records, "records", 1024, "records per replica")
	cmd.Flags().IntVar(&f.replicas, "replicas", 2, "number of replicas")
	cmd.Flags().IntVar(&f.stride, "stride", 0, "records between replica starts (default: --records)")
	cmd.Flags().Int64Var(&f.seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float32Var(&f.min, "min", -1, "minimum lane value")
	cmd.Flags().Float32Var(&f.max, "max", 1, "maximum lane value")
	_ = cmd.MarkFlagRequired("out")

	return withSetup(a, cmd)
}

func (a *app) runGen(cmd *cobra.Command, f genFlags) error {
	ctx := cmd.Context()

	if f.stride == 0 {
		f.stride = f.records
	}
	arr, err := fieldacc.NewArrayStride(f.records, f.replicas, f.stride)
	if err != nil {
		return err
	}

	rng := testutil.NewRNG(f.seed)
	for r := 0; r < arr.NArray; r++ {
		copy(arr.Replica(r), rng.Records(arr.N, f.min, f.max))
	}

	store, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	c, err := dump.ParseCompression(a.cfg.Dump.Compression)
	if err != nil {
		return err
	}

	h, err := dump.Save(ctx, store, f.out, arr, c, a.rc)
	if err != nil {
		return err
	}

	a.logger.Info("array generated", "name", f.out, "records", arr.N, "replicas", arr.NArray, "seed", f.seed)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records x %d replicas, %s, %d bytes\n",
		f.out, h.N, h.NArray, h.Compression, dump.HeaderSize+int(h.PayloadLen))
	return nil
}
