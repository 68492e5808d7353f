package fieldacc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/fieldacc/internal/partition"
	"github.com/hupe1980/fieldacc/internal/pipeline"
)

// Reducer sums the replicas of accumulator arrays into replica 0.
//
// A Reducer is safe for concurrent use on distinct arrays.
type Reducer struct {
	opts options
}

// New creates a Reducer.
func New(optFns ...Option) (*Reducer, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Reducer{opts: o}, nil
}

// Workers returns the configured number of concurrent pipelines.
func (r *Reducer) Workers() int { return r.opts.workers }

// BlockSize returns the configured number of records per transfer block.
func (r *Reducer) BlockSize() int { return r.opts.blockSize }

// Alignment returns the configured scratch alignment in bytes.
func (r *Reducer) Alignment() int { return r.opts.alignment }

// Reduce sums all replicas of arr into replica 0.
//
// The array is validated before any transfer is issued. Arrays with fewer
// than two replicas are left untouched.
func (r *Reducer) Reduce(ctx context.Context, arr *Array) error {
	start := time.Now()

	workers, err := r.reduce(ctx, arr)
	err = translateError(err)

	if arr != nil {
		r.opts.metricsCollector.RecordReduce(arr.N, arr.NArray, time.Since(start), err)
		r.opts.logger.LogReduce(ctx, arr.N, arr.NArray, workers, err)
	}
	return err
}

func (r *Reducer) reduce(ctx context.Context, arr *Array) (int, error) {
	if err := arr.Validate(); err != nil {
		return 0, err
	}
	if arr.NArray < 2 || arr.N == 0 {
		r.opts.logger.DebugContext(ctx, "nothing to reduce", "records", arr.N, "replicas", arr.NArray)
		return 0, nil
	}

	nb := r.opts.blockSize
	count := min(r.opts.workers, (arr.N+nb-1)/nb)

	if r.opts.partitionCheck {
		ranges, err := partition.Ranges(arr.N, nb, count)
		if err != nil {
			return count, err
		}
		if err := partition.Verify(arr.N, ranges); err != nil {
			return count, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < count; rank++ {
		g.Go(func() error {
			return r.runPipeline(gctx, arr, rank, count)
		})
	}
	return count, g.Wait()
}

// ReducePipeline runs pipeline rank of count over arr. Running every rank in
// [0, count) once, in any order or concurrently, is equivalent to Reduce.
//
// Each call is reported to the metrics collector as one reduce over the
// records of its partition.
func (r *Reducer) ReducePipeline(ctx context.Context, arr *Array, rank, count int) error {
	start := time.Now()

	records, err := r.reducePipeline(ctx, arr, rank, count)
	err = translateError(err)

	if arr != nil {
		r.opts.metricsCollector.RecordReduce(records, arr.NArray, time.Since(start), err)
		r.opts.logger.LogReduce(ctx, records, arr.NArray, count, err)
	}
	return err
}

func (r *Reducer) reducePipeline(ctx context.Context, arr *Array, rank, count int) (int, error) {
	if err := arr.Validate(); err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, invalid("Count", count)
	}
	if rank < 0 || rank >= count {
		return 0, &ConfigError{Field: "Rank", Value: rank, Limit: count, kind: ErrInvalidConfig}
	}
	if arr.NArray < 2 {
		return 0, nil
	}
	part, err := partition.Distribute(arr.N, r.opts.blockSize, rank, count)
	if err != nil {
		return 0, err
	}
	return part.Len(), r.runPipeline(ctx, arr, rank, count)
}

func (r *Reducer) runPipeline(ctx context.Context, arr *Array, rank, count int) (err error) {
	part, err := partition.Distribute(arr.N, r.opts.blockSize, rank, count)
	if err != nil {
		return err
	}
	if part.Empty() {
		return nil
	}

	rc := r.opts.rc
	if err := rc.AcquirePipeline(ctx); err != nil {
		return fmt.Errorf("pipeline %d: %w", rank, err)
	}
	defer rc.ReleasePipeline()

	start := time.Now()
	var stats pipeline.Stats
	logger := r.opts.logger.WithRank(rank, count)
	defer func() {
		r.opts.metricsCollector.RecordPipeline(stats.Blocks, stats.Records, stats.WaitTime, time.Since(start), err)
		logger.LogPipeline(ctx, rank, stats.Blocks, stats.Records, err)
	}()

	scratch, err := pipeline.NewScratch(r.opts.blockSize, arr.NArray, r.opts.alignment, rc)
	if err != nil {
		return fmt.Errorf("pipeline %d: %w", rank, err)
	}
	defer scratch.Release()

	eng, err := r.opts.engines(ctx, rc)
	if err != nil {
		return fmt.Errorf("pipeline %d: transfer engine: %w", rank, err)
	}
	if c, ok := eng.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
	}

	d, err := pipeline.NewDriver(arr.config(r.opts.blockSize), eng, scratch, pipeline.WithLogger(logger.Logger))
	if err != nil {
		return err
	}

	stats, err = d.Run(ctx, part)
	if err != nil {
		return fmt.Errorf("pipeline %d %s: %w", rank, part, err)
	}
	return nil
}

// Reduce sums all replicas of arr into replica 0 using a Reducer configured
// with optFns.
func Reduce(ctx context.Context, arr *Array, optFns ...Option) error {
	r, err := New(optFns...)
	if err != nil {
		return err
	}
	return r.Reduce(ctx, arr)
}

// ReducePipeline runs pipeline rank of count over arr using a Reducer
// configured with optFns.
func ReducePipeline(ctx context.Context, arr *Array, rank, count int, optFns ...Option) error {
	r, err := New(optFns...)
	if err != nil {
		return err
	}
	return r.ReducePipeline(ctx, arr, rank, count)
}

// MustReduce is like Reduce but panics if the reduction fails.
func MustReduce(ctx context.Context, arr *Array, optFns ...Option) {
	if err := Reduce(ctx, arr, optFns...); err != nil {
		panic(fmt.Sprintf("fieldacc: %v", err))
	}
}
