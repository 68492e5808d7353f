package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hupe1980/fieldacc/internal/kernel"
	"github.com/hupe1980/fieldacc/internal/partition"
	"github.com/hupe1980/fieldacc/internal/transfer"
)

// State is a pipeline driver state.
type State uint8

const (
	// Idle is the state before Run.
	Idle State = iota
	// PrefetchInitial issues the first block's fetches.
	PrefetchInitial
	// ProcessBlock merges and stores one block.
	ProcessBlock
	// Drain waits for the final store.
	Drain
	// Done means no transfers remain.
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PrefetchInitial:
		return "prefetch_initial"
	case ProcessBlock:
		return "process_block"
	case Drain:
		return "drain"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Stats summarizes one driver run.
type Stats struct {
	Blocks         int
	Records        int
	FetchedRecords int
	StoredRecords  int
	// WaitTime is the time spent blocked on transfer tags.
	WaitTime time.Duration
}

// Driver runs the reduction over one partition.
type Driver struct {
	cfg     Config
	eng     transfer.Engine
	scratch *Scratch
	logger  *slog.Logger
	onState func(State)

	state State
	stats Stats
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithStateHook registers fn to observe state transitions.
func WithStateHook(fn func(State)) Option {
	return func(d *Driver) {
		d.onState = fn
	}
}

// NewDriver creates a driver for cfg using eng for transfers and scratch for
// local buffers.
func NewDriver(cfg Config, eng transfer.Engine, scratch *Scratch, optFns ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, fmt.Errorf("%w: nil transfer engine", ErrInvalidConfig)
	}
	if !cfg.Degenerate() && !scratch.Fits(cfg) {
		return nil, fmt.Errorf("%w: scratch does not fit block size %d, %d replicas", ErrInvalidConfig, cfg.BlockSize, cfg.NArray)
	}

	d := &Driver{cfg: cfg, eng: eng, scratch: scratch}
	for _, fn := range optFns {
		fn(d)
	}
	return d, nil
}

// State returns the current state.
func (d *Driver) State() State { return d.state }

// Stats returns the statistics of the last run.
func (d *Driver) Stats() Stats { return d.stats }

func (d *Driver) enter(s State) {
	d.state = s
	if d.onState != nil {
		d.onState(s)
	}
}

func (d *Driver) wait(tag transfer.Tag) error {
	start := time.Now()
	err := d.eng.Wait(tag)
	d.stats.WaitTime += time.Since(start)
	return err
}

func (d *Driver) get(r, start, n int) error {
	d.stats.FetchedRecords += n
	return d.eng.Get(transfer.Tag(r), d.scratch.slot(r, n), d.cfg.block(r, start, n))
}

// abort waits on every tag so no transfer touches scratch after return.
func (d *Driver) abort(err error) error {
	errs := []error{err}
	for tag := 0; tag <= d.cfg.NArray; tag++ {
		if werr := d.eng.Wait(transfer.Tag(tag)); werr != nil {
			errs = append(errs, werr)
		}
	}
	d.enter(Done)
	return errors.Join(errs...)
}

// Run reduces every block of part into replica 0.
func (d *Driver) Run(ctx context.Context, part partition.Range) (Stats, error) {
	d.stats = Stats{}
	if d.cfg.Degenerate() || part.Empty() {
		d.enter(Done)
		return d.stats, nil
	}
	if part.Start < 0 || part.End > d.cfg.N {
		return d.stats, fmt.Errorf("%w: partition %s outside [0,%d)", ErrInvalidConfig, part, d.cfg.N)
	}

	var (
		na  = d.cfg.NArray
		nb  = d.cfg.BlockSize
		out = transfer.OutputTag(na)
		g   = d.scratch.g
		st  = d.scratch.d
	)

	blockLen := func(i int) int { return min(nb, part.End-i) }

	d.enter(PrefetchInitial)
	n0 := blockLen(part.Start)
	for r := 0; r < na; r++ {
		if err := d.get(r, part.Start, n0); err != nil {
			return d.stats, d.abort(err)
		}
	}

	for i := part.Start; i < part.End; i += nb {
		if err := ctx.Err(); err != nil {
			return d.stats, d.abort(err)
		}
		d.enter(ProcessBlock)

		n := blockLen(i)
		next := i + nb
		nn := 0
		if next < part.End {
			nn = blockLen(next)
		}

		for r := 0; r < na; r++ {
			if err := d.wait(transfer.Tag(r)); err != nil {
				return d.stats, d.abort(err)
			}
			if r == 0 {
				kernel.Seed(st, d.scratch.slot(0, n))
			} else {
				kernel.Accumulate(st, d.scratch.slot(r, n))
			}
			if nn > 0 {
				if err := d.get(r, next, nn); err != nil {
					return d.stats, d.abort(err)
				}
			}
		}

		// The previous block's store still reads g until waited on.
		if err := d.wait(out); err != nil {
			return d.stats, d.abort(err)
		}
		kernel.Pack(g[:n], st)
		if err := d.eng.Put(out, d.cfg.block(0, i, n), g[:n]); err != nil {
			return d.stats, d.abort(err)
		}

		d.stats.Blocks++
		d.stats.Records += n
		d.stats.StoredRecords += n
	}

	d.enter(Drain)
	if err := d.wait(out); err != nil {
		return d.stats, d.abort(err)
	}
	d.enter(Done)

	if d.logger != nil {
		d.logger.DebugContext(ctx, "pipeline drained",
			"range", part.String(),
			"blocks", d.stats.Blocks,
			"wait", d.stats.WaitTime,
		)
	}
	return d.stats, nil
}

// Reduce is a convenience wrapper that allocates scratch, runs one driver
// over part and releases the scratch.
func Reduce(ctx context.Context, cfg Config, part partition.Range, eng transfer.Engine, align int, optFns ...Option) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if cfg.Degenerate() || part.Empty() {
		return Stats{}, nil
	}

	scratch, err := NewScratch(cfg.BlockSize, cfg.NArray, align, nil)
	if err != nil {
		return Stats{}, err
	}
	defer scratch.Release()

	d, err := NewDriver(cfg, eng, scratch, optFns...)
	if err != nil {
		return Stats{}, err
	}
	return d.Run(ctx, part)
}
