package fieldacc

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/hupe1980/fieldacc/internal/simd"
	"github.com/hupe1980/fieldacc/internal/transfer"
	"github.com/hupe1980/fieldacc/resource"
)

// DefaultBlockSize is the default number of records per transfer block.
const DefaultBlockSize = 256

// Engine is the block transfer engine a pipeline issues its fetches and
// stores through. See WithEngineFactory.
type Engine = transfer.Engine

// Tag identifies an outstanding transfer of an Engine.
type Tag = transfer.Tag

// EngineFactory creates the transfer engine for one pipeline. The engine is
// closed after the pipeline returns if it implements io.Closer.
type EngineFactory func(ctx context.Context, rc *resource.Controller) (Engine, error)

// AsyncEngines is the default EngineFactory. Every transfer runs on its own
// goroutine and is throttled by the controller's transfer limit.
func AsyncEngines(ctx context.Context, rc *resource.Controller) (Engine, error) {
	return transfer.NewAsync(ctx, transfer.WithController(rc)), nil
}

// SyncEngines is an EngineFactory whose transfers complete at issue time.
func SyncEngines(context.Context, *resource.Controller) (Engine, error) {
	return transfer.NewSync(), nil
}

type options struct {
	workers          int
	blockSize        int
	alignment        int
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	engines          EngineFactory
	partitionCheck   bool
}

// Option configures a Reducer.
type Option func(*options)

// WithWorkers sets the number of concurrent pipelines Reduce forks.
// Defaults to runtime.NumCPU(). Reduce never forks more pipelines than the
// array has blocks.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBlockSize sets the number of records moved per transfer.
// Each pipeline holds (replicas+1)*blockSize records plus 12*blockSize
// float64 values of scratch.
func WithBlockSize(nb int) Option {
	return func(o *options) {
		o.blockSize = nb
	}
}

// WithAlignment sets the byte alignment of pipeline scratch buffers.
// Defaults to the vector width of the active instruction set, overridable
// through the FIELDACC_SIMD environment variable.
func WithAlignment(align int) Option {
	return func(o *options) {
		o.alignment = align
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fieldacc.BasicMetricsCollector{}
//	r, _ := fieldacc.New(fieldacc.WithMetricsCollector(metrics))
//	// ... reduce ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reductions: %d, Avg latency: %dns\n", stats.ReduceCount, stats.ReduceAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fieldacc.NewJSONLogger(slog.LevelInfo)
//	r, _ := fieldacc.New(fieldacc.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds scratch memory, concurrent pipelines and
// transfer bandwidth. A nil controller imposes no limits.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	    MaxPipelines:     4,
//	})
//	r, _ := fieldacc.New(fieldacc.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithEngineFactory replaces the transfer engine used by each pipeline.
func WithEngineFactory(f EngineFactory) Option {
	return func(o *options) {
		o.engines = f
	}
}

// WithPartitionCheck verifies before every Reduce that the pipeline ranges
// cover each record exactly once.
func WithPartitionCheck(enabled bool) Option {
	return func(o *options) {
		o.partitionCheck = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:          runtime.NumCPU(),
		blockSize:        DefaultBlockSize,
		alignment:        simd.PreferredAlignment(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		engines:          AsyncEngines,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.workers <= 0 {
		return invalid("Workers", o.workers)
	}
	if o.blockSize <= 0 {
		return invalid("BlockSize", o.blockSize)
	}
	if o.engines == nil {
		o.engines = AsyncEngines
	}
	return validateAlignment(o.alignment)
}
