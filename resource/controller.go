package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for scratch memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxPipelines is the maximum number of reduction workers running at once.
	// If 0, pipelines are not limited.
	MaxPipelines int64

	// TransferBytesPerSec is the maximum block transfer throughput.
	// If 0, unlimited.
	TransferBytesPerSec int64

	// IOLimitBytesPerSec is the maximum dump read/write throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages reduction resources (memory, concurrency, bandwidth).
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	pipeSem *semaphore.Weighted // nil if unlimited
	active  atomic.Int64

	xferLimiter *rate.Limiter // nil if unlimited
	xferBytes   atomic.Int64

	ioLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.MaxPipelines > 0 {
		c.pipeSem = semaphore.NewWeighted(cfg.MaxPipelines)
	}

	if cfg.TransferBytesPerSec > 0 {
		c.xferLimiter = rate.NewLimiter(rate.Limit(cfg.TransferBytesPerSec), int(cfg.TransferBytesPerSec))
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory attempts to reserve scratch memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquirePipeline reserves a pipeline slot, blocking while all slots are busy.
func (c *Controller) AcquirePipeline(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.pipeSem != nil {
		if err := c.pipeSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.active.Add(1)
	return nil
}

// ReleasePipeline releases a pipeline slot.
func (c *Controller) ReleasePipeline() {
	if c == nil {
		return
	}
	c.active.Add(-1)
	if c.pipeSem != nil {
		c.pipeSem.Release(1)
	}
}

// ActivePipelines returns the number of pipeline slots currently held.
func (c *Controller) ActivePipelines() int64 {
	if c == nil {
		return 0
	}
	return c.active.Load()
}

// AcquireTransfer waits until the bandwidth limit allows bytes to move.
func (c *Controller) AcquireTransfer(ctx context.Context, bytes int) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	c.xferBytes.Add(int64(bytes))
	return waitN(ctx, c.xferLimiter, bytes)
}

// TransferredBytes returns the total bytes admitted for transfer.
func (c *Controller) TransferredBytes() int64 {
	if c == nil {
		return 0
	}
	return c.xferBytes.Load()
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	return waitN(ctx, c.ioLimiter, bytes)
}

// waitN splits requests larger than the bucket into burst-sized waits.
func waitN(ctx context.Context, lim *rate.Limiter, bytes int) error {
	if lim == nil {
		return nil
	}
	burst := lim.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := lim.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
