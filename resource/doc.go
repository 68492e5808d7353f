// Package resource implements the Controller that governs reduction resources.
//
// The Controller manages four resource types:
//
//   - Scratch memory: per-pipeline staging buffers (non-blocking, fail-fast)
//   - Pipelines: the number of reduction workers running at once
//   - Transfer bandwidth: bytes per second moved by block transfers
//   - Dump IO: bytes per second read from or written to a dump store
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                         Controller                          │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Scratch Limit  │  Pipeline Slots │  Transfer Rate Limiter  │
//	│  (fail-fast)    │  (semaphore)    │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquirePipe-   │  AcquireTransfer        │
//	│  ReleaseMemory  │  line           │  TransferredBytes       │
//	│  MemoryUsage    │  ReleasePipe... │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Scratch Memory
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded if the
// limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//	if err := rc.AcquireMemory(scratchBytes); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(scratchBytes)
//
// # Pipeline Slots
//
//	if err := rc.AcquirePipeline(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleasePipeline()
//
// # Transfer Throttling
//
// A token bucket bounds the bandwidth of asynchronous block transfers.
// Requests larger than the bucket are split into burst-sized waits.
//
// # Dump IO
//
// RateLimitedReader and RateLimitedWriter apply the IO limit to dump streams:
//
//	w := resource.NewRateLimitedWriter(ctx, f, rc)
//	err := dump.Encode(w, arr, dump.ZSTD)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
