package fieldacc

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordReduce is called after each Reduce or ReducePipeline call.
	// records and replicas describe the array, duration is the total time
	// taken, err is nil if successful.
	RecordReduce(records, replicas int, duration time.Duration, err error)

	// RecordPipeline is called after each pipeline finishes.
	// wait is the time the pipeline spent blocked on transfers.
	RecordPipeline(blocks, records int, wait, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordReduce(int, int, time.Duration, error)                  {}
func (NoopMetricsCollector) RecordPipeline(int, int, time.Duration, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReduceCount      atomic.Int64
	ReduceErrors     atomic.Int64
	ReduceRecords    atomic.Int64
	ReduceTotalNanos atomic.Int64
	PipelineCount    atomic.Int64
	PipelineErrors   atomic.Int64
	PipelineBlocks   atomic.Int64
	PipelineWaitNano atomic.Int64
}

// RecordReduce implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReduce(records, replicas int, duration time.Duration, err error) {
	b.ReduceCount.Add(1)
	b.ReduceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReduceErrors.Add(1)
		return
	}
	b.ReduceRecords.Add(int64(records))
}

// RecordPipeline implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPipeline(blocks, records int, wait, duration time.Duration, err error) {
	b.PipelineCount.Add(1)
	b.PipelineBlocks.Add(int64(blocks))
	b.PipelineWaitNano.Add(wait.Nanoseconds())
	if err != nil {
		b.PipelineErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReduceCount:    b.ReduceCount.Load(),
		ReduceErrors:   b.ReduceErrors.Load(),
		ReduceRecords:  b.ReduceRecords.Load(),
		ReduceAvgNanos: avg(b.ReduceTotalNanos.Load(), b.ReduceCount.Load()),
		PipelineCount:  b.PipelineCount.Load(),
		PipelineErrors: b.PipelineErrors.Load(),
		PipelineBlocks: b.PipelineBlocks.Load(),
		WaitAvgNanos:   avg(b.PipelineWaitNano.Load(), b.PipelineCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReduceCount    int64
	ReduceErrors   int64
	ReduceRecords  int64
	ReduceAvgNanos int64
	PipelineCount  int64
	PipelineErrors int64
	PipelineBlocks int64
	WaitAvgNanos   int64
}
