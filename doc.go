// Package fieldacc reduces replicated current-accumulator arrays.
//
// A particle push deposits current into several replica copies of the
// accumulator array so that concurrent pushers never write the same record.
// Before the field solve the replicas must be summed into one array. fieldacc
// performs that sum in place into replica 0, partitioning the records across
// concurrent pipelines that overlap block transfers with accumulation.
//
// # Quick Start
//
//	arr := fieldacc.NewArray(n, 4) // 4 replicas of n records
//	// ... deposit into arr.Replica(0..3) ...
//	r, err := fieldacc.New(fieldacc.WithWorkers(8))
//	if err != nil {
//	    return err
//	}
//	if err := r.Reduce(ctx, arr); err != nil {
//	    return err
//	}
//	sum := arr.Replica(0)
//
// # Records
//
// Every record is a layout.Record of 16 float32 lanes: three 4-lane current
// vectors (Jx, Jy, Jz) followed by 4 padding lanes. Sums are staged in
// float64 and rounded to float32 once per record. Padding lanes of the
// reduced replica are written as zero.
//
// # Pipelines
//
// Reduce forks one pipeline per worker and joins them before returning. A
// pipeline owns a contiguous, block-aligned range of records and runs
//
//	PrefetchInitial → ProcessBlock (per block) → Drain → Done
//
// fetching block k+1 of each replica while block k is accumulated, and
// waiting for its last store before it returns. ReducePipeline runs a single
// worker's share for callers that schedule the workers themselves.
//
// # Limits
//
// At most MaxReplicas replicas are supported. Larger replica counts are
// rejected with ErrTooManyReplicas before any transfer is issued; replica
// counts below 2 are a no-op.
package fieldacc
