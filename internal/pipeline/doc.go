// Package pipeline drives one worker's share of the accumulator reduction.
//
// # State Machine
//
//	PrefetchInitial ──► ProcessBlock ──► Drain ──► Done
//	                      │    ▲
//	                      └────┘ (next block)
//
// The states do the following:
//
//   - PrefetchInitial: issue the first block's fetch for every replica
//   - ProcessBlock: for replica 0..n-1 wait, merge into the float64 staging
//     buffer and prefetch the replica's next block; then wait for the previous
//     store, pack and issue this block's store
//   - Drain: wait for the last store so the destination is final on return
//
// # Buffers
//
// A Scratch holds one fetch slot per replica (f), one output staging slot (g)
// and the float64 staging buffer (d). The output slot is reused only after the
// store that read it has been waited on.
package pipeline
