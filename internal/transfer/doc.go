// Package transfer implements tagged asynchronous block transfers.
//
// An Engine moves blocks of accumulator records between the shared
// accumulator array and a worker's local scratch buffers. Every transfer is
// issued on a Tag and returns immediately; Wait on the tag is the only
// blocking operation and the only point at which the transfer's buffers
// become safe to read or reuse.
//
// # Tag Discipline
//
// A tag carries at most one outstanding transfer. Issuing on a tag that has
// not been waited on since its last use fails with ErrTagBusy. The pipeline
// uses tags 0..n_array-1 for replica fetches and OutputTag(n_array) for stores.
//
// # Implementations
//
//   - Async: one goroutine per transfer, optional bandwidth throttling
//   - Sync: copies at issue time, useful for single-core runs and tests
//   - Recorder: wraps an Engine and logs issue/complete events
package transfer
