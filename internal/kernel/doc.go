// Package kernel implements the block kernels of the reduction pipeline.
//
//   - Seed: widen replica 0's block into the float64 staging buffer
//   - Accumulate: widen another replica's block and add it into the staging buffer
//   - Pack: round the staging buffer back into packed records
//
// The staging buffer holds layout.Components float64 values per record in
// the wide slot order of layout.WideOrder.
//
// SAFETY: the kernels do not check lengths beyond what slicing enforces.
// Callers MUST pass a staging buffer of at least len(block)*layout.Components.
package kernel
