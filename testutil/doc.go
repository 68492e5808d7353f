// Package testutil provides testing utilities for fieldacc.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic random generator for accumulator records and
// a sequential reference reduction to check pipelined results against.
//
// # Random Replicas
//
//	rng := testutil.NewRNG(seed)
//	recs := rng.Replicas(n, nArray, stride, -1, 1)
//
// # Reference Reduction
//
//	want := testutil.ReferenceSum(recs, n, nArray, stride)
package testutil
