package fieldacc

import (
	"github.com/hupe1980/fieldacc/internal/mem"
	"github.com/hupe1980/fieldacc/internal/pipeline"
	"github.com/hupe1980/fieldacc/layout"
)

// MaxReplicas is the largest number of replicas Reduce accepts.
const MaxReplicas = pipeline.MaxReplicas

// Array is a replicated accumulator array.
//
// Replica r occupies Records[r*Stride : r*Stride+N]. Records between the end
// of one replica and the start of the next are never read or written.
type Array struct {
	// Records is the whole replicated allocation.
	Records []layout.Record
	// N is the number of records per replica.
	N int
	// NArray is the number of replicas.
	NArray int
	// Stride is the distance in records between consecutive replicas.
	Stride int
}

// NewArray allocates nArray contiguous replicas of n zeroed records.
func NewArray(n, nArray int) *Array {
	return &Array{
		Records: mem.AllocAlignedRecords(nArray*n, mem.Alignment),
		N:       n,
		NArray:  nArray,
		Stride:  n,
	}
}

// NewArrayStride allocates nArray replicas of n records spaced stride records apart.
func NewArrayStride(n, nArray, stride int) (*Array, error) {
	a := &Array{N: n, NArray: nArray, Stride: stride}
	span, ok := pipeline.Span(n, nArray, stride)
	if nArray > MaxReplicas || nArray < 0 || n < 0 || (nArray >= 2 && stride < n) || !ok {
		return nil, a.Validate()
	}
	if nArray > 0 {
		a.Records = mem.AllocAlignedRecords(span, mem.Alignment)
	}
	return a, nil
}

// Replica returns replica r's records. It panics if r is out of range.
func (a *Array) Replica(r int) []layout.Record {
	base := r * a.Stride
	return a.Records[base : base+a.N : base+a.N]
}

// Bytes returns the size of all replicas in bytes, excluding gaps.
func (a *Array) Bytes() int64 {
	return int64(a.N) * int64(a.NArray) * layout.RecordBytes
}

// Validate checks the geometry. The replica limit is checked first so that an
// oversized replica count is reported as ErrTooManyReplicas.
func (a *Array) Validate() error {
	if a == nil {
		return invalid("Array", 0)
	}
	if a.NArray > MaxReplicas {
		return &ConfigError{Field: "NArray", Value: a.NArray, Limit: MaxReplicas, kind: ErrTooManyReplicas}
	}
	if a.NArray < 0 {
		return invalid("NArray", a.NArray)
	}
	if a.N < 0 {
		return invalid("N", a.N)
	}
	if a.NArray >= 2 && a.Stride < a.N {
		return &ConfigError{Field: "Stride", Value: a.Stride, Limit: a.N, kind: ErrInvalidConfig}
	}
	if a.NArray >= 1 {
		need, ok := pipeline.Span(a.N, a.NArray, a.Stride)
		if !ok {
			return invalid("Stride", a.Stride)
		}
		if len(a.Records) < need {
			return &ConfigError{Field: "Records", Value: len(a.Records), Limit: need, kind: ErrInvalidConfig}
		}
	}
	return nil
}

func (a *Array) config(nb int) pipeline.Config {
	return pipeline.Config{
		Records:   a.Records,
		N:         a.N,
		NArray:    a.NArray,
		Stride:    a.Stride,
		BlockSize: nb,
	}
}
