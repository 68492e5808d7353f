package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/fieldacc/internal/transfer"
	"github.com/hupe1980/fieldacc/layout"
)

// MaxReplicas is the largest replica count the pipeline can reduce.
const MaxReplicas = transfer.MaxReplicas

var (
	// ErrTooManyReplicas is returned when NArray exceeds MaxReplicas.
	ErrTooManyReplicas = errors.New("replica count exceeds supported maximum")

	// ErrInvalidConfig is returned for malformed array geometry.
	ErrInvalidConfig = errors.New("invalid reduction config")
)

// Config describes the replicated accumulator array and the block size.
type Config struct {
	// Records is the whole replicated allocation.
	Records []layout.Record
	// N is the number of records per replica.
	N int
	// NArray is the number of replicas.
	NArray int
	// Stride is the distance in records between replica copies.
	Stride int
	// BlockSize is the number of records per transfer block.
	BlockSize int
}

// Validate checks the configuration. Replica counts below 2 are valid and
// make the reduction a no-op.
func (c Config) Validate() error {
	if c.NArray > MaxReplicas {
		return fmt.Errorf("%w: %d > %d", ErrTooManyReplicas, c.NArray, MaxReplicas)
	}
	if c.N < 0 {
		return fmt.Errorf("%w: negative record count %d", ErrInvalidConfig, c.N)
	}
	if c.NArray < 0 {
		return fmt.Errorf("%w: negative replica count %d", ErrInvalidConfig, c.NArray)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, c.BlockSize)
	}
	if c.NArray >= 2 && c.Stride < c.N {
		return fmt.Errorf("%w: stride %d smaller than record count %d", ErrInvalidConfig, c.Stride, c.N)
	}
	if c.NArray >= 1 {
		need, ok := Span(c.N, c.NArray, c.Stride)
		if !ok {
			return fmt.Errorf("%w: stride %d overflows for %d replicas", ErrInvalidConfig, c.Stride, c.NArray)
		}
		if len(c.Records) < need {
			return fmt.Errorf("%w: %d records backing %d replicas need %d", ErrInvalidConfig, len(c.Records), c.NArray, need)
		}
	}
	return nil
}

// Span returns the number of records nArray replicas of n records spaced
// stride apart occupy. ok is false if the span does not fit in an int or the
// stride is negative.
func Span(n, nArray, stride int) (span int, ok bool) {
	if nArray < 1 {
		return 0, true
	}
	if nArray == 1 {
		return n, true
	}
	if stride < 0 || stride > (math.MaxInt-n)/(nArray-1) {
		return 0, false
	}
	return (nArray-1)*stride + n, true
}

// Degenerate reports whether there is nothing to reduce.
func (c Config) Degenerate() bool {
	return c.NArray < 2 || c.N == 0
}

func (c Config) block(r, start, n int) []layout.Record {
	base := r*c.Stride + start
	return c.Records[base : base+n]
}
