package partition

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrInvalidArgument is returned for malformed partition requests.
var ErrInvalidArgument = errors.New("partition: invalid argument")

// Range is the half-open record interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of records in the range.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range holds no records.
func (r Range) Empty() bool { return r.End <= r.Start }

// Blocks returns the number of blocks of size nb the range spans.
func (r Range) Blocks(nb int) int {
	if r.Empty() || nb <= 0 {
		return 0
	}
	return (r.Len() + nb - 1) / nb
}

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

func validate(n, nb, rank, count int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: negative record count %d", ErrInvalidArgument, n)
	case nb <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidArgument, nb)
	case count <= 0:
		return fmt.Errorf("%w: worker count %d", ErrInvalidArgument, count)
	case rank < 0 || rank >= count:
		return fmt.Errorf("%w: rank %d not in [0,%d)", ErrInvalidArgument, rank, count)
	}
	return nil
}

// Distribute returns the range of records owned by rank out of count workers.
func Distribute(n, nb, rank, count int) (Range, error) {
	if err := validate(n, nb, rank, count); err != nil {
		return Range{}, err
	}

	blocks := (n + nb - 1) / nb
	b0 := rank * blocks / count
	b1 := (rank + 1) * blocks / count

	return Range{Start: min(b0*nb, n), End: min(b1*nb, n)}, nil
}

// Ranges returns the range of every rank, indexed by rank.
func Ranges(n, nb, count int) ([]Range, error) {
	out := make([]Range, count)
	for rank := range out {
		r, err := Distribute(n, nb, rank, count)
		if err != nil {
			return nil, err
		}
		out[rank] = r
	}
	return out, nil
}

// DistributeHost splits whole blocks over count pipelines and gives the
// n%nb remainder to an extra host rank (rank == count). The split of whole
// blocks rounds to nearest, so ranks may differ by one block.
func DistributeHost(n, nb, rank, count int) (Range, error) {
	if rank == count {
		if err := validate(n, nb, 0, count); err != nil {
			return Range{}, err
		}
		return Range{Start: n - n%nb, End: n}, nil
	}
	if err := validate(n, nb, rank, count); err != nil {
		return Range{}, err
	}

	t := float64(n/nb) / float64(count)
	start := nb * int(t*float64(rank)+0.5)
	end := nb * int(t*float64(rank+1)+0.5)
	return Range{Start: start, End: end}, nil
}

// Verify checks that ranges cover [0,n) exactly once.
func Verify(n int, ranges []Range) error {
	if n < 0 {
		return fmt.Errorf("%w: negative record count %d", ErrInvalidArgument, n)
	}

	covered := roaring.New()
	var total uint64

	for rank, r := range ranges {
		if r.Empty() {
			continue
		}
		if r.Start < 0 || r.End > n {
			return fmt.Errorf("partition: rank %d range %s outside [0,%d)", rank, r, n)
		}

		span := roaring.New()
		span.AddRange(uint64(r.Start), uint64(r.End))
		if covered.Intersects(span) {
			return fmt.Errorf("partition: rank %d range %s overlaps another rank", rank, r)
		}
		covered.Or(span)
		total += uint64(r.Len())
	}

	if total != uint64(n) || covered.GetCardinality() != uint64(n) {
		missing := roaring.New()
		missing.AddRange(0, uint64(n))
		missing.AndNot(covered)
		return fmt.Errorf("partition: %d records uncovered (first %d)", missing.GetCardinality(), missing.Minimum())
	}
	return nil
}
