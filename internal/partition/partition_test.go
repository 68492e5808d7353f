package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute_Completeness(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 16, 17, 255, 256, 257, 1000, 4097} {
		for _, nb := range []int{1, 2, 4, 16, 64, 256} {
			for _, count := range []int{1, 2, 3, 4, 7, 16, 64} {
				t.Run(fmt.Sprintf("n=%d/nb=%d/count=%d", n, nb, count), func(t *testing.T) {
					ranges, err := Ranges(n, nb, count)
					require.NoError(t, err)
					require.NoError(t, Verify(n, ranges))

					next := 0
					for _, r := range ranges {
						if r.Empty() {
							continue
						}
						assert.Equal(t, next, r.Start, "ranges must be contiguous in rank order")
						assert.Zero(t, r.Start%nb, "start must be block aligned")
						next = r.End
					}
					assert.Equal(t, n, next)
				})
			}
		}
	}
}

func TestDistribute_Deterministic(t *testing.T) {
	a, err := Ranges(12345, 64, 7)
	require.NoError(t, err)
	b, err := Ranges(12345, 64, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDistribute_Balanced(t *testing.T) {
	ranges, err := Ranges(100*16, 16, 8)
	require.NoError(t, err)

	for _, r := range ranges {
		blocks := r.Blocks(16)
		assert.True(t, blocks == 12 || blocks == 13, "got %d blocks", blocks)
	}
}

func TestDistribute_MoreWorkersThanBlocks(t *testing.T) {
	ranges, err := Ranges(5, 4, 8)
	require.NoError(t, err)
	require.NoError(t, Verify(5, ranges))

	nonEmpty := 0
	for _, r := range ranges {
		if !r.Empty() {
			nonEmpty++
		}
	}
	assert.Equal(t, 2, nonEmpty)
}

func TestDistribute_InvalidArguments(t *testing.T) {
	tests := []struct {
		name               string
		n, nb, rank, count int
	}{
		{"negative n", -1, 4, 0, 1},
		{"zero block", 10, 0, 0, 1},
		{"zero workers", 10, 4, 0, 0},
		{"rank too large", 10, 4, 2, 2},
		{"negative rank", 10, 4, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distribute(tt.n, tt.nb, tt.rank, tt.count)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestDistributeHost_CoversSameRecords(t *testing.T) {
	for _, n := range []int{0, 7, 64, 1000, 1031} {
		for _, count := range []int{1, 3, 6} {
			nb := 16
			var ranges []Range
			for rank := 0; rank <= count; rank++ {
				r, err := DistributeHost(n, nb, rank, count)
				require.NoError(t, err)
				ranges = append(ranges, r)
			}
			require.NoError(t, Verify(n, ranges), "n=%d count=%d", n, count)

			own, err := Ranges(n, nb, count)
			require.NoError(t, err)
			require.NoError(t, Verify(n, own))
		}
	}
}

func TestVerify_Detects(t *testing.T) {
	assert.Error(t, Verify(10, []Range{{0, 5}, {4, 10}}), "overlap")
	assert.Error(t, Verify(10, []Range{{0, 5}, {6, 10}}), "gap")
	assert.Error(t, Verify(10, []Range{{0, 11}}), "out of bounds")
	assert.NoError(t, Verify(10, []Range{{5, 10}, {0, 5}, {7, 7}}))
	assert.NoError(t, Verify(0, nil))
}

func TestRange(t *testing.T) {
	r := Range{Start: 16, End: 40}
	assert.Equal(t, 24, r.Len())
	assert.Equal(t, 2, r.Blocks(16))
	assert.Equal(t, 3, r.Blocks(10))
	assert.Equal(t, "[16,40)", r.String())
	assert.True(t, Range{3, 3}.Empty())
	assert.Zero(t, Range{3, 3}.Blocks(4))
}
