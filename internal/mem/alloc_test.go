package mem

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)

		ptr := unsafe.Pointer(&buf[0])
		assert.True(t, IsAligned(ptr, Alignment), "size %d", size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocAlignedN(t *testing.T) {
	for _, align := range []int{8, 16, 32, 64, 128, 4096} {
		for _, size := range []int{1, 17, 4096} {
			buf := AllocAlignedN(size, align)
			assert.Len(t, buf, size)
			assert.True(t, IsAligned(unsafe.Pointer(&buf[0]), align), "align %d size %d", align, size)
		}
	}
}

func TestAllocAlignedFloat64(t *testing.T) {
	sizes := []int{1, 12, 13, 100, 3072}

	for _, size := range sizes {
		buf := AllocAlignedFloat64(size, 128)
		assert.Len(t, buf, size)
		assert.True(t, IsAligned(unsafe.Pointer(&buf[0]), 128))
	}

	assert.Nil(t, AllocAlignedFloat64(0, 64))
}

func TestAllocAlignedRecords(t *testing.T) {
	for _, n := range []int{1, 7, 256} {
		buf := AllocAlignedRecords(n, 128)
		assert.Len(t, buf, n)
		assert.True(t, IsAligned(unsafe.Pointer(&buf[0]), 128))

		// Memory is zeroed and writable.
		buf[n-1][15] = 1
		assert.Zero(t, buf[0][0])
	}

	assert.Nil(t, AllocAlignedRecords(-1, 64))
}

func TestValidateAlignment(t *testing.T) {
	tests := []struct {
		align int
		ok    bool
	}{
		{8, true},
		{16, true},
		{64, true},
		{4096, true},
		{0, false},
		{4, false},
		{24, false},
		{8192, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("align=%d", tt.align), func(t *testing.T) {
			err := ValidateAlignment(tt.align)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func BenchmarkAllocAlignedRecords(b *testing.B) {
	sizes := []int{64, 256, 1024}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("records=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAlignedRecords(size, Alignment)
			}
		})
	}
}
