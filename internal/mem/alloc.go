package mem

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/fieldacc/layout"
)

// Alignment is the default byte alignment (AVX-512 cache line).
const Alignment = 64

// MinAlignment is the smallest alignment accepted by ValidateAlignment.
// float64 staging data requires at least 8 bytes.
const MinAlignment = 8

// MaxAlignment caps alignment requests at one page.
const MaxAlignment = 4096

// ValidateAlignment reports whether align is a usable power of two.
func ValidateAlignment(align int) error {
	if align < MinAlignment || align > MaxAlignment {
		return fmt.Errorf("alignment %d out of range [%d, %d]", align, MinAlignment, MaxAlignment)
	}
	if align&(align-1) != 0 {
		return fmt.Errorf("alignment %d is not a power of two", align)
	}
	return nil
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
func AllocAligned(size int) []byte {
	return AllocAlignedN(size, Alignment)
}

// AllocAlignedN allocates size bytes starting at an address divisible by align.
// align must satisfy ValidateAlignment.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAlignedN(size, align int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+align)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	a := uintptr(align)
	offset := (a - (addr & (a - 1))) & (a - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedFloat64 allocates n float64 values aligned to align bytes.
func AllocAlignedFloat64(n, align int) []float64 {
	if n <= 0 {
		return nil
	}
	b := AllocAlignedN(n*8, align)
	ptr := unsafe.Pointer(&b[0])            //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*float64)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}

// AllocAlignedRecords allocates n accumulator records aligned to align bytes.
func AllocAlignedRecords(n, align int) []layout.Record {
	if n <= 0 {
		return nil
	}
	b := AllocAlignedN(n*layout.RecordBytes, align)
	ptr := unsafe.Pointer(&b[0])                  //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*layout.Record)(ptr), n) //nolint:gosec // unsafe is required for memory alignment
}

// IsAligned reports whether p's address is a multiple of align.
func IsAligned(p unsafe.Pointer, align int) bool {
	return uintptr(p)%uintptr(align) == 0
}
