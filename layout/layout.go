package layout

const (
	// Lanes is the number of float32 lanes in a packed Record.
	Lanes = 16

	// Components is the number of live lanes (Jx, Jy, Jz times four edges).
	Components = 12

	// VectorWidth is the number of lanes in one accumulator vector.
	VectorWidth = 4

	// RecordBytes is the size of a packed Record in bytes.
	RecordBytes = Lanes * 4

	// WideBytes is the size of a Wide staging record in bytes.
	WideBytes = Components * 8
)

// Record is one voxel's packed single-precision accumulator.
type Record [Lanes]float32

// Wide is the double-precision staging form of a Record.
type Wide [Components]float64

// WideOrder maps a Wide slot to the Record lane it holds.
var WideOrder = [Components]int{0, 2, 1, 3, 4, 6, 5, 7, 8, 10, 9, 11}

// Jx returns the x-axis accumulator vector.
func (r *Record) Jx() [VectorWidth]float32 { return [VectorWidth]float32(r[0:4]) }

// Jy returns the y-axis accumulator vector.
func (r *Record) Jy() [VectorWidth]float32 { return [VectorWidth]float32(r[4:8]) }

// Jz returns the z-axis accumulator vector.
func (r *Record) Jz() [VectorWidth]float32 { return [VectorWidth]float32(r[8:12]) }

// Fill sets every live lane to v and clears the padding.
func (r *Record) Fill(v float32) {
	for i := 0; i < Components; i++ {
		r[i] = v
	}
	r.ClearPadding()
}

// ClearPadding zeroes lanes Components..Lanes-1.
func (r *Record) ClearPadding() {
	for i := Components; i < Lanes; i++ {
		r[i] = 0
	}
}

// Unpack widens src into dst using WideOrder.
func Unpack(dst *Wide, src *Record) {
	for j := 0; j < Components; j += VectorWidth {
		dst[j+0] = float64(src[j+0])
		dst[j+1] = float64(src[j+2])
		dst[j+2] = float64(src[j+1])
		dst[j+3] = float64(src[j+3])
	}
}

// AddUnpacked widens src and adds it into dst.
func AddUnpacked(dst *Wide, src *Record) {
	for j := 0; j < Components; j += VectorWidth {
		dst[j+0] += float64(src[j+0])
		dst[j+1] += float64(src[j+2])
		dst[j+2] += float64(src[j+1])
		dst[j+3] += float64(src[j+3])
	}
}

// Pack rounds src to float32 and writes it back in record lane order.
// Padding lanes are cleared.
func Pack(dst *Record, src *Wide) {
	for j := 0; j < Components; j += VectorWidth {
		dst[j+0] = float32(src[j+0])
		dst[j+2] = float32(src[j+1])
		dst[j+1] = float32(src[j+2])
		dst[j+3] = float32(src[j+3])
	}
	dst.ClearPadding()
}
