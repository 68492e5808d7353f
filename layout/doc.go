// Package layout defines the packed accumulator record and its float64 staging form.
//
// # Record Layout
//
// A Record is one voxel's current accumulator: three 4-lane vectors (Jx, Jy, Jz)
// followed by one padding vector, 16 float32 lanes (64 bytes) in total:
//
//	lane:  0  1  2  3 |  4  5  6  7 |  8  9 10 11 | 12 13 14 15
//	       ---- Jx --- | ---- Jy --- | ---- Jz --- | -- pad ---
//
// # Staging Layout
//
// Wide is the float64 staging form used while summing replicas. Each 4-lane
// vector is regrouped into the pairs (0,2) and (1,3):
//
//	wide:  0  1  2  3 |  4  5  6  7 |  8  9 10 11
//	lane:  0  2  1  3 |  4  6  5  7 |  8 10  9 11
//
// WideOrder is the table mapping a wide slot to its record lane. Unpack and
// Pack are exact inverses on live lanes; Pack clears the padding lanes.
package layout
