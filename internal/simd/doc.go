// Package simd detects the vector ISA of the host CPU.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// The reduction kernels are written in portable Go; the detected ISA only
// selects the default alignment of scratch buffers so that block loads line
// up with the widest vector register. Set FIELDACC_SIMD to force an ISA
// (e.g. FIELDACC_SIMD=generic).
package simd
