// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Scratch buffers for the reduction pipeline are allocated with a configurable
// power-of-two alignment (64 bytes by default, AVX-512 friendly).
package mem
