// Package partition splits a record range into per-worker block-aligned ranges.
//
// Every rank's range starts on a block boundary. Whole blocks are dealt out
// as evenly as integer division allows; when the block count does not divide
// evenly, the higher ranks receive the extra block. The final block of the
// range may be short when n is not a multiple of the block size.
package partition
