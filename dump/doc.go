// Package dump reads and writes accumulator array dumps.
//
// A dump captures a replicated accumulator array, gaps between replicas
// included, so that it can be reduced offline and compared against a
// reference. All integers are little endian.
//
//	┌──────────────────────────────────────────────────────────┐
//	│ magic "FACC" │ version u16 │ compression u8 │ reserved u8 │
//	├──────────────────────────────────────────────────────────┤
//	│ n u64 │ nArray u32 │ stride u64                           │
//	├──────────────────────────────────────────────────────────┤
//	│ payloadLen u64 │ rawLen u64 │ crc32c u32                  │
//	├──────────────────────────────────────────────────────────┤
//	│ payload: 64-byte records, possibly compressed             │
//	└──────────────────────────────────────────────────────────┘
//
// The checksum covers the uncompressed record bytes. A payload that does not
// shrink under the requested compression is stored uncompressed and the
// header records None.
package dump
