// Package hash provides the CRC32-Castagnoli checksums used by dumps and
// blob uploads.
//
// CRC32C is hardware accelerated by hash/crc32 on x86 (SSE4.2) and arm64.
// RecordDigest fuses the checksum with record serialization:
//
//	d := hash.NewRecordDigest()
//	for i := range recs {
//		d.PutRecord(buf[i*layout.RecordBytes:], &recs[i])
//	}
//	sum := d.Sum32()
package hash
