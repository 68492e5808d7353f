package hash

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"math"

	"github.com/hupe1980/fieldacc/layout"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// RecordDigest checksums records while converting them to and from their
// little-endian wire form, so a record is never walked twice.
type RecordDigest struct {
	crc     hash.Hash32
	records int
}

// NewRecordDigest returns an empty digest.
func NewRecordDigest() *RecordDigest {
	return &RecordDigest{crc: crc32.New(castagnoli)}
}

// PutRecord writes rec into b[:layout.RecordBytes] and adds it to the digest.
func (d *RecordDigest) PutRecord(b []byte, rec *layout.Record) {
	b = b[:layout.RecordBytes]
	for l, v := range rec {
		binary.LittleEndian.PutUint32(b[l*4:], math.Float32bits(v))
	}
	d.add(b)
}

// GetRecord decodes b[:layout.RecordBytes] into rec and adds it to the digest.
func (d *RecordDigest) GetRecord(rec *layout.Record, b []byte) {
	b = b[:layout.RecordBytes]
	for l := range rec {
		rec[l] = math.Float32frombits(binary.LittleEndian.Uint32(b[l*4:]))
	}
	d.add(b)
}

func (d *RecordDigest) add(b []byte) {
	_, _ = d.crc.Write(b) // never fails
	d.records++
}

// Sum32 returns the checksum of all records seen so far.
func (d *RecordDigest) Sum32() uint32 { return d.crc.Sum32() }

// Records returns the number of records seen.
func (d *RecordDigest) Records() int { return d.records }
