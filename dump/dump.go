package dump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/internal/conv"
	"github.com/hupe1980/fieldacc/internal/hash"
	"github.com/hupe1980/fieldacc/layout"
)

const (
	// Magic identifies a dump file.
	Magic = "FACC"
	// Version is the format version written by Encode.
	Version uint16 = 1
	// HeaderSize is the encoded header length in bytes.
	HeaderSize = 48

	// MaxRawBytes bounds the record bytes Decode accepts.
	MaxRawBytes = 1 << 36
)

var (
	// ErrBadMagic is returned when the input is not a dump.
	ErrBadMagic = errors.New("dump: bad magic")
	// ErrUnsupportedVersion is returned for dumps written by a newer format.
	ErrUnsupportedVersion = errors.New("dump: unsupported version")
	// ErrCorrupt is returned when the payload does not match the header.
	ErrCorrupt = errors.New("dump: corrupt payload")
	// ErrUnknownCompression is returned for an unknown compression id.
	ErrUnknownCompression = errors.New("dump: unknown compression")
)

// Header is the fixed-size dump header.
type Header struct {
	Version     uint16
	Compression Compression
	N           uint64
	NArray      uint32
	Stride      uint64
	PayloadLen  uint64
	RawLen      uint64
	Checksum    uint32
}

// Records returns the number of records in the payload, gaps included.
func (h Header) Records() uint64 {
	if h.NArray == 0 {
		return 0
	}
	return uint64(h.NArray-1)*h.Stride + h.N
}

func (h Header) marshal() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic)
	binary.LittleEndian.PutUint16(b[4:], h.Version)
	b[6] = byte(h.Compression)
	binary.LittleEndian.PutUint64(b[8:], h.N)
	binary.LittleEndian.PutUint32(b[16:], h.NArray)
	binary.LittleEndian.PutUint64(b[20:], h.Stride)
	binary.LittleEndian.PutUint64(b[28:], h.PayloadLen)
	binary.LittleEndian.PutUint64(b[36:], h.RawLen)
	binary.LittleEndian.PutUint32(b[44:], h.Checksum)
	return b
}

// ReadHeader reads and validates a dump header.
func ReadHeader(r io.Reader) (Header, error) {
	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return Header{}, fmt.Errorf("dump: read header: %w", err)
	}
	if string(b[0:4]) != Magic {
		return Header{}, ErrBadMagic
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(b[4:]),
		Compression: Compression(b[6]),
		N:           binary.LittleEndian.Uint64(b[8:]),
		NArray:      binary.LittleEndian.Uint32(b[16:]),
		Stride:      binary.LittleEndian.Uint64(b[20:]),
		PayloadLen:  binary.LittleEndian.Uint64(b[28:]),
		RawLen:      binary.LittleEndian.Uint64(b[36:]),
		Checksum:    binary.LittleEndian.Uint32(b[44:]),
	}
	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Compression > ZSTD {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	if h.NArray > 1 && h.Stride < h.N {
		return Header{}, fmt.Errorf("%w: stride %d below record count %d", ErrCorrupt, h.Stride, h.N)
	}
	if h.RawLen > MaxRawBytes || h.PayloadLen > h.RawLen {
		return Header{}, fmt.Errorf("%w: payload %d bytes, raw %d bytes", ErrCorrupt, h.PayloadLen, h.RawLen)
	}
	maxRecords := uint64(MaxRawBytes / layout.RecordBytes)
	if h.N > maxRecords || h.Stride > maxRecords || h.Records() > maxRecords || h.RawLen != h.Records()*layout.RecordBytes {
		return Header{}, fmt.Errorf("%w: %d raw bytes for %d records", ErrCorrupt, h.RawLen, h.Records())
	}
	return h, nil
}

// Encode writes arr to w. Replica gaps are written as stored.
func Encode(w io.Writer, arr *fieldacc.Array, c Compression) (Header, error) {
	if arr == nil {
		return Header{}, fmt.Errorf("dump: nil array")
	}
	if err := arr.Validate(); err != nil {
		return Header{}, fmt.Errorf("dump: %w", err)
	}

	h := Header{Version: Version}
	var err error
	if h.N, err = conv.IntToUint64(arr.N); err != nil {
		return Header{}, fmt.Errorf("dump: records: %w", err)
	}
	if h.NArray, err = conv.IntToUint32(arr.NArray); err != nil {
		return Header{}, fmt.Errorf("dump: replicas: %w", err)
	}
	if h.Stride, err = conv.IntToUint64(arr.Stride); err != nil {
		return Header{}, fmt.Errorf("dump: stride: %w", err)
	}
	digest := hash.NewRecordDigest()
	raw := encodeRecords(arr.Records[:h.Records()], digest)

	payload, applied, err := compress(raw, c)
	if err != nil {
		return Header{}, fmt.Errorf("dump: %w", err)
	}
	h.Compression = applied
	h.PayloadLen = uint64(len(payload))
	h.RawLen = uint64(len(raw))
	h.Checksum = digest.Sum32()

	if _, err := w.Write(h.marshal()); err != nil {
		return Header{}, fmt.Errorf("dump: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return Header{}, fmt.Errorf("dump: write payload: %w", err)
	}
	return h, nil
}

// Decode reads a dump written by Encode.
func Decode(r io.Reader) (*fieldacc.Array, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	// The payload is read incrementally so a corrupt length cannot force a
	// large allocation ahead of the data.
	payload, err := io.ReadAll(io.LimitReader(r, int64(h.PayloadLen)))
	if err != nil {
		return nil, fmt.Errorf("dump: read payload: %w", err)
	}
	if uint64(len(payload)) != h.PayloadLen {
		return nil, fmt.Errorf("dump: read payload: %w", io.ErrUnexpectedEOF)
	}

	raw, err := decompress(payload, h.Compression, int(h.RawLen))
	if err != nil {
		return nil, err
	}

	arr := &fieldacc.Array{}
	if arr.N, err = conv.Uint64ToInt(h.N); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if arr.NArray, err = conv.Uint32ToInt(h.NArray); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if arr.Stride, err = conv.Uint64ToInt(h.Stride); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	arr.Records = make([]layout.Record, h.Records())

	digest := hash.NewRecordDigest()
	decodeRecords(arr.Records, raw, digest)
	if sum := digest.Sum32(); sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum %#08x, want %#08x", ErrCorrupt, sum, h.Checksum)
	}

	if err := arr.Validate(); err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	return arr, nil
}

func encodeRecords(recs []layout.Record, d *hash.RecordDigest) []byte {
	b := make([]byte, len(recs)*layout.RecordBytes)
	for i := range recs {
		d.PutRecord(b[i*layout.RecordBytes:], &recs[i])
	}
	return b
}

func decodeRecords(dst []layout.Record, b []byte, d *hash.RecordDigest) {
	for i := range dst {
		d.GetRecord(&dst[i], b[i*layout.RecordBytes:])
	}
}
