package dump

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the payload compression algorithm.
type Compression uint8

const (
	// None stores records uncompressed.
	None Compression = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Compression = 1
	// ZSTD uses ZSTD compression (better ratio).
	ZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

const (
	lz4MaxRatio  = 255
	zstdPrealloc = 1 << 24
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxRawBytes))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress returns the payload and the compression actually applied.
// Payloads that do not shrink are returned as-is with None.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if len(raw) == 0 {
		return raw, None, nil
	}

	var out []byte
	switch c {
	case None:
		return raw, None, nil
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, None, fmt.Errorf("lz4: %w", err)
		}
		out = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(raw, nil)
		putZstdEncoder(enc)
	default:
		return nil, None, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}

	if len(out) == 0 || len(out) >= len(raw) {
		return raw, None, nil
	}
	return out, c, nil
}

func decompress(payload []byte, c Compression, rawLen int) ([]byte, error) {
	switch c {
	case None:
		if len(payload) != rawLen {
			return nil, fmt.Errorf("%w: payload %d bytes, want %d", ErrCorrupt, len(payload), rawLen)
		}
		return payload, nil
	case LZ4:
		// A block cannot expand by more than its length-run encoding allows.
		if rawLen/lz4MaxRatio > len(payload) {
			return nil, fmt.Errorf("%w: lz4 payload %d bytes cannot hold %d", ErrCorrupt, len(payload), rawLen)
		}
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, n, rawLen)
		}
		return raw, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		raw, err := dec.DecodeAll(payload, make([]byte, 0, min(rawLen, zstdPrealloc)))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if len(raw) != rawLen {
			return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorrupt, len(raw), rawLen)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}
