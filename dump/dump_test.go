package dump

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/layout"
	"github.com/hupe1980/fieldacc/testutil"
)

func requireSameArray(t *testing.T, want, got *fieldacc.Array) {
	t.Helper()
	require.Equal(t, want.N, got.N)
	require.Equal(t, want.NArray, got.NArray)
	require.Equal(t, want.Stride, got.Stride)
	require.Len(t, got.Records, len(want.Records))
	for i := range want.Records {
		for l := 0; l < layout.Lanes; l++ {
			require.Equal(t, math.Float32bits(want.Records[i][l]), math.Float32bits(got.Records[i][l]), "record %d lane %d", i, l)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	rng := testutil.NewRNG(1)

	for _, c := range []Compression{None, LZ4, ZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			// Gaps hold NaN and must survive the round trip.
			arr := &fieldacc.Array{Records: rng.Replicas(100, 3, 110, -5, 5), N: 100, NArray: 3, Stride: 110}

			var buf bytes.Buffer
			h, err := Encode(&buf, arr, c)
			require.NoError(t, err)
			assert.Equal(t, uint64((2*110+100)*layout.RecordBytes), h.RawLen)
			assert.Equal(t, int(HeaderSize+h.PayloadLen), buf.Len())

			got, err := Decode(&buf)
			require.NoError(t, err)
			requireSameArray(t, arr, got)
		})
	}
}

func TestEncode_CompressibleShrinks(t *testing.T) {
	arr := &fieldacc.Array{Records: testutil.ConstantReplicas(512, 512, 1, 2, 3), N: 512, NArray: 3, Stride: 512}

	for _, c := range []Compression{LZ4, ZSTD} {
		var buf bytes.Buffer
		h, err := Encode(&buf, arr, c)
		require.NoError(t, err)
		assert.Equal(t, c, h.Compression)
		assert.Less(t, h.PayloadLen, h.RawLen/4)

		got, err := Decode(&buf)
		require.NoError(t, err)
		requireSameArray(t, arr, got)
	}
}

func TestEncode_EmptyArray(t *testing.T) {
	arr := &fieldacc.Array{}

	var buf bytes.Buffer
	h, err := Encode(&buf, arr, ZSTD)
	require.NoError(t, err)
	assert.Equal(t, None, h.Compression)
	assert.Equal(t, HeaderSize, buf.Len())

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Zero(t, got.NArray)
	assert.Empty(t, got.Records)
}

func TestEncode_InvalidArray(t *testing.T) {
	_, err := Encode(&bytes.Buffer{}, nil, None)
	assert.Error(t, err)

	arr := &fieldacc.Array{Records: make([]layout.Record, 4), N: 4, NArray: 2, Stride: 4}
	_, err = Encode(&bytes.Buffer{}, arr, None)
	assert.ErrorIs(t, err, fieldacc.ErrInvalidConfig)

	_, err = Encode(&bytes.Buffer{}, &fieldacc.Array{Records: make([]layout.Record, 4), N: 4, NArray: 1}, Compression(9))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func encoded(t *testing.T, c Compression) []byte {
	t.Helper()
	arr := &fieldacc.Array{Records: testutil.NewRNG(2).Replicas(64, 2, 64, -1, 1), N: 64, NArray: 2, Stride: 64}
	var buf bytes.Buffer
	_, err := Encode(&buf, arr, c)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecode_Corruption(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		b := encoded(t, None)
		b[0] = 'X'
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("future version", func(t *testing.T) {
		b := encoded(t, None)
		binary.LittleEndian.PutUint16(b[4:], Version+1)
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("unknown compression", func(t *testing.T) {
		b := encoded(t, None)
		b[6] = 7
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrUnknownCompression)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		b := encoded(t, None)
		b[HeaderSize+100] ^= 0x01
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("checksum", func(t *testing.T) {
		b := encoded(t, None)
		b[44] ^= 0xff
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("raw length mismatch", func(t *testing.T) {
		b := encoded(t, None)
		binary.LittleEndian.PutUint64(b[36:], 1<<20)
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated payload", func(t *testing.T) {
		b := encoded(t, ZSTD)
		_, err := Decode(bytes.NewReader(b[:len(b)-10]))
		assert.Error(t, err)
	})

	t.Run("oversized payload length", func(t *testing.T) {
		n := uint64(MaxRawBytes / layout.RecordBytes)
		h := Header{Version: Version, N: n, NArray: 1, Stride: n, PayloadLen: MaxRawBytes, RawLen: MaxRawBytes}
		b := append(h.marshal(), make([]byte, 64)...)
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("lz4 expansion", func(t *testing.T) {
		n := uint64(1 << 20)
		h := Header{Version: Version, Compression: LZ4, N: n, NArray: 1, Stride: n, PayloadLen: 16, RawLen: n * layout.RecordBytes}
		b := append(h.marshal(), make([]byte, 16)...)
		_, err := Decode(bytes.NewReader(b))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte("FACC")))
		assert.Error(t, err)
	})
}

func TestReduceDecoded(t *testing.T) {
	arr := &fieldacc.Array{Records: testutil.ConstantReplicas(8, 8, 1, 2, 4), N: 8, NArray: 3, Stride: 8}
	var buf bytes.Buffer
	_, err := Encode(&buf, arr, LZ4)
	require.NoError(t, err)

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.NoError(t, fieldacc.Reduce(t.Context(), got, fieldacc.WithBlockSize(3)))
	assert.Equal(t, float32(7), got.Replica(0)[7][11])
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": None, "none": None, "LZ4": LZ4, " zstd ": ZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrUnknownCompression)
	assert.Equal(t, "compression(9)", Compression(9).String())
}
