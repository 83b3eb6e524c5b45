package persistence

import (
	"bytes"
	"encoding/binary"
	"io"
	"runtime"
	"strings"
	"testing"

	"github.com/hupe1980/hexvec/codec"
	"github.com/hupe1980/hexvec/interval"
	"github.com/hupe1980/hexvec/model"
	"github.com/hupe1980/hexvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot(t *testing.T) interval.Snapshot[testutil.Field] {
	t.Helper()

	s := interval.New[testutil.Field](4096)
	rng := testutil.NewRNG(7)
	for _, f := range rng.Fields(4096, 64, 16) {
		require.NoError(t, interval.InsertAuto(s, f))
	}
	return s.Snapshot()
}

func TestFrameRoundTrip(t *testing.T) {
	snap := sampleSnapshot(t)

	for _, comp := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		for _, name := range codec.Names() {
			c, ok := codec.ByName(name)
			require.True(t, ok)

			t.Run(comp.String()+"/"+name, func(t *testing.T) {
				var buf bytes.Buffer
				h, err := Encode(&buf, snap, Options{Codec: c, Compression: comp})
				require.NoError(t, err)
				assert.Equal(t, name, h.Codec)
				assert.Equal(t, uint16(Version), h.Version)

				got, err := Decode[interval.Snapshot[testutil.Field]](&buf)
				require.NoError(t, err)
				assert.Equal(t, snap, got)

				restored, err := interval.Restore(got)
				require.NoError(t, err)
				assert.Equal(t, len(snap.Nodes), restored.Len()+countBodies(snap))
			})
		}
	}
}

func countBodies[T any](snap interval.Snapshot[T]) int {
	n := 0
	for _, node := range snap.Nodes {
		if node.Entry == nil {
			n++
		}
	}
	return n
}

func TestFrameHeader(t *testing.T) {
	data, err := EncodeBytes(model.NewRange(2, 5), DefaultOptions())
	require.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, codec.Default.Name(), h.Codec)
	assert.NotZero(t, h.RawSize)

	got, err := DecodeBytes[model.Range](data)
	require.NoError(t, err)
	assert.Equal(t, model.NewRange(2, 5), got)
}

func TestFrameNilCodec(t *testing.T) {
	data, err := EncodeBytes([]string{"a", "b"}, Options{})
	require.NoError(t, err)

	got, err := DecodeBytes[[]string](data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestLZ4Incompressible(t *testing.T) {
	var buf bytes.Buffer
	h, err := Encode(&buf, "x", Options{Compression: CompressionLZ4})
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, h.Compression)

	got, err := Decode[string](&buf)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestFrameErrors(t *testing.T) {
	payload := strings.Repeat("hexvec ", 64)
	encode := func(t *testing.T) []byte {
		t.Helper()
		data, err := EncodeBytes(payload, DefaultOptions())
		require.NoError(t, err)
		return data
	}

	t.Run("InvalidMagic", func(t *testing.T) {
		data := encode(t)
		data[0] ^= 0xff
		_, err := DecodeBytes[string](data)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("InvalidVersion", func(t *testing.T) {
		data := encode(t)
		binary.LittleEndian.PutUint16(data[4:], Version+1)
		_, err := DecodeBytes[string](data)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("UnknownCompression", func(t *testing.T) {
		_, err := EncodeBytes(payload, Options{Compression: Compression(9)})
		assert.ErrorIs(t, err, ErrUnknownCompression)

		data := encode(t)
		data[6] = 9
		_, err = DecodeBytes[string](data)
		assert.ErrorIs(t, err, ErrUnknownCompression)
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		data := encode(t)
		// Codec name starts right after the fixed prefix.
		data[8] = 'X'
		_, err := DecodeBytes[string](data)
		assert.ErrorIs(t, err, ErrUnknownCodec)
	})

	t.Run("ChecksumMismatch", func(t *testing.T) {
		data := encode(t)
		data[len(data)-1] ^= 0xff
		_, err := DecodeBytes[string](data)
		require.Error(t, err)
		assert.True(t, IsChecksumMismatch(err))
	})

	t.Run("Truncated", func(t *testing.T) {
		data := encode(t)
		_, err := DecodeBytes[string](data[:len(data)-3])
		assert.Error(t, err)

		_, err = ReadHeader(bytes.NewReader(data[:5]))
		assert.Error(t, err)
	})

	t.Run("PayloadTooLarge", func(t *testing.T) {
		data := encode(t)
		nameLen := int(data[7])
		binary.LittleEndian.PutUint64(data[8+nameLen:], MaxPayloadSize+1)
		_, err := ReadHeader(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("OversizedDataSize", func(t *testing.T) {
		data := encode(t)
		nameLen := int(data[7])
		binary.LittleEndian.PutUint64(data[8+nameLen+8:], MaxPayloadSize)

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		_, err := DecodeBytes[string](data)
		runtime.ReadMemStats(&after)

		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
	})
}
