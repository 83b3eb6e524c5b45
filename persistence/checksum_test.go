package persistence

import (
	"bytes"
	"io"
	"testing"

	"github.com/hupe1980/hexvec/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	data := []byte("interval indexed storage")

	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	_, err := cw.Write(data)
	require.NoError(t, err)
	assert.Equal(t, hash.CRC32C(data), cw.Sum())
	assert.Equal(t, data, buf.Bytes())

	cr := NewChecksumReader(bytes.NewReader(data))
	got, err := io.ReadAll(cr)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, cr.Verify(cw.Sum()))

	err = cr.Verify(cw.Sum() + 1)
	require.Error(t, err)
	assert.True(t, IsChecksumMismatch(err))
	assert.Contains(t, err.Error(), "checksum mismatch")
	assert.False(t, IsChecksumMismatch(io.EOF))
}
