package compressor

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

func TestZstdRoundTrip(t *testing.T) {
	c, err := NewZstdCompressor(0)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, DefaultMaxDecodedSize, c.MaxDecodedSize())

	src := bytes.Repeat([]byte("\x06stringpayload"), 64)
	packet, err := c.Compress(nil, src)
	require.NoError(t, err)
	assert.Less(t, len(packet), len(src))

	plain, err := c.Decompress(nil, packet)
	require.NoError(t, err)
	assert.Equal(t, src, plain)
}

func TestZstdCorrupt(t *testing.T) {
	c, err := NewZstdCompressorWithConcurrency(1, 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress(nil, []byte("not zstd"))
	assert.ErrorIs(t, err, merr.ErrInvalidEncoding)
}

func TestZstdClosed(t *testing.T) {
	c, err := NewZstdCompressor(0)
	require.NoError(t, err)
	c.Close()
	c.Close()

	_, err = c.Compress(nil, []byte("x"))
	assert.ErrorIs(t, err, zstd.ErrEncoderClosed)
	_, err = c.Decompress(nil, []byte("x"))
	assert.ErrorIs(t, err, zstd.ErrDecoderClosed)
}

func TestNew(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)
	assert.Equal(t, NopCompressor{}, c)

	out, err := c.Compress(nil, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	c, err = New("ZSTD", 1024)
	require.NoError(t, err)
	assert.IsType(t, &ZstdCompressor{}, c)
	assert.Equal(t, 1024, c.(*ZstdCompressor).MaxDecodedSize())
	c.(*ZstdCompressor).Close()

	_, err = New("lz4", 0)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestZstdDecodedSizeLimit(t *testing.T) {
	c, err := NewZstdCompressorWithConcurrency(1, 4096)
	require.NoError(t, err)
	defer c.Close()

	fits := bytes.Repeat([]byte{0}, 4096)
	packet, err := c.Compress(nil, fits)
	require.NoError(t, err)
	plain, err := c.Decompress(nil, packet)
	require.NoError(t, err)
	assert.Len(t, plain, 4096)

	// 高压缩比的小包在解压时不能突破上限。
	bomb, err := c.Compress(nil, make([]byte, 8<<20))
	require.NoError(t, err)
	assert.Less(t, len(bomb), 4096)

	_, err = c.Decompress(nil, bomb)
	assert.ErrorIs(t, err, merr.ErrRecordTooLarge)
	assert.Equal(t, merr.InputError, merr.GetErrorType(err))
}
