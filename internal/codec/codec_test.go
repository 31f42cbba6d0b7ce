package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/internal/compressor"
	"github.com/lk2023060901/struct-archiver-go/internal/framer"
	"github.com/lk2023060901/struct-archiver-go/internal/serializer"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

func newArchiveCodec(t *testing.T, maxFrame uint32) Codec {
	t.Helper()
	a, err := archive.New(archive.Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	c, err := New(Options{
		Framer:     framer.NewLengthPrefixedFramer(maxFrame),
		Serializer: serializer.NewArchiveSerializer(a),
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Options{Serializer: serializer.JSONSerializer{}})
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
	_, err = New(Options{Framer: framer.NewLengthPrefixedFramer(0)})
	assert.ErrorIs(t, err, merr.ErrParameterMissing)
}

func TestRecordStream(t *testing.T) {
	c := newArchiveCodec(t, 0)
	records := []archive.Value{
		archive.Int(42),
		archive.NewList(archive.String("a"), archive.String("bb")),
		archive.NewMap().Set("x", archive.Int(1)).Set("y", archive.Int(2)),
	}

	var stream bytes.Buffer
	for _, v := range records {
		require.NoError(t, c.Encode(&stream, v))
	}

	for _, want := range records {
		var got archive.Value
		require.NoError(t, c.Decode(&stream, &got))
		assert.Equal(t, archive.ToNative(want), archive.ToNative(got))
	}
	var extra archive.Value
	assert.Equal(t, io.EOF, c.Decode(&stream, &extra))
}

func TestDecodeRaw(t *testing.T) {
	c := newArchiveCodec(t, 0)
	var stream bytes.Buffer
	require.NoError(t, c.Encode(&stream, archive.String("raw")))

	data, err := c.DecodeRaw(&stream)
	require.NoError(t, err)
	assert.Equal(t, archive.Bytes(archive.String("raw")), data)
}

func TestStageErrors(t *testing.T) {
	c := newArchiveCodec(t, 8)

	var stream bytes.Buffer
	err := c.Encode(&stream, archive.String("too long for the frame"))
	assert.ErrorIs(t, err, merr.ErrFrameTooLarge)
	assert.ErrorContains(t, err, string(StageWrite))

	err = c.Encode(&stream, struct{}{})
	assert.ErrorIs(t, err, merr.ErrUnsupportedElement)
	assert.ErrorContains(t, err, string(StageMarshal))

	bad := bytes.NewBuffer([]byte{0, 0, 0, 2, 3, 'i'})
	var v archive.Value
	err = c.Decode(bad, &v)
	assert.ErrorIs(t, err, merr.ErrTruncatedBuffer)
	assert.ErrorContains(t, err, string(StageUnmarshal))
}

func TestJSONCodec(t *testing.T) {
	c, err := New(Options{
		Framer:     framer.NewLengthPrefixedFramer(0),
		Serializer: serializer.JSONSerializer{},
	})
	require.NoError(t, err)

	var stream bytes.Buffer
	require.NoError(t, c.Encode(&stream, map[string]any{"k": "v"}))
	var out map[string]any
	require.NoError(t, c.Decode(&stream, &out))
	assert.Equal(t, map[string]any{"k": "v"}, out)
}

func TestZstdCodec(t *testing.T) {
	a, err := archive.New(archive.Options{})
	require.NoError(t, err)
	defer a.Close()
	zc, err := compressor.NewZstdCompressor(0)
	require.NoError(t, err)
	defer zc.Close()

	c, err := New(Options{
		Framer:     framer.NewLengthPrefixedFramer(0),
		Serializer: serializer.NewArchiveSerializer(a),
		Compressor: zc,
	})
	require.NoError(t, err)

	words := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		words = append(words, "repeated")
	}
	var stream bytes.Buffer
	require.NoError(t, c.Encode(&stream, words))
	plain, err := a.Encode(archive.NewList(lo.Map(words, func(w any, _ int) archive.Value {
		return archive.String(w.(string))
	})...))
	require.NoError(t, err)
	assert.Less(t, stream.Len(), len(plain))

	var got archive.Value
	require.NoError(t, c.Decode(&stream, &got))
	assert.Equal(t, 100, got.(*archive.List).Len())

	bad := bytes.NewBuffer([]byte{0, 0, 0, 3, 'b', 'a', 'd'})
	err = c.Decode(bad, &got)
	assert.ErrorIs(t, err, merr.ErrInvalidEncoding)
	assert.ErrorContains(t, err, string(StageDecompress))
}

func TestZstdCodecDecodedSizeLimit(t *testing.T) {
	zc, err := compressor.NewZstdCompressorWithConcurrency(1, 1024)
	require.NoError(t, err)
	defer zc.Close()

	c, err := New(Options{
		Framer:     framer.NewLengthPrefixedFramer(0),
		Serializer: serializer.JSONSerializer{},
		Compressor: zc,
	})
	require.NoError(t, err)

	var stream bytes.Buffer
	require.NoError(t, c.Encode(&stream, strings.Repeat("a", 1<<20)))
	assert.Less(t, stream.Len(), 1024)

	var out string
	err = c.Decode(&stream, &out)
	assert.ErrorIs(t, err, merr.ErrRecordTooLarge)
	assert.ErrorContains(t, err, string(StageDecompress))
}
