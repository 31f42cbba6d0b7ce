package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
)

func newTestArchiver(t *testing.T, opts Options) *Archiver {
	t.Helper()
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func roundTrip(t *testing.T, a *Archiver, v Value) Value {
	t.Helper()
	data, err := a.Encode(v)
	require.NoError(t, err)
	require.Len(t, data, v.TotalLength())
	decoded, err := a.Decode(data)
	require.NoError(t, err)
	return decoded
}

func record(identifier string, parts ...[]byte) []byte {
	buf := []byte{byte(len(identifier))}
	buf = append(buf, identifier...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return buf
}

// rawMap 按给定顺序拼出 map 记录，允许重复键与非字符串键。
func rawMap(keys, values []Value) []byte {
	parts := [][]byte{intField(len(keys))}
	for _, key := range keys {
		parts = append(parts, intField(key.TotalLength()))
	}
	for _, value := range values {
		parts = append(parts, intField(value.TotalLength()))
	}
	for _, key := range keys {
		parts = append(parts, Bytes(key))
	}
	for _, value := range values {
		parts = append(parts, Bytes(value))
	}
	return record(IdentifierMap, parts...)
}

// blob 是测试用的自定义 Value，负载为原始字节。
type blob []byte

func (blob) Identifier() string     { return "blob" }
func (blob) Kind() Kind             { return KindCustom }
func (b blob) HeaderData() [][]byte { return [][]byte{intField(len(b))} }
func (b blob) BodyData() [][]byte   { return [][]byte{b} }
func (b blob) TotalLength() int     { return DerivedLength(b) }

func decodeBlob(_ *Decoder, data []byte) (Value, error) {
	field, payload, err := split.Split(data, IntFieldWidth)
	if err != nil {
		return nil, err
	}
	n, err := readIntField(field)
	if err != nil {
		return nil, err
	}
	body, err := exact(payload, n)
	if err != nil {
		return nil, err
	}
	return blob(bytes.Clone(body)), nil
}
