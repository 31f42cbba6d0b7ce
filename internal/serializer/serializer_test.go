package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

func newArchiver(t *testing.T) *archive.Archiver {
	t.Helper()
	a, err := archive.New(archive.Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func sample() archive.Value {
	return archive.NewMap().
		Set("name", archive.String("archiver")).
		Set("count", archive.Int(3)).
		Set("ratio", archive.Float64(0.5)).
		Set("tags", archive.NewList(archive.String("a"), archive.String("b")))
}

func TestArchiveSerializer(t *testing.T) {
	s := NewArchiveSerializer(newArchiver(t))

	data, err := s.Marshal(sample())
	require.NoError(t, err)
	assert.Equal(t, archive.Bytes(sample()), data)

	var value archive.Value
	require.NoError(t, s.Unmarshal(data, &value))
	assert.Equal(t, archive.ToNative(sample()), archive.ToNative(value))

	var native any
	require.NoError(t, s.Unmarshal(data, &native))
	assert.Equal(t, archive.ToNative(sample()), native)

	var wrong string
	assert.ErrorIs(t, s.Unmarshal(data, &wrong), merr.ErrParameterInvalid)
}

func TestArchiveSerializerNative(t *testing.T) {
	s := NewArchiveSerializer(newArchiver(t))
	data, err := s.Marshal([]any{1, "two"})
	require.NoError(t, err)

	var native any
	require.NoError(t, s.Unmarshal(data, &native))
	assert.Equal(t, []any{1, "two"}, native)

	_, err = s.Marshal(struct{}{})
	assert.ErrorIs(t, err, merr.ErrUnsupportedElement)
}

func TestJSONSerializer(t *testing.T) {
	var s JSONSerializer
	data, err := s.Marshal(sample())
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3,"name":"archiver","ratio":0.5,"tags":["a","b"]}`, string(data))

	var out map[string]any
	require.NoError(t, s.Unmarshal(data, &out))
	assert.Equal(t, int64(3), out["count"])
}

func TestProtoSerializer(t *testing.T) {
	var s ProtoSerializer
	data, err := s.Marshal(sample())
	require.NoError(t, err)

	var value archive.Value
	require.NoError(t, s.Unmarshal(data, &value))
	assert.Equal(t, archive.ToNative(sample()), archive.ToNative(value))

	pb := &structpb.Value{}
	require.NoError(t, s.Unmarshal(data, pb))
	assert.Equal(t, "archiver", pb.GetStructValue().GetFields()["name"].GetStringValue())

	raw, err := s.Marshal(pb)
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	_, err = s.Marshal(42)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
}

func TestStructpbConversion(t *testing.T) {
	_, err := FromStructpb(structpb.NewBoolValue(true))
	assert.ErrorIs(t, err, merr.ErrUnsupportedElement)

	v, err := FromStructpb(structpb.NewNumberValue(2.5))
	require.NoError(t, err)
	assert.Equal(t, archive.Float64(2.5), v)

	pb, err := ToStructpb(archive.Uint(7))
	require.NoError(t, err)
	assert.Equal(t, float64(7), pb.GetNumberValue())
}
