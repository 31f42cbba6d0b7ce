package archive

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

type point struct {
	*Record
	X, Y int
}

func newPoint(x, y int) *point {
	r, _ := NewRecord("point", NewMap().Set("x", Int(x)).Set("y", Int(y)))
	return &point{Record: r, X: x, Y: y}
}

func restorePoint(fields *Map) (Value, error) {
	x, err := Field[Int](fields, "x")
	if err != nil {
		return nil, err
	}
	y, err := Field[Int](fields, "y")
	if err != nil {
		return nil, err
	}
	return newPoint(int(x), int(y)), nil
}

func pointRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewStandardRegistry(func(r *Registry) error {
		return r.RegisterRecord("point", restorePoint)
	})
	require.NoError(t, err)
	return registry
}

func TestRecordRestore(t *testing.T) {
	a := newTestArchiver(t, Options{Registry: pointRegistry(t)})

	decoded := roundTrip(t, a, newPoint(3, -4))
	p, ok := decoded.(*point)
	require.True(t, ok)
	assert.Equal(t, 3, p.X)
	assert.Equal(t, -4, p.Y)
	assert.Equal(t, "point", p.Identifier())
	assert.Equal(t, KindRecord, p.Kind())
}

func TestRecordWireMatchesMap(t *testing.T) {
	p := newPoint(1, 2)
	data := Bytes(p)
	mapData := Bytes(p.Fields())
	assert.Equal(t, mapData[1+len(IdentifierMap):], data[1+len("point"):])
}

func TestRecordNestedInContainers(t *testing.T) {
	a := newTestArchiver(t, Options{Registry: pointRegistry(t)})
	v := NewList(newPoint(0, 0), NewMap().Set("p", newPoint(5, 6)))
	decoded := roundTrip(t, a, v).(*List)

	first := decoded.At(0).(*point)
	assert.Equal(t, 0, first.X)
	inner, _ := decoded.At(1).(*Map).Get("p")
	assert.Equal(t, 6, inner.(*point).Y)
}

func TestRecordWithoutRestore(t *testing.T) {
	registry, err := NewStandardRegistry(func(r *Registry) error {
		return r.RegisterRecord("point", nil)
	})
	require.NoError(t, err)
	a := newTestArchiver(t, Options{Registry: registry})

	decoded := roundTrip(t, a, newPoint(1, 2))
	r, ok := decoded.(*Record)
	require.True(t, ok)
	assert.Equal(t, "point", r.Identifier())
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, ToNative(r))
}

func TestRestoreFailure(t *testing.T) {
	registry, err := NewStandardRegistry(func(r *Registry) error {
		return r.RegisterRecord("point", func(*Map) (Value, error) {
			return nil, errors.New("bad point")
		})
	})
	require.NoError(t, err)
	a := newTestArchiver(t, Options{Registry: registry})

	data, err := a.Encode(newPoint(1, 2))
	require.NoError(t, err)
	_, err = a.Decode(data)
	assert.ErrorIs(t, err, merr.ErrRestoreFailed)
	assert.ErrorContains(t, err, "bad point")
}

func TestRestoreMissingField(t *testing.T) {
	a := newTestArchiver(t, Options{Registry: pointRegistry(t)})
	r, err := NewRecord("point", NewMap().Set("x", Int(1)))
	require.NoError(t, err)

	data, err := a.Encode(r)
	require.NoError(t, err)
	_, err = a.Decode(data)
	assert.ErrorIs(t, err, merr.ErrRestoreFailed)
}

func TestMapRestore(t *testing.T) {
	registry, err := NewStandardRegistry(func(r *Registry) error {
		return r.RegisterRestore(IdentifierMap, func(fields *Map) (Value, error) {
			return Int(fields.Len()), nil
		})
	})
	require.NoError(t, err)
	a := newTestArchiver(t, Options{Registry: registry})

	decoded := roundTrip(t, a, NewMap().Set("a", Int(1)).Set("b", Int(2)))
	assert.Equal(t, Int(2), decoded)
}

func TestUnknownIdentifier(t *testing.T) {
	a := newTestArchiver(t, Options{})
	data, err := a.Encode(newPoint(1, 2))
	require.NoError(t, err)

	_, err = a.Decode(data)
	assert.ErrorIs(t, err, merr.ErrUnknownIdentifier)

	_, err = a.Decode(Bytes(NewList(newPoint(1, 2))))
	assert.ErrorIs(t, err, merr.ErrUnknownIdentifier)
}

func TestIdentifierTooLong(t *testing.T) {
	long := strings.Repeat("x", MaxIdentifierLength+1)
	_, err := NewRecord(long, nil)
	assert.ErrorIs(t, err, merr.ErrIdentifierTooLong)

	r, err := NewRecord(strings.Repeat("x", MaxIdentifierLength), nil)
	require.NoError(t, err)
	a := newTestArchiver(t, Options{})
	data, err := a.Encode(r)
	require.NoError(t, err)
	assert.Equal(t, byte(MaxIdentifierLength), data[0])
}

func TestNilCustomValues(t *testing.T) {
	var typedNil *point
	hollow := &point{}

	strict := newTestArchiver(t, Options{Registry: pointRegistry(t)})
	for _, v := range []Value{typedNil, hollow} {
		_, err := strict.Encode(v)
		assert.ErrorIs(t, err, merr.ErrUnsupportedElement)

		_, err = strict.Encode(NewList(Int(1), v))
		assert.ErrorIs(t, err, merr.ErrUnsupportedElement)
	}

	lenient := newTestArchiver(t, Options{Registry: pointRegistry(t), ElementPolicy: ElementDrop})
	data, err := lenient.Encode(NewList(typedNil, newPoint(1, 2), hollow))
	require.NoError(t, err)
	decoded, err := lenient.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.(*List).Len())

	// 切片底层的自定义值为 nil 时仍是合法的空负载。
	assert.False(t, isNil(blob(nil)))
	assert.Equal(t, "blob (len=17)\n", Describe(blob(nil)))
	assert.Equal(t, "<nil>\n", Describe(hollow))
}
