package archive

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Map 是以字符串为键的容器。编码时按键的字典序输出，头部与负载的顺序始终一致。
type Map struct {
	entries map[string]Value
}

var _ Container = (*Map)(nil)

// NewMap 创建空的 Map。
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// MapOf 以给定键值对创建 Map。
func MapOf(entries map[string]Value) *Map {
	m := NewMap()
	maps.Copy(m.entries, entries)
	return m
}

// Set 写入键值对并返回 m 本身。
func (m *Map) Set(key string, value Value) *Map {
	m.entries[key] = value
	return m
}

func (m *Map) Get(key string) (Value, bool) {
	value, ok := m.entries[key]
	return value, ok
}

func (m *Map) Delete(key string) {
	delete(m.entries, key)
}

// Keys 返回升序排列的全部键。
func (m *Map) Keys() []string {
	keys := lo.Keys(m.entries)
	slices.Sort(keys)
	return keys
}

func (m *Map) Len() int { return len(m.entries) }

// Fields 返回 m 本身，使 Map 与 Record 对外暴露一致的字段访问方式。
func (m *Map) Fields() *Map { return m }

func (m *Map) Children() []Value {
	return lo.Map(m.Keys(), func(key string, _ int) Value { return m.entries[key] })
}

func (m *Map) Identifier() string { return IdentifierMap }
func (m *Map) Kind() Kind         { return KindMap }

func (m *Map) HeaderData() [][]byte { return m.header() }
func (m *Map) BodyData() [][]byte   { return m.body() }
func (m *Map) TotalLength() int     { return identifierLength(IdentifierMap) + m.payloadLength() }

// pairs 返回按键排序、去除不合规值后的键与值。
func (m *Map) pairs() (keys []String, values []Value) {
	for _, key := range m.Keys() {
		value := m.entries[key]
		if isNil(value) {
			continue
		}
		keys = append(keys, String(key))
		values = append(values, value)
	}
	return keys, values
}

func (m *Map) header() [][]byte {
	keys, values := m.pairs()
	header := make([][]byte, 0, 1+2*len(keys))
	header = append(header, intField(len(keys)))
	for _, key := range keys {
		header = append(header, intField(key.TotalLength()))
	}
	for _, value := range values {
		header = append(header, intField(value.TotalLength()))
	}
	return header
}

func (m *Map) body() [][]byte {
	keys, values := m.pairs()
	body := make([][]byte, 0, 2*len(keys))
	for _, key := range keys {
		body = append(body, Bytes(key))
	}
	for _, value := range values {
		body = append(body, Bytes(value))
	}
	return body
}

// payloadLength 为头部与负载的总字节数，不含标识。
func (m *Map) payloadLength() int {
	keys, values := m.pairs()
	total := IntFieldWidth * (1 + 2*len(keys))
	for _, key := range keys {
		total += key.TotalLength()
	}
	for _, value := range values {
		total += value.TotalLength()
	}
	return total
}

// Field 读取 m 中 key 对应的值并断言为 T。
func Field[T Value](m *Map, key string) (T, error) {
	var zero T
	value, ok := m.Get(key)
	if !ok {
		return zero, merr.WrapErrParameterMissing(key, "field not found")
	}
	typed, ok := value.(T)
	if !ok {
		return zero, merr.WrapErrParameterInvalid(fmt.Sprintf("%T", zero), fmt.Sprintf("%T", value), "field "+key)
	}
	return typed, nil
}

func decodeMap(d *Decoder, data []byte) (Value, error) {
	m, err := decodeFields(d, data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// decodeFields 解析 map 的头部与负载，Map 与 Record 共用。
func decodeFields(d *Decoder, data []byte) (*Map, error) {
	count, rest, err := readCount(data)
	if err != nil {
		return nil, err
	}
	if count > len(rest)/(2*IntFieldWidth) {
		return nil, merr.WrapErrTruncatedBuffer(fieldsSize(min(count, math.MaxInt/2)*2), len(rest))
	}
	lengths, payload, err := readLengths(rest, 2*count)
	if err != nil {
		return nil, err
	}
	parts, err := split.Lengths(payload, lengths)
	if err != nil {
		return nil, err
	}

	m := &Map{entries: make(map[string]Value, count)}
	for i := 0; i < count; i++ {
		key, err := d.Decode(parts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "map key %d", i)
		}
		name, ok := key.(String)
		if !ok {
			return nil, merr.WrapErrMalformedLength(fmt.Sprintf("map key %d is %s, not string", i, key.Kind()))
		}
		value, err := d.Decode(parts[count+i])
		if err != nil {
			return nil, errors.Wrapf(err, "map value %q", name)
		}
		if _, exists := m.entries[string(name)]; exists && d.duplicateKeys == DuplicateKeyError {
			return nil, merr.WrapErrDuplicateKey(string(name))
		}
		m.entries[string(name)] = value
	}
	return m, nil
}
