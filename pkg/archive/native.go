package archive

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// ValueOf 把常见的 Go 值转换为 Value。
//
// 支持 Value 本身、各宽度的整数与无符号整数、float32/float64、string、
// []any、[]string、[]int、[]float64、map[string]any、map[string]string。
// 容器中不支持的元素按 policy 处理：ElementError 返回 ErrUnsupportedElement，ElementDrop 跳过。
func ValueOf(x any, policy ElementPolicy) (Value, error) {
	switch t := x.(type) {
	case Value:
		if isNil(t) {
			return nil, merr.WrapErrUnsupportedElement(x)
		}
		return t, nil
	case int:
		return Int(t), nil
	case int8:
		return signed(t)
	case int16:
		return signed(t)
	case int32:
		return signed(t)
	case int64:
		return signed(t)
	case uint:
		return Uint(t), nil
	case uint8:
		return unsigned(t)
	case uint16:
		return unsigned(t)
	case uint32:
		return unsigned(t)
	case uint64:
		return unsigned(t)
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case string:
		return String(t), nil
	case []any:
		return listOf(t, policy)
	case []string:
		return listOf(t, policy)
	case []int:
		return listOf(t, policy)
	case []float64:
		return listOf(t, policy)
	case map[string]any:
		return mapOf(t, policy)
	case map[string]string:
		return mapOf(t, policy)
	}
	return nil, merr.WrapErrUnsupportedElement(x)
}

func signed[T constraints.Signed](n T) (Value, error) {
	if int64(n) < math.MinInt || int64(n) > math.MaxInt {
		return nil, merr.WrapErrParameterInvalidRange(int64(math.MinInt), int64(math.MaxInt), int64(n), "int overflow")
	}
	return Int(n), nil
}

func unsigned[T constraints.Unsigned](n T) (Value, error) {
	if uint64(n) > math.MaxUint {
		return nil, merr.WrapErrParameterInvalidRange(0, uint64(math.MaxUint), uint64(n), "uint overflow")
	}
	return Uint(n), nil
}

func listOf[T any](items []T, policy ElementPolicy) (Value, error) {
	list := &List{elements: make([]Value, 0, len(items))}
	for i, item := range items {
		v, err := ValueOf(item, policy)
		if err != nil {
			if policy == ElementDrop && errors.Is(err, merr.ErrUnsupportedElement) {
				continue
			}
			return nil, errors.Wrapf(err, "list element %d", i)
		}
		list.elements = append(list.elements, v)
	}
	return list, nil
}

func mapOf[T any](entries map[string]T, policy ElementPolicy) (Value, error) {
	m := NewMap()
	for key, item := range entries {
		v, err := ValueOf(item, policy)
		if err != nil {
			if policy == ElementDrop && errors.Is(err, merr.ErrUnsupportedElement) {
				continue
			}
			return nil, errors.Wrapf(err, "map value %q", key)
		}
		m.entries[key] = v
	}
	return m, nil
}

// ToNative 把 Value 转换回 Go 值：整数为 int/uint，浮点为 float32/float64，
// List 为 []any，Map 与 Record 为 map[string]any，其余自定义类型原样返回。
func ToNative(v Value) any {
	switch t := v.(type) {
	case Int:
		return int(t)
	case Uint:
		return uint(t)
	case Float32:
		return float32(t)
	case Float64:
		return float64(t)
	case String:
		return string(t)
	case *List:
		out := make([]any, 0, len(t.elements))
		for _, element := range conforming(t.elements) {
			out = append(out, ToNative(element))
		}
		return out
	case fielded:
		fields := t.Fields()
		out := make(map[string]any, fields.Len())
		for key, value := range fields.entries {
			if !isNil(value) {
				out[key] = ToNative(value)
			}
		}
		return out
	}
	return v
}

// fielded 由 Map、Record 以及内嵌 *Record 的自定义类型实现。
type fielded interface {
	Fields() *Map
}
