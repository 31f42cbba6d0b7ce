package serializer

import (
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// ProtoSerializer 使用 Protobuf 二进制编解码。
//
// proto.Message 直接序列化；archive.Value 经 ToStructpb 转换为 google.protobuf.Value。
// Unmarshal 的目标为 *archive.Value 时按 FromStructpb 还原。
type ProtoSerializer struct{}

// Struct 的字段是 map，需要确定性编码才能让相同的值得到相同的字节。
var marshalOptions = proto.MarshalOptions{Deterministic: true}

var _ Serializer = (*ProtoSerializer)(nil)

func (ProtoSerializer) Marshal(v any) ([]byte, error) {
	switch msg := v.(type) {
	case proto.Message:
		return marshalOptions.Marshal(msg)
	case archive.Value:
		pb, err := ToStructpb(msg)
		if err != nil {
			return nil, err
		}
		return marshalOptions.Marshal(pb)
	}
	return nil, merr.WrapErrParameterInvalidMsg("proto serializer requires proto.Message or archive.Value, got %T", v)
}

func (ProtoSerializer) Unmarshal(data []byte, v any) error {
	switch dst := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, dst)
	case *archive.Value:
		pb := &structpb.Value{}
		if err := proto.Unmarshal(data, pb); err != nil {
			return err
		}
		value, err := FromStructpb(pb)
		if err != nil {
			return err
		}
		*dst = value
		return nil
	}
	return merr.WrapErrParameterInvalidMsg("proto serializer cannot unmarshal into %T", v)
}

// ToStructpb 把 Value 转换为 google.protobuf.Value。
// 数值统一为 double，Record 与 Map 一样转换为 Struct，自定义类型不受支持。
func ToStructpb(v archive.Value) (*structpb.Value, error) {
	switch t := v.(type) {
	case archive.Int:
		return structpb.NewNumberValue(float64(t)), nil
	case archive.Uint:
		return structpb.NewNumberValue(float64(t)), nil
	case archive.Float32:
		return structpb.NewNumberValue(float64(t)), nil
	case archive.Float64:
		return structpb.NewNumberValue(float64(t)), nil
	case archive.String:
		return structpb.NewStringValue(string(t)), nil
	case *archive.List:
		values := make([]*structpb.Value, 0, t.Len())
		for _, element := range t.Elements() {
			if element == nil {
				continue
			}
			pb, err := ToStructpb(element)
			if err != nil {
				return nil, err
			}
			values = append(values, pb)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case interface{ Fields() *archive.Map }:
		fields := t.Fields()
		st := &structpb.Struct{Fields: make(map[string]*structpb.Value, fields.Len())}
		for _, key := range fields.Keys() {
			value, _ := fields.Get(key)
			if value == nil {
				continue
			}
			pb, err := ToStructpb(value)
			if err != nil {
				return nil, err
			}
			st.Fields[key] = pb
		}
		return structpb.NewStructValue(st), nil
	}
	return nil, merr.WrapErrUnsupportedElement(v, "protobuf export")
}

// FromStructpb 把 google.protobuf.Value 转换为 Value。
// 整数值的 double 还原为 Int，其余数值为 Float64；bool 与 null 不受支持。
func FromStructpb(pb *structpb.Value) (archive.Value, error) {
	switch kind := pb.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n == math.Trunc(n) && n >= math.MinInt && n < math.MaxInt {
			return archive.Int(n), nil
		}
		return archive.Float64(n), nil
	case *structpb.Value_StringValue:
		return archive.String(kind.StringValue), nil
	case *structpb.Value_ListValue:
		list := archive.NewList()
		for _, item := range kind.ListValue.GetValues() {
			value, err := FromStructpb(item)
			if err != nil {
				return nil, err
			}
			list.Append(value)
		}
		return list, nil
	case *structpb.Value_StructValue:
		m := archive.NewMap()
		for key, item := range kind.StructValue.GetFields() {
			value, err := FromStructpb(item)
			if err != nil {
				return nil, err
			}
			m.Set(key, value)
		}
		return m, nil
	}
	return nil, merr.WrapErrUnsupportedElement(pb.GetKind(), "protobuf import")
}
