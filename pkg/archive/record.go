package archive

import (
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Record 是以字段 Map 归档、以调用方自定义标识区分类型的复合记录。
//
// 在线路格式上 Record 与 Map 完全一致，只是标识不同；解码后可以通过
// Registry.RegisterRestore 注册的还原过程重建为更丰富的值。
// 自定义类型可以内嵌 *Record 来满足 Value 契约：
//
//	type Point struct {
//		*archive.Record
//		X, Y int
//	}
type Record struct {
	identifier string
	fields     *Map
}

var _ Container = (*Record)(nil)

// NewRecord 创建标识为 identifier 的记录，fields 为 nil 时使用空 Map。
func NewRecord(identifier string, fields *Map) (*Record, error) {
	if len(identifier) > MaxIdentifierLength {
		return nil, merr.WrapErrIdentifierTooLong(identifier, MaxIdentifierLength)
	}
	if fields == nil {
		fields = NewMap()
	}
	return &Record{identifier: identifier, fields: fields}, nil
}

// IsNil 报告 r 是否为空指针，内嵌 *Record 的类型借此被识别为 nil。
func (r *Record) IsNil() bool { return r == nil }

func (r *Record) Fields() *Map      { return r.fields }
func (r *Record) Children() []Value { return r.fields.Children() }

func (r *Record) Identifier() string   { return r.identifier }
func (r *Record) Kind() Kind           { return KindRecord }
func (r *Record) HeaderData() [][]byte { return r.fields.header() }
func (r *Record) BodyData() [][]byte   { return r.fields.body() }
func (r *Record) TotalLength() int {
	return identifierLength(r.identifier) + r.fields.payloadLength()
}

// recordDecoder 返回把 map 负载解析为标识为 identifier 的 Record 的解码过程。
func recordDecoder(identifier string) DecodeFunc {
	return func(d *Decoder, data []byte) (Value, error) {
		fields, err := decodeFields(d, data)
		if err != nil {
			return nil, err
		}
		return &Record{identifier: identifier, fields: fields}, nil
	}
}
