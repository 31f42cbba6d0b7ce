package archive

import (
	"reflect"
	"strconv"

	"github.com/samber/lo"
)

// MaxIdentifierLength 为标识允许的最大字节数，受限于 1 字节的长度前缀。
const MaxIdentifierLength = 255

// wordSize 为 int/uint 在当前平台上的字节宽度。
const wordSize = strconv.IntSize / 8

// 内置类型的标识。
const (
	IdentifierInt     = "int"
	IdentifierUint    = "uint"
	IdentifierFloat32 = "float32"
	IdentifierFloat64 = "float64"
	IdentifierString  = "string"
	IdentifierList    = "list"
	IdentifierMap     = "map"
)

// Kind 是所有可归档值的封闭类别标签，解码分派与还原判断都基于它，而不是运行时类型断言。
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindString
	KindList
	KindMap
	// KindRecord 表示以字段 Map 形式归档的复合记录。
	KindRecord
	// KindCustom 留给调用方自行实现 Value 的扩展类型。
	KindCustom
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindList:    "list",
	KindMap:     "map",
	KindRecord:  "record",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value 是可归档值的编码契约。
//
// 所有方法都必须是值当前状态的纯函数。TotalLength 必须与 Bytes(v) 的长度严格相等。
type Value interface {
	// Identifier 返回类型标识，长度不超过 MaxIdentifierLength 字节。
	Identifier() string
	// Kind 返回值所属的封闭类别。
	Kind() Kind
	// HeaderData 返回结构性元数据（元素个数、子长度等）。
	HeaderData() [][]byte
	// BodyData 返回实际负载。
	BodyData() [][]byte
	// TotalLength 返回完整归档结果的字节数。
	TotalLength() int
}

// Container 由 List、Map、Record 等包含子值的类型实现。
//
// Children 返回尚未过滤的子值（可能包含 nil），供编码前的校验遍历使用。
type Container interface {
	Value
	Children() []Value
}

// Bytes 返回 v 的完整归档结果：标识长度字节 + 标识 + 头部 + 负载。
//
// Bytes 不做任何校验；标识长度超限等问题由 Archiver.Encode 负责检查。
func Bytes(v Value) []byte {
	id := v.Identifier()
	buf := make([]byte, 0, v.TotalLength())
	buf = append(buf, byte(len(id)))
	buf = append(buf, id...)
	for _, part := range v.HeaderData() {
		buf = append(buf, part...)
	}
	for _, part := range v.BodyData() {
		buf = append(buf, part...)
	}
	return buf
}

// DerivedLength 根据 Identifier/HeaderData/BodyData 计算归档长度。
// 自定义 Value 可以直接用它实现 TotalLength。
func DerivedLength(v Value) int {
	return identifierLength(v.Identifier()) + partsLength(v.HeaderData()) + partsLength(v.BodyData())
}

func identifierLength(id string) int {
	return 1 + len(id)
}

func partsLength(parts [][]byte) int {
	return lo.SumBy(parts, func(part []byte) int { return len(part) })
}

// conforming 过滤掉不满足编码契约的元素（nil）。
func conforming(values []Value) []Value {
	return lo.Reject(values, func(v Value, _ int) bool { return isNil(v) })
}

// nilable 由可能包装空指针的自定义 Value 实现，例如内嵌 *Record 的记录类型。
type nilable interface {
	IsNil() bool
}

// isNil 识别接口 nil、任意类型的空指针，以及 IsNil 报告为空的包装类型。
// 切片或 map 底层的自定义 Value 即使为 nil 也是合法值（空负载）。
func isNil(v Value) bool {
	if v == nil {
		return true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}
	if n, ok := v.(nilable); ok {
		return n.IsNil()
	}
	return false
}
