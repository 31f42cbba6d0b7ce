package archive

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Int 以平台字长、本机字节序归档的有符号整数。
type Int int

// Uint 以平台字长、本机字节序归档的无符号整数。
type Uint uint

// Float32 以 IEEE-754 4 字节归档的浮点数。
type Float32 float32

// Float64 以 IEEE-754 8 字节归档的浮点数。
type Float64 float64

// String 以 UTF-8 字节归档的字符串，头部为一个 int 字段记录字节长度。
type String string

var (
	_ Value = Int(0)
	_ Value = Uint(0)
	_ Value = Float32(0)
	_ Value = Float64(0)
	_ Value = String("")
)

func (Int) Identifier() string   { return IdentifierInt }
func (Int) Kind() Kind           { return KindInt }
func (Int) HeaderData() [][]byte { return nil }
func (v Int) BodyData() [][]byte { return [][]byte{appendWord(nil, uint64(v))} }
func (Int) TotalLength() int     { return identifierLength(IdentifierInt) + wordSize }

func (Uint) Identifier() string   { return IdentifierUint }
func (Uint) Kind() Kind           { return KindUint }
func (Uint) HeaderData() [][]byte { return nil }
func (v Uint) BodyData() [][]byte { return [][]byte{appendWord(nil, uint64(v))} }
func (Uint) TotalLength() int     { return identifierLength(IdentifierUint) + wordSize }

func (Float32) Identifier() string   { return IdentifierFloat32 }
func (Float32) Kind() Kind           { return KindFloat32 }
func (Float32) HeaderData() [][]byte { return nil }
func (v Float32) BodyData() [][]byte {
	return [][]byte{binary.NativeEndian.AppendUint32(nil, math.Float32bits(float32(v)))}
}
func (Float32) TotalLength() int { return identifierLength(IdentifierFloat32) + 4 }

func (Float64) Identifier() string   { return IdentifierFloat64 }
func (Float64) Kind() Kind           { return KindFloat64 }
func (Float64) HeaderData() [][]byte { return nil }
func (v Float64) BodyData() [][]byte {
	return [][]byte{binary.NativeEndian.AppendUint64(nil, math.Float64bits(float64(v)))}
}
func (Float64) TotalLength() int { return identifierLength(IdentifierFloat64) + 8 }

func (String) Identifier() string { return IdentifierString }
func (String) Kind() Kind         { return KindString }
func (v String) HeaderData() [][]byte {
	return [][]byte{intField(len(v))}
}
func (v String) BodyData() [][]byte { return [][]byte{[]byte(v)} }
func (v String) TotalLength() int {
	return identifierLength(IdentifierString) + IntFieldWidth + len(v)
}

func decodeInt(_ *Decoder, data []byte) (Value, error) {
	body, err := exact(data, wordSize)
	if err != nil {
		return nil, err
	}
	return Int(int(word(body))), nil
}

func decodeUint(_ *Decoder, data []byte) (Value, error) {
	body, err := exact(data, wordSize)
	if err != nil {
		return nil, err
	}
	return Uint(uint(word(body))), nil
}

func decodeFloat32(_ *Decoder, data []byte) (Value, error) {
	body, err := exact(data, 4)
	if err != nil {
		return nil, err
	}
	return Float32(math.Float32frombits(binary.NativeEndian.Uint32(body))), nil
}

func decodeFloat64(_ *Decoder, data []byte) (Value, error) {
	body, err := exact(data, 8)
	if err != nil {
		return nil, err
	}
	return Float64(math.Float64frombits(binary.NativeEndian.Uint64(body))), nil
}

func decodeString(_ *Decoder, data []byte) (Value, error) {
	field, payload, err := split.Split(data, IntFieldWidth)
	if err != nil {
		return nil, err
	}
	length, err := readIntField(field)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, merr.WrapErrNegativeLength("string length", length)
	}
	text, err := exact(payload, length)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(text) {
		return nil, merr.WrapErrInvalidEncoding("utf-8", "string payload")
	}
	return String(text), nil
}

// exact 要求 data 恰好为 width 字节。
func exact(data []byte, width int) ([]byte, error) {
	if len(data) < width {
		return nil, merr.WrapErrTruncatedBuffer(width, len(data))
	}
	if len(data) > width {
		return nil, merr.WrapErrTrailingBytes(len(data) - width)
	}
	return data, nil
}

func appendWord(dst []byte, u uint64) []byte {
	if wordSize == 4 {
		return binary.NativeEndian.AppendUint32(dst, uint32(u))
	}
	return binary.NativeEndian.AppendUint64(dst, u)
}

// word 读取一个平台字长的整数，调用方保证 len(b) == wordSize。
func word(b []byte) uint64 {
	if wordSize == 4 {
		return uint64(binary.NativeEndian.Uint32(b))
	}
	return binary.NativeEndian.Uint64(b)
}
