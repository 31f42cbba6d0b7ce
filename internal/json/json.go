// Package json 是基于 bytedance/sonic 的 JSON 编解码封装。
//
// 与标准库的差异：整数解码到 interface{} 时为 int64 而不是 float64，
// map 的键按字典序输出，保证同一输入的编码结果稳定。
package json

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.Config{
	EscapeHTML:       true,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
	UseInt64:         true,
}.Froze()

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

func MarshalString(v any) (string, error) {
	return api.MarshalToString(v)
}

// NewEncoder 返回写入 w 的流式编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return api.NewEncoder(w)
}

// NewDecoder 返回从 r 读取的流式解码器，可连续解码多个 JSON 值。
func NewDecoder(r io.Reader) sonic.Decoder {
	return api.NewDecoder(r)
}

func Valid(data []byte) bool {
	return api.Valid(data)
}
