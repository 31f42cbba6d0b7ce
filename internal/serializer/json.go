package serializer

import (
	"github.com/lk2023060901/struct-archiver-go/internal/json"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
)

// JSONSerializer 使用 internal/json（基于 bytedance/sonic）实现 JSON 编解码。
// archive.Value 会先经 archive.ToNative 转换为普通 Go 值。
type JSONSerializer struct{}

var _ Serializer = (*JSONSerializer)(nil)

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	if value, ok := v.(archive.Value); ok {
		v = archive.ToNative(value)
	}
	return json.Marshal(v)
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
