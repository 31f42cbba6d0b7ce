package serializer

import (
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// ArchiveSerializer 以自描述归档格式编解码。
//
// Marshal 接受 archive.Value 或 archive.ValueOf 支持的 Go 值；
// Unmarshal 的目标可以是 *archive.Value（保留类型）或 *any（经 archive.ToNative 转换）。
type ArchiveSerializer struct {
	Archiver *archive.Archiver
}

var _ Serializer = (*ArchiveSerializer)(nil)

// NewArchiveSerializer 创建 ArchiveSerializer，a 由调用方负责关闭。
func NewArchiveSerializer(a *archive.Archiver) *ArchiveSerializer {
	return &ArchiveSerializer{Archiver: a}
}

func (s *ArchiveSerializer) Marshal(v any) ([]byte, error) {
	value, err := archive.ValueOf(v, s.Archiver.Options().ElementPolicy)
	if err != nil {
		return nil, err
	}
	return s.Archiver.Encode(value)
}

func (s *ArchiveSerializer) Unmarshal(data []byte, v any) error {
	value, err := s.Archiver.Decode(data)
	if err != nil {
		return err
	}
	switch dst := v.(type) {
	case *archive.Value:
		*dst = value
	case *any:
		*dst = archive.ToNative(value)
	default:
		return merr.WrapErrParameterInvalidMsg("archive serializer cannot unmarshal into %T", v)
	}
	return nil
}
