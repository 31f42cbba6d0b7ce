package codec

import (
	"io"

	"github.com/cockroachdb/errors"
)

// Stage 表示编解码链路中的处理阶段，用于在错误中标记发生位置。
type Stage string

const (
	StageMarshal    Stage = "marshal"    // 业务对象 -> 负载字节
	StageCompress   Stage = "compress"   // 负载字节 -> 压缩字节
	StageWrite      Stage = "write"      // 压缩字节 -> 帧
	StageRead       Stage = "read"       // 帧 -> 压缩字节
	StageDecompress Stage = "decompress" // 压缩字节 -> 负载字节
	StageUnmarshal  Stage = "unmarshal"  // 负载字节 -> 业务对象
)

// wrapStage 为 err 附加阶段信息，io.EOF 原样返回以便调用方识别流结束。
func wrapStage(stage Stage, err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return errors.Wrapf(err, "codec %s", stage)
}
