package compressor

import (
	"strings"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Compressor 对单帧负载做整块压缩/解压。
type Compressor interface {
	// Compress 将 src 压缩后追加到 dst[:0]，返回完整的压缩数据。
	Compress(dst, src []byte) (packet []byte, err error)

	// Decompress 与 Compress 对称，src 必须是 Compress 的输出。
	Decompress(dst, src []byte) (plain []byte, err error)
}

const (
	NameNone = "none"
	NameZstd = "zstd"
)

// NopCompressor 原样返回输入，是未开启压缩时的默认值。
type NopCompressor struct{}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

var _ Compressor = NopCompressor{}

// New 按名称创建压缩器，空字符串等同于 "none"。
// maxDecodedSize 为解压输出上限，<= 0 时使用 DefaultMaxDecodedSize。
func New(name string, maxDecodedSize int) (Compressor, error) {
	switch strings.ToLower(name) {
	case "", NameNone:
		return NopCompressor{}, nil
	case NameZstd:
		return NewZstdCompressor(maxDecodedSize)
	default:
		return nil, merr.WrapErrParameterInvalidMsg("unknown compression %q, want none or zstd", name)
	}
}
