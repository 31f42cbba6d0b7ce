package compressor

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// DefaultMaxDecodedSize 为未指定上限时单次解压允许输出的最大字节数。
const DefaultMaxDecodedSize = 16 << 20

// ZstdCompressor 基于 klauspost/compress/zstd，持有独立的 encoder/decoder 实例。
// 解压输出受 maxDecodedSize 限制，超出时在分配前失败。
type ZstdCompressor struct {
	enc            *zstd.Encoder
	dec            *zstd.Decoder
	maxDecodedSize int
}

var _ Compressor = (*ZstdCompressor)(nil)

// NewZstdCompressor 创建 ZstdCompressor，并发度为 GOMAXPROCS。
// maxDecodedSize <= 0 时为 DefaultMaxDecodedSize。
func NewZstdCompressor(maxDecodedSize int) (*ZstdCompressor, error) {
	return NewZstdCompressorWithConcurrency(0, maxDecodedSize)
}

// NewZstdCompressorWithConcurrency 创建 ZstdCompressor，concurrency <= 0 时使用 GOMAXPROCS。
func NewZstdCompressorWithConcurrency(concurrency, maxDecodedSize int) (*ZstdCompressor, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if maxDecodedSize <= 0 {
		maxDecodedSize = DefaultMaxDecodedSize
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithZeroFrames(true),
		zstd.WithEncoderConcurrency(concurrency),
	)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(concurrency),
		zstd.WithDecoderMaxMemory(uint64(maxDecodedSize)),
	)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{enc: enc, dec: dec, maxDecodedSize: maxDecodedSize}, nil
}

func (c *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	if c == nil || c.enc == nil {
		return nil, zstd.ErrEncoderClosed
	}
	return c.enc.EncodeAll(src, dst[:0]), nil
}

// Decompress 解压失败视为输入损坏，输出超过上限时返回 ErrRecordTooLarge。
func (c *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if c == nil || c.dec == nil {
		return nil, zstd.ErrDecoderClosed
	}
	out, err := c.dec.DecodeAll(src, dst[:0])
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return nil, merr.WrapErrRecordTooLarge(len(out), c.maxDecodedSize, "zstd decoded size")
	}
	if err != nil {
		return nil, merr.WrapErrInvalidEncoding("zstd", err.Error())
	}
	return out, nil
}

// MaxDecodedSize 返回单次解压允许输出的最大字节数。
func (c *ZstdCompressor) MaxDecodedSize() int {
	return c.maxDecodedSize
}

// Close 释放 encoder/decoder，之后再使用返回 ErrEncoderClosed/ErrDecoderClosed。
func (c *ZstdCompressor) Close() {
	if c == nil {
		return
	}
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}
