package codec

import (
	"io"

	"github.com/lk2023060901/struct-archiver-go/internal/compressor"
	"github.com/lk2023060901/struct-archiver-go/internal/framer"
	"github.com/lk2023060901/struct-archiver-go/internal/serializer"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Codec 抽象了“业务对象 <-> 帧”的完整编解码流程。
//
// Pipeline（写出 Encode）：
//
//	msg --> serializer --> compressor --> framer.WriteFrame
//
// Pipeline（读入 Decode）：
//
//	framer.ReadFrame --> compressor --> serializer --> msg
type Codec interface {
	// Encode 将业务对象编码并写入到底层流。
	Encode(w io.Writer, msg any) error

	// Decode 从底层流中读取一帧并解码到 msg 中，流在帧边界处结束时返回 io.EOF。
	Decode(r io.Reader, msg any) error

	// DecodeRaw 从底层流中读取一帧，返回解压后、未反序列化的负载。
	DecodeRaw(r io.Reader) ([]byte, error)
}

// Options 用于构造 Codec 的依赖注入参数。
type Options struct {
	Framer     framer.Framer
	Serializer serializer.Serializer
	// Compressor 可选，为 nil 时不压缩。
	Compressor compressor.Compressor
}

type codec struct {
	framer     framer.Framer
	serializer serializer.Serializer
	compressor compressor.Compressor
}

var _ Codec = (*codec)(nil)

// New 创建一个基于给定依赖的 Codec。
func New(opts Options) (Codec, error) {
	if opts.Framer == nil {
		return nil, merr.WrapErrParameterMissing("framer", "codec")
	}
	if opts.Serializer == nil {
		return nil, merr.WrapErrParameterMissing("serializer", "codec")
	}
	if opts.Compressor == nil {
		opts.Compressor = compressor.NopCompressor{}
	}
	return &codec{
		framer:     opts.Framer,
		serializer: opts.Serializer,
		compressor: opts.Compressor,
	}, nil
}

// Encode 实现 Codec.Encode。
func (c *codec) Encode(w io.Writer, msg any) error {
	if w == nil {
		return merr.WrapErrParameterMissing("writer", "codec encode")
	}
	if msg == nil {
		return merr.WrapErrParameterMissing("msg", "codec encode")
	}

	body, err := c.serializer.Marshal(msg)
	if err != nil {
		return wrapStage(StageMarshal, err)
	}
	packet, err := c.compressor.Compress(nil, body)
	if err != nil {
		return wrapStage(StageCompress, err)
	}
	return wrapStage(StageWrite, c.framer.WriteFrame(w, packet))
}

// DecodeRaw 实现 Codec.DecodeRaw。
func (c *codec) DecodeRaw(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, merr.WrapErrParameterMissing("reader", "codec decode")
	}
	packet, err := c.framer.ReadFrame(r)
	if err != nil {
		return nil, wrapStage(StageRead, err)
	}
	data, err := c.compressor.Decompress(nil, packet)
	if err != nil {
		return nil, wrapStage(StageDecompress, err)
	}
	return data, nil
}

// Decode 实现 Codec.Decode。
func (c *codec) Decode(r io.Reader, msg any) error {
	data, err := c.DecodeRaw(r)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}
	return wrapStage(StageUnmarshal, c.serializer.Unmarshal(data, msg))
}
