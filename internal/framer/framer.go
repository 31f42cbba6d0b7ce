package framer

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/lk2023060901/struct-archiver-go/pkg/metrics"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Framer 抽象了基于流的打包/解包能力，一帧承载一条完整的负载。
//
// 一帧数据的格式为：4 字节大端无符号整型（负载长度）+ 负载。
// 归档记录本身只有在整条记录驻留内存时才能解码，帧边界让记录流可以逐条读取。
type Framer interface {
	// WriteFrame 将 payload 打包为一帧并写入 w。
	WriteFrame(w io.Writer, payload []byte) error

	// ReadFrame 从 r 中读取一帧并返回负载。
	// 在帧边界处遇到流结束时返回 io.EOF，帧内截断返回 ErrIoUnexpectEOF。
	ReadFrame(r io.Reader) ([]byte, error)
}

// LengthPrefixedFramer 使用 4 字节大端长度前缀作为帧边界。
type LengthPrefixedFramer struct {
	// MaxFrameSize 为允许的最大负载大小，单位字节，为 0 时使用 DefaultMaxFrameSize。
	MaxFrameSize uint32
}

var _ Framer = (*LengthPrefixedFramer)(nil)

const (
	// DefaultMaxFrameSize 为默认的最大帧负载大小。
	DefaultMaxFrameSize uint32 = 16 * 1024 * 1024 // 16MB

	headerSize = 4
)

// NewLengthPrefixedFramer 创建长度前缀帧编码器，maxFrameSize 为 0 时使用默认值。
func NewLengthPrefixedFramer(maxFrameSize uint32) *LengthPrefixedFramer {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &LengthPrefixedFramer{MaxFrameSize: maxFrameSize}
}

// WriteFrame 将 payload 编码为长度前缀帧并一次性写入。
func (f *LengthPrefixedFramer) WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > uint64(f.effectiveMaxSize()) {
		return merr.WrapErrFrameTooLarge(uint32(min(uint64(len(payload)), uint64(^uint32(0)))), f.effectiveMaxSize())
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	_, _ = buf.Write(header[:])
	_, _ = buf.Write(payload)

	if _, err := w.Write(buf.B); err != nil {
		return merr.WrapErrIoFailed("framer write", err)
	}
	metrics.FramerFrames.WithLabelValues(metrics.EncodeLabel).Inc()
	return nil
}

// ReadFrame 从流中读取一帧。返回的切片归调用方所有。
func (f *LengthPrefixedFramer) ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, readErr("framer read header", err)
	}

	length := binary.BigEndian.Uint32(header[:])
	if length > f.effectiveMaxSize() {
		return nil, merr.WrapErrFrameTooLarge(length, f.effectiveMaxSize())
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.CopyN(buf, r, int64(length)); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, readErr("framer read payload", err)
	}
	metrics.FramerFrames.WithLabelValues(metrics.DecodeLabel).Inc()
	return bytes.Clone(buf.B), nil
}

func (f *LengthPrefixedFramer) effectiveMaxSize() uint32 {
	if f == nil || f.MaxFrameSize == 0 {
		return DefaultMaxFrameSize
	}
	return f.MaxFrameSize
}

func readErr(key string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return merr.WrapErrIoUnexpectEOF(key, err)
	}
	return merr.WrapErrIoFailed(key, err)
}
