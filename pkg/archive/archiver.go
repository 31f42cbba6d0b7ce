package archive

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/struct-archiver-go/pkg/log"
	"github.com/lk2023060901/struct-archiver-go/pkg/metrics"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/conc"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

const (
	// DefaultMaxDepth 为默认允许的最大嵌套深度。
	DefaultMaxDepth = 64
)

// Options 为 Archiver 的构造参数，零值字段使用默认值。
type Options struct {
	// Registry 为解码注册表，nil 时使用 NewStandardRegistry。
	Registry *Registry
	// ElementPolicy 决定编码时如何处理容器中的 nil 元素。
	ElementPolicy ElementPolicy
	// DuplicateKeyPolicy 决定解码 map 时如何处理重复键。
	DuplicateKeyPolicy DuplicateKeyPolicy
	// MaxDepth 为编码校验与解码允许的最大嵌套深度，<= 0 时为 DefaultMaxDepth。
	MaxDepth int
	// MaxRecordSize 为单条记录允许的最大字节数，<= 0 表示不限制。
	MaxRecordSize int
	// BatchConcurrency 为 DecodeBatch 的并发度，<= 0 时为 GOMAXPROCS。
	BatchConcurrency int
	// BatchNonBlocking 为 true 时协程池满后 DecodeBatch 中的剩余记录以 ErrPoolOverloaded 失败，而不是排队等待。
	BatchNonBlocking bool
	// BatchIdleTimeout 为协程池空闲 worker 的回收间隔，<= 0 时使用 ants 默认值。
	BatchIdleTimeout time.Duration
	// EnableMetrics 开启后编码/解码结果会上报到 pkg/metrics。
	EnableMetrics bool
}

// Archiver 是编码与解码的入口，并发安全。
type Archiver struct {
	log.Binder

	opts Options
	pool *conc.Pool[Value]
}

// New 创建 Archiver。使用完毕后应调用 Close 释放批量解码的协程池。
func New(opts Options) (*Archiver, error) {
	if opts.Registry == nil {
		registry, err := NewStandardRegistry()
		if err != nil {
			return nil, err
		}
		opts.Registry = registry
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	// 解码过程的 panic 总是转为对应记录的错误。
	poolOpts := []conc.PoolOption{
		conc.WithConcealPanic(true),
		conc.WithNonBlocking(opts.BatchNonBlocking),
		conc.WithExpiryDuration(opts.BatchIdleTimeout),
	}
	var pool *conc.Pool[Value]
	if opts.BatchConcurrency > 0 {
		pool = conc.NewPool[Value](opts.BatchConcurrency, poolOpts...)
	} else {
		pool = conc.NewDefaultPool[Value](poolOpts...)
	}
	a := &Archiver{opts: opts, pool: pool}
	a.SetLogger(log.With(log.FieldModule("archive")))
	return a, nil
}

func (a *Archiver) Registry() *Registry { return a.opts.Registry }

func (a *Archiver) Options() Options { return a.opts }

// Close 释放协程池。
func (a *Archiver) Close() {
	a.pool.Release()
}

// Encode 校验 v 后返回其完整的归档字节。
func (a *Archiver) Encode(v Value) ([]byte, error) {
	start := time.Now()
	if isNil(v) {
		return nil, merr.WrapErrUnsupportedElement(v, "top-level value")
	}
	if err := a.validate(v, 1); err != nil {
		return nil, err
	}
	data := Bytes(v)
	if len(data) != v.TotalLength() {
		return nil, merr.WrapErrMalformedLength(
			fmt.Sprintf("%s total length %d != archived %d", v.Identifier(), v.TotalLength(), len(data)))
	}
	if a.opts.MaxRecordSize > 0 && len(data) > a.opts.MaxRecordSize {
		return nil, merr.WrapErrRecordTooLarge(len(data), a.opts.MaxRecordSize)
	}
	if a.opts.EnableMetrics {
		metrics.ArchiveEncodedRecords.WithLabelValues(v.Identifier()).Inc()
		metrics.ArchiveRecordBytes.WithLabelValues(metrics.EncodeLabel).Observe(float64(len(data)))
		metrics.ArchiveLatency.WithLabelValues(metrics.EncodeLabel).Observe(float64(time.Since(start).Microseconds()))
	}
	return data, nil
}

// validate 在编码前遍历值树：检查标识长度、嵌套深度与容器中的 nil 元素。
// ElementDrop 策略下 nil 元素会在编码时被过滤，这里只记录日志与指标。
func (a *Archiver) validate(v Value, depth int) error {
	if depth > a.opts.MaxDepth {
		return merr.WrapErrNestingTooDeep(depth, a.opts.MaxDepth)
	}
	if len(v.Identifier()) > MaxIdentifierLength {
		return merr.WrapErrIdentifierTooLong(v.Identifier(), MaxIdentifierLength)
	}
	container, ok := v.(Container)
	if !ok {
		return nil
	}
	for i, child := range container.Children() {
		if isNil(child) {
			if a.opts.ElementPolicy == ElementError {
				return merr.WrapErrUnsupportedElement(child, fmt.Sprintf("%s element %d", v.Identifier(), i))
			}
			a.dropped(v.Identifier(), i)
			continue
		}
		if err := a.validate(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archiver) dropped(identifier string, index int) {
	a.Logger().RatedWarn(1, "drop non-conforming element",
		log.FieldIdentifier(identifier), zap.Int("index", index))
	if a.opts.EnableMetrics {
		metrics.ArchiveDroppedElements.Inc()
	}
}

// NewDecoder 返回使用当前注册表与策略的解码器。
func (a *Archiver) NewDecoder() *Decoder {
	return &Decoder{
		registry:      a.opts.Registry,
		duplicateKeys: a.opts.DuplicateKeyPolicy,
		maxDepth:      a.opts.MaxDepth,
	}
}

// Decode 解析一条完整的归档记录，data 必须恰好包含一条记录。
func (a *Archiver) Decode(data []byte) (Value, error) {
	start := time.Now()
	v, err := a.decode(data)
	if a.opts.EnableMetrics {
		if err != nil {
			metrics.ArchiveDecodeFailures.WithLabelValues(strconv.FormatInt(int64(merr.Code(err)), 10)).Inc()
		} else {
			metrics.ArchiveDecodedRecords.WithLabelValues(v.Identifier()).Inc()
			metrics.ArchiveRecordBytes.WithLabelValues(metrics.DecodeLabel).Observe(float64(len(data)))
			metrics.ArchiveLatency.WithLabelValues(metrics.DecodeLabel).Observe(float64(time.Since(start).Microseconds()))
		}
	}
	return v, err
}

func (a *Archiver) decode(data []byte) (Value, error) {
	if a.opts.MaxRecordSize > 0 && len(data) > a.opts.MaxRecordSize {
		return nil, merr.WrapErrRecordTooLarge(len(data), a.opts.MaxRecordSize)
	}
	return a.NewDecoder().Decode(data)
}

// DecodeBatch 在协程池上并发解码多条相互独立的记录。
//
// 返回值与 records 一一对应，解码失败的位置为 nil；err 合并了全部失败原因。
// ctx 结束后尚未完成的记录以 ctx.Err() 失败。
func (a *Archiver) DecodeBatch(ctx context.Context, records [][]byte) ([]Value, error) {
	futures := make([]*conc.Future[Value], 0, len(records))
	for _, record := range records {
		record := record
		futures = append(futures, a.pool.Submit(func() (Value, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return a.Decode(record)
		}))
	}

	values := make([]Value, len(records))
	var errs []error
	for i, future := range futures {
		v, err := conc.AwaitContext(ctx, future)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "record %d", i))
			continue
		}
		values[i] = v
	}
	if len(errs) > 0 {
		log.Ctx(ctx).Debug("decode batch finished with failures",
			zap.Int("records", len(records)), zap.Int("failures", len(errs)))
	}
	return values, merr.Combine(errs...)
}
