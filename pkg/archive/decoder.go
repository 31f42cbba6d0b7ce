package archive

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Decoder 承载一次解码调用的注册表、策略与当前嵌套深度。
//
// Decoder 不是并发安全的，每次顶层解码使用独立的实例。
type Decoder struct {
	registry      *Registry
	duplicateKeys DuplicateKeyPolicy
	maxDepth      int
	depth         int
}

// Registry 返回解码使用的注册表。
func (d *Decoder) Registry() *Registry { return d.registry }

// Decode 解析一条完整的归档记录：读取标识，分派到对应解码过程，
// 若结果为 Map/Record 且登记了同名还原过程，则返回还原后的值。
func (d *Decoder) Decode(data []byte) (Value, error) {
	if d.depth >= d.maxDepth {
		return nil, merr.WrapErrNestingTooDeep(d.depth+1, d.maxDepth)
	}
	prefix, rest, err := split.Split(data, 1)
	if err != nil {
		return nil, err
	}
	idBytes, rest, err := split.Split(rest, int(prefix[0]))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(idBytes) {
		return nil, merr.WrapErrInvalidEncoding("utf-8", "identifier")
	}
	identifier := string(idBytes)

	decode, ok := d.registry.Decoder(identifier)
	if !ok {
		return nil, merr.WrapErrUnknownIdentifier(identifier)
	}

	d.depth++
	candidate, err := decode(d, rest)
	d.depth--
	if err != nil {
		return nil, errors.Wrapf(err, "decode %q", identifier)
	}
	if isNil(candidate) {
		return nil, merr.WrapErrRestoreFailed(identifier, errors.New("decode procedure returned nil"))
	}
	return d.restore(identifier, candidate)
}

func (d *Decoder) restore(identifier string, candidate Value) (Value, error) {
	var fields *Map
	switch v := candidate.(type) {
	case *Map:
		fields = v
	case *Record:
		fields = v.Fields()
	default:
		return candidate, nil
	}
	restore, ok := d.registry.Restorer(identifier)
	if !ok {
		return candidate, nil
	}
	restored, err := restore(fields)
	if err != nil {
		return nil, merr.WrapErrRestoreFailed(identifier, err)
	}
	if isNil(restored) {
		return nil, merr.WrapErrRestoreFailed(identifier, errors.New("restore procedure returned nil"))
	}
	return restored, nil
}
