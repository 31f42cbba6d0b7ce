package archive

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lk2023060901/struct-archiver-go/pkg/log"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/typeutil"
)

// DecodeFunc 把去掉标识前缀后的剩余字节解析为 Value。
// 容器类型通过 d.Decode 递归分派子记录。
type DecodeFunc func(d *Decoder, data []byte) (Value, error)

// RestoreFunc 把解码得到的字段 Map 重建为复合值。
type RestoreFunc func(fields *Map) (Value, error)

// Activation 在启动阶段向注册表登记一组类型。
type Activation func(r *Registry) error

// Registry 维护标识到解码过程、标识到还原过程的映射。
//
// 注册会覆盖同名标识的已有条目，条目不会被移除。调用 Freeze 之后注册表只读。
type Registry struct {
	log.Binder

	mu        sync.RWMutex
	decoders  map[string]DecodeFunc
	restorers map[string]RestoreFunc
	frozen    bool
}

// NewRegistry 创建空的注册表。
func NewRegistry() *Registry {
	return &Registry{
		decoders:  make(map[string]DecodeFunc),
		restorers: make(map[string]RestoreFunc),
	}
}

// NewStandardRegistry 创建已登记全部内置类型的注册表，并依次执行 activations。
func NewStandardRegistry(activations ...Activation) (*Registry, error) {
	r := NewRegistry()
	if err := RegisterStandard(r); err != nil {
		return nil, err
	}
	for _, activate := range activations {
		if err := activate(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RegisterStandard 登记 int、uint、float32、float64、string、list、map 的解码过程。
func RegisterStandard(r *Registry) error {
	standard := []struct {
		identifier string
		fn         DecodeFunc
	}{
		{IdentifierInt, decodeInt},
		{IdentifierUint, decodeUint},
		{IdentifierFloat32, decodeFloat32},
		{IdentifierFloat64, decodeFloat64},
		{IdentifierString, decodeString},
		{IdentifierList, decodeList},
		{IdentifierMap, decodeMap},
	}
	for _, entry := range standard {
		if err := r.RegisterDecode(entry.identifier, entry.fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDecode 登记 identifier 的解码过程，已存在时覆盖。
func (r *Registry) RegisterDecode(identifier string, fn DecodeFunc) error {
	if fn == nil {
		return merr.WrapErrParameterMissing("decode func", identifier)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkWritable(identifier); err != nil {
		return err
	}
	if _, ok := r.decoders[identifier]; ok {
		r.Logger().Debug("overwrite decode procedure", zap.String("identifier", identifier))
	}
	r.decoders[identifier] = fn
	return nil
}

// RegisterRestore 登记 identifier 的还原过程，已存在时覆盖。
func (r *Registry) RegisterRestore(identifier string, fn RestoreFunc) error {
	if fn == nil {
		return merr.WrapErrParameterMissing("restore func", identifier)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkWritable(identifier); err != nil {
		return err
	}
	r.restorers[identifier] = fn
	return nil
}

// RegisterRecord 为复合记录类型同时登记解码过程与还原过程。
// restore 为 nil 时解码结果保持为 *Record。
func (r *Registry) RegisterRecord(identifier string, restore RestoreFunc) error {
	if err := r.RegisterDecode(identifier, recordDecoder(identifier)); err != nil {
		return err
	}
	if restore == nil {
		return nil
	}
	return r.RegisterRestore(identifier, restore)
}

func (r *Registry) checkWritable(identifier string) error {
	if len(identifier) > MaxIdentifierLength {
		return merr.WrapErrIdentifierTooLong(identifier, MaxIdentifierLength)
	}
	if r.frozen {
		return merr.WrapErrRegistryFrozen(identifier)
	}
	return nil
}

// Decoder 返回 identifier 对应的解码过程。
func (r *Registry) Decoder(identifier string) (DecodeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.decoders[identifier]
	return fn, ok
}

// Restorer 返回 identifier 对应的还原过程。
func (r *Registry) Restorer(identifier string) (RestoreFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.restorers[identifier]
	return fn, ok
}

// Identifiers 返回全部已登记解码过程的标识。
func (r *Registry) Identifiers() typeutil.Set[string] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := typeutil.NewSet[string]()
	for identifier := range r.decoders {
		set.Insert(identifier)
	}
	return set
}

// Freeze 使注册表只读，此后的注册返回 ErrRegistryFrozen。
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
