package archive

import (
	"strings"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// ElementPolicy 决定编码时如何处理容器中不合规（nil 或不支持的类型）的元素。
type ElementPolicy int

const (
	// ElementError 使编码失败并返回 ErrUnsupportedElement。
	ElementError ElementPolicy = iota
	// ElementDrop 跳过不合规元素。
	ElementDrop
)

func (p ElementPolicy) String() string {
	switch p {
	case ElementError:
		return "error"
	case ElementDrop:
		return "drop"
	}
	return "unknown"
}

// ParseElementPolicy 解析配置中的 "error" / "drop"，空串视为 "error"。
func ParseElementPolicy(s string) (ElementPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return ElementError, nil
	case "drop":
		return ElementDrop, nil
	}
	return ElementError, merr.WrapErrParameterInvalidMsg("unknown element policy %q", s)
}

// DuplicateKeyPolicy 决定解码 map 时遇到重复键的处理方式。
type DuplicateKeyPolicy int

const (
	// DuplicateKeyError 使解码失败并返回 ErrDuplicateKey。
	DuplicateKeyError DuplicateKeyPolicy = iota
	// DuplicateKeyLastWins 以最后出现的值为准。
	DuplicateKeyLastWins
)

func (p DuplicateKeyPolicy) String() string {
	switch p {
	case DuplicateKeyError:
		return "error"
	case DuplicateKeyLastWins:
		return "last-wins"
	}
	return "unknown"
}

// ParseDuplicateKeyPolicy 解析配置中的 "error" / "last-wins"，空串视为 "error"。
func ParseDuplicateKeyPolicy(s string) (DuplicateKeyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return DuplicateKeyError, nil
	case "last-wins", "lastwins":
		return DuplicateKeyLastWins, nil
	}
	return DuplicateKeyError, merr.WrapErrParameterInvalidMsg("unknown duplicate key policy %q", s)
}
