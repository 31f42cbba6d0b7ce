package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule     = "module"
	FieldNameComponent  = "component"
	FieldNameIdentifier = "identifier"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldIdentifier 返回一个包含归档类型标识的 zap 字段。
func FieldIdentifier(identifier string) zap.Field {
	return zap.String(FieldNameIdentifier, identifier)
}
