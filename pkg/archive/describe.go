package archive

import (
	"fmt"
	"strings"
)

// Describe 以缩进树的形式渲染 v，每行包含标识、归档长度以及标量值。
//
//	list (len=82)
//	  [0] string (len=20) "a"
//	  [1] string (len=21) "bb"
func Describe(v Value) string {
	var sb strings.Builder
	describe(&sb, "", v, 0)
	return sb.String()
}

func describe(sb *strings.Builder, label string, v Value, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		sb.WriteString(label)
		sb.WriteByte(' ')
	}
	if isNil(v) {
		sb.WriteString("<nil>\n")
		return
	}
	fmt.Fprintf(sb, "%s (len=%d)", v.Identifier(), v.TotalLength())

	switch t := v.(type) {
	case Int, Uint, Float32, Float64:
		fmt.Fprintf(sb, " %v\n", t)
	case String:
		fmt.Fprintf(sb, " %q\n", string(t))
	case *List:
		sb.WriteByte('\n')
		for i, element := range t.elements {
			describe(sb, fmt.Sprintf("[%d]", i), element, depth+1)
		}
	case fielded:
		sb.WriteByte('\n')
		fields := t.Fields()
		for _, key := range fields.Keys() {
			describe(sb, fmt.Sprintf("%q:", key), fields.entries[key], depth+1)
		}
	default:
		sb.WriteByte('\n')
	}
}
