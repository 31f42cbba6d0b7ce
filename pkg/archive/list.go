package archive

import (
	"slices"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
)

// List 是有序、元素类型可异构的容器。
type List struct {
	elements []Value
}

var _ Container = (*List)(nil)

// NewList 以给定元素创建 List。
func NewList(values ...Value) *List {
	return &List{elements: slices.Clone(values)}
}

func (l *List) Len() int { return len(l.elements) }

// At 返回第 i 个元素，越界时 panic，与切片下标语义一致。
func (l *List) At(i int) Value { return l.elements[i] }

// Elements 返回元素的拷贝。
func (l *List) Elements() []Value { return slices.Clone(l.elements) }

// Append 追加元素并返回 l 本身，便于链式构造。
func (l *List) Append(values ...Value) *List {
	l.elements = append(l.elements, values...)
	return l
}

func (l *List) Children() []Value { return l.elements }

func (l *List) Identifier() string { return IdentifierList }
func (l *List) Kind() Kind         { return KindList }

func (l *List) HeaderData() [][]byte {
	elements := conforming(l.elements)
	header := make([][]byte, 0, 1+len(elements))
	header = append(header, intField(len(elements)))
	for _, element := range elements {
		header = append(header, intField(element.TotalLength()))
	}
	return header
}

func (l *List) BodyData() [][]byte {
	elements := conforming(l.elements)
	body := make([][]byte, 0, len(elements))
	for _, element := range elements {
		body = append(body, Bytes(element))
	}
	return body
}

func (l *List) TotalLength() int {
	elements := conforming(l.elements)
	total := identifierLength(IdentifierList) + IntFieldWidth*(1+len(elements))
	for _, element := range elements {
		total += element.TotalLength()
	}
	return total
}

func decodeList(d *Decoder, data []byte) (Value, error) {
	count, rest, err := readCount(data)
	if err != nil {
		return nil, err
	}
	lengths, payload, err := readLengths(rest, count)
	if err != nil {
		return nil, err
	}
	parts, err := split.Lengths(payload, lengths)
	if err != nil {
		return nil, err
	}
	elements := make([]Value, 0, count)
	for _, part := range parts {
		element, err := d.Decode(part)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return &List{elements: elements}, nil
}
