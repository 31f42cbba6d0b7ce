package archive

import (
	"math"

	"github.com/lk2023060901/struct-archiver-go/pkg/buffer/split"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// IntFieldWidth 为头部中一个整数字段的字节数。
//
// 头部里的计数与长度都以完整的 Int 归档记录表示，因此宽度等于 Int 的 TotalLength。
var IntFieldWidth = Int(0).TotalLength()

// intField 将 n 编码为一个完整的 Int 归档记录。
func intField(n int) []byte {
	buf := make([]byte, 0, IntFieldWidth)
	buf = append(buf, byte(len(IdentifierInt)))
	buf = append(buf, IdentifierInt...)
	return appendWord(buf, uint64(n))
}

// readIntField 解析一个头部整数字段，field 必须恰好为 IntFieldWidth 字节。
func readIntField(field []byte) (int, error) {
	field, err := exact(field, IntFieldWidth)
	if err != nil {
		return 0, err
	}
	idLen := int(field[0])
	if idLen != len(IdentifierInt) || string(field[1:1+idLen]) != IdentifierInt {
		return 0, merr.WrapErrMalformedLength("header field is not an int record")
	}
	return int(word(field[1+idLen:])), nil
}

// readCount 读取头部首个计数字段。
func readCount(data []byte) (count int, rest []byte, err error) {
	field, rest, err := split.Split(data, IntFieldWidth)
	if err != nil {
		return 0, nil, err
	}
	count, err = readIntField(field)
	if err != nil {
		return 0, nil, err
	}
	if count < 0 {
		return 0, nil, merr.WrapErrNegativeLength("count", count)
	}
	return count, rest, nil
}

// readLengths 读取 n 个连续的长度字段，返回长度列表与剩余的负载部分。
func readLengths(data []byte, n int) (lengths []int, rest []byte, err error) {
	if n > len(data)/IntFieldWidth {
		return nil, nil, merr.WrapErrTruncatedBuffer(fieldsSize(n), len(data))
	}
	fields, rest, err := split.Prefix(data, split.Uniform(IntFieldWidth, n))
	if err != nil {
		return nil, nil, err
	}
	lengths = make([]int, 0, n)
	for _, field := range fields {
		length, err := readIntField(field)
		if err != nil {
			return nil, nil, err
		}
		lengths = append(lengths, length)
	}
	return lengths, rest, nil
}

func fieldsSize(n int) int {
	if n > math.MaxInt/IntFieldWidth {
		return math.MaxInt
	}
	return n * IntFieldWidth
}
