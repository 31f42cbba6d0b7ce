// Package split 提供对连续字节缓冲区的切分工具。
//
// 所有函数都是无状态的纯函数，并且在越界时返回显式错误而不是 panic：
//   - 声明长度超过剩余字节数 -> merr.ErrTruncatedBuffer
//   - 长度为负数，或长度之和与缓冲区大小不一致 -> merr.ErrMalformedLength
//
// 返回的子切片是输入缓冲区上互不重叠的视图，且容量被截断到自身长度，
// 因此对某个子切片 append 不会覆盖相邻子切片的内容。
package split

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

// Split 将 data 在第 n 个字节处切分为 former（前 n 个字节）与 latter（剩余字节）。
func Split(data []byte, n int) (former, latter []byte, err error) {
	if n < 0 {
		return nil, nil, merr.WrapErrNegativeLength("split", n)
	}
	if n > len(data) {
		return nil, nil, merr.WrapErrTruncatedBuffer(n, len(data))
	}
	return view(data, 0, n), view(data, n, len(data)), nil
}

// Lengths 按 lengths 依次切分 data，返回与 lengths 一一对应的子切片。
//
// 要求 sum(lengths) == len(data)：
//   - 前缀和超过 len(data) 时返回 ErrTruncatedBuffer；
//   - 全部切分完成后仍有剩余字节时返回 ErrMalformedLength。
func Lengths(data []byte, lengths []int) ([][]byte, error) {
	parts, rest, err := Prefix(data, lengths)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, merr.WrapErrTrailingBytes(len(rest), "sum of lengths does not match buffer size")
	}
	return parts, nil
}

// Prefix 与 Lengths 类似，但允许 data 在切分完成后还有剩余，剩余部分通过 rest 返回。
func Prefix(data []byte, lengths []int) (parts [][]byte, rest []byte, err error) {
	parts = make([][]byte, 0, len(lengths))
	position := 0
	for i, length := range lengths {
		if length < 0 {
			return nil, nil, merr.WrapErrNegativeLength(fmt.Sprintf("lengths[%d]", i), length)
		}
		if length > len(data)-position {
			return nil, nil, merr.WrapErrTruncatedBuffer(position+length, len(data))
		}
		parts = append(parts, view(data, position, position+length))
		position += length
	}
	return parts, view(data, position, len(data)), nil
}

// Uniform 返回 count 个值均为 width 的长度列表，用于切分定长字段。
func Uniform(width, count int) []int {
	if count <= 0 {
		return nil
	}
	return lo.Times(count, func(int) int { return width })
}

func view(data []byte, from, to int) []byte {
	return data[from:to:to]
}
