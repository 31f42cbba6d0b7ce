// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conc

import (
	"context"

	"go.uber.org/atomic"
)

type future interface {
	wait()
	OK() bool
	Err() error
}

// Future 是异步任务结果的占位，任务完成前 Await 会阻塞。
type Future[T any] struct {
	ch    chan struct{}
	value T
	err   error
	done  atomic.Bool
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{ch: make(chan struct{})}
}

func (future *Future[T]) wait() {
	<-future.ch
}

func (future *Future[T]) complete(value T, err error) {
	future.value = value
	future.err = err
	future.done.Store(true)
	close(future.ch)
}

// Value 阻塞直到任务完成，返回任务结果。
func (future *Future[T]) Value() T {
	<-future.ch
	return future.value
}

// Done 报告任务是否已完成，不阻塞。
func (future *Future[T]) Done() bool {
	return future.done.Load()
}

// OK 阻塞直到任务完成，任务出错时返回 false。
func (future *Future[T]) OK() bool {
	<-future.ch
	return future.err == nil
}

func (future *Future[T]) Err() error {
	<-future.ch
	return future.err
}

// Await 阻塞直到任务完成，返回结果与错误。
func (future *Future[T]) Await() (T, error) {
	<-future.ch
	return future.value, future.err
}

// Inner 返回内部的 channel，任务完成后该 channel 被关闭。
func (future *Future[T]) Inner() <-chan struct{} {
	return future.ch
}

// Go 在新协程中执行 fn，并返回其 Future。
func Go[T any](fn func() (T, error)) *Future[T] {
	future := newFuture[T]()
	go func() {
		future.complete(fn())
	}()
	return future
}

// AwaitAll 等待全部 future 完成，返回遇到的第一个错误。
func AwaitAll[T future](futures ...T) error {
	for i := range futures {
		if !futures[i].OK() {
			return futures[i].Err()
		}
	}
	return nil
}

// BlockOnAll 等待全部 future 完成，即使中途出错也不会提前返回。
func BlockOnAll[T future](futures ...T) error {
	var firstErr error
	for i := range futures {
		if err := futures[i].Err(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// AwaitContext 等待 future 完成或 ctx 结束。
func AwaitContext[T any](ctx context.Context, future *Future[T]) (T, error) {
	select {
	case <-future.ch:
		return future.value, future.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
