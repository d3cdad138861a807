// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package future

import (
	"context"
	"sync"
)

// Future is a single-assignment placeholder for a value that becomes
// available later. The first call to Success or Failure wins; later calls
// are no-ops and report false.
//
// Example usage:
//
//	f := future.New[int]()
//	go func() { f.Success(42) }()
//	value, err := f.Await(ctx)
type Future[T any] struct {
	completeOnce sync.Once
	done         chan struct{}
	value        T
	err          error
}

// New creates an instance of Future
func New[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Success completes the future with the given value
func (x *Future[T]) Success(value T) bool {
	completed := false
	x.completeOnce.Do(func() {
		x.value = value
		completed = true
		close(x.done)
	})
	return completed
}

// Failure completes the future with the given error
func (x *Future[T]) Failure(err error) bool {
	completed := false
	x.completeOnce.Do(func() {
		x.err = err
		completed = true
		close(x.done)
	})
	return completed
}

// Done returns a channel that is closed once the future is completed
func (x *Future[T]) Done() <-chan struct{} {
	return x.done
}

// Await blocks until the future is completed or the context is done.
// A done context does not complete the future.
func (x *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-x.done:
		return x.value, x.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
