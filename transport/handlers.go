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

package transport

import (
	"sync"
)

// Handlers is a concurrency-safe ordered list of Handler that transports
// embed to implement AddHandler and message dispatch.
type Handlers struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewHandlers creates an empty handler chain
func NewHandlers() *Handlers {
	return &Handlers{}
}

// Add appends a handler to the chain
func (x *Handlers) Add(handler Handler) {
	if handler == nil {
		return
	}
	x.mu.Lock()
	x.handlers = append(x.handlers, handler)
	x.mu.Unlock()
}

// Dispatch offers the payload to each handler until one consumes it.
// It returns false when no handler consumed the payload.
func (x *Handlers) Dispatch(from string, payload []byte) bool {
	x.mu.RLock()
	handlers := x.handlers
	x.mu.RUnlock()

	for _, handler := range handlers {
		if handler(from, payload) {
			return true
		}
	}
	return false
}

// Len returns the number of handlers
func (x *Handlers) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.handlers)
}
