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

package actor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tochemey/meshakt/errors"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// methodResult is the outcome of an actor method execution
type methodResult struct {
	value    reflect.Value
	hasValue bool
	err      error
}

// method is an actor method that can be invoked by name
type method struct {
	name        string
	fn          reflect.Value
	withContext bool
	params      []reflect.Type
	returnsErr  bool
	returnsVal  bool
}

// lookupMethod binds the exported method with the given name on the actor.
// Accepted shapes are func([ctx,] args...) with results (), (error),
// (R) or (R, error).
func lookupMethod(actor any, name string) (*method, error) {
	fn := reflect.ValueOf(actor).MethodByName(name)
	if !fn.IsValid() {
		return nil, errors.NewErrMethodNotFound(name)
	}

	ftype := fn.Type()
	if ftype.IsVariadic() {
		return nil, errors.NewErrInvalidMethodSignature(name, "variadic methods are not supported")
	}

	m := &method{name: name, fn: fn}

	start := 0
	if ftype.NumIn() > 0 && ftype.In(0) == contextType {
		m.withContext = true
		start = 1
	}

	for i := start; i < ftype.NumIn(); i++ {
		m.params = append(m.params, ftype.In(i))
	}

	switch ftype.NumOut() {
	case 0:
	case 1:
		if ftype.Out(0) == errorType {
			m.returnsErr = true
		} else {
			m.returnsVal = true
		}
	case 2:
		if ftype.Out(1) != errorType {
			return nil, errors.NewErrInvalidMethodSignature(name, "second result must be an error")
		}
		m.returnsVal = true
		m.returnsErr = true
	default:
		return nil, errors.NewErrInvalidMethodSignature(name, "too many results")
	}

	return m, nil
}

// call decodes the arguments and executes the method. A returned error is
// an execution fault, application errors are carried by the result.
func (m *method) call(ctx context.Context, decoder *InvocationDecoder) (result methodResult, err error) {
	args := make([]reflect.Value, 0, len(m.params)+1)
	if m.withContext {
		args = append(args, reflect.ValueOf(ctx))
	}

	for _, param := range m.params {
		arg, err := decoder.DecodeNextArgument(param)
		if err != nil {
			return result, err
		}
		args = append(args, arg)
	}

	if remaining := decoder.remaining(); remaining > 0 {
		return result, errors.NewErrInvalidMethodSignature(m.name, fmt.Sprintf("%d unexpected arguments", remaining))
	}

	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = errors.NewPanicError(perr)
				return
			}
			err = errors.NewPanicError(fmt.Errorf("%v", r))
		}
	}()

	outs := m.fn.Call(args)

	if m.returnsErr {
		if errValue := outs[len(outs)-1]; !errValue.IsNil() {
			result.err = errValue.Interface().(error)
			return result, nil
		}
	}

	if m.returnsVal {
		result.value = outs[0]
		result.hasValue = true
	}
	return result, nil
}
