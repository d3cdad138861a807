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

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
)

// Spawn assigns an id, builds the actor with it and makes it ready
func Spawn[T any](system *ActorSystem, factory func(id address.ActorID) T) (address.ActorID, T) {
	id := system.AssignID()
	actor := factory(id)
	system.ActorReady(id, actor)
	return id, actor
}

// Resolve returns the local actor of type T with the given id.
// ok is false when the actor is hosted by a known remote peer.
func Resolve[T any](system *ActorSystem, id address.ActorID) (actor T, ok bool, err error) {
	instance, err := system.Resolve(id, reflect.TypeFor[T]())
	if err != nil || instance == nil {
		return actor, false, err
	}
	return instance.(T), true, nil
}

// Call invokes the method of the target actor and returns its result
func Call[R any](ctx context.Context, system *ActorSystem, target address.ActorID, method string, args ...any) (R, error) {
	var zero R
	returnType := reflect.TypeFor[R]()

	encoder, err := encode(system, returnType, args...)
	if err != nil {
		return zero, err
	}

	result, err := system.RemoteCall(ctx, target, method, encoder, returnType)
	if err != nil {
		return zero, err
	}

	value, ok := result.(R)
	if !ok && result != nil {
		return zero, errors.NewErrSystemError(fmt.Errorf("unexpected result of type %T", result))
	}
	return value, nil
}

// CallVoid invokes a method of the target actor that returns no value
func CallVoid(ctx context.Context, system *ActorSystem, target address.ActorID, method string, args ...any) error {
	encoder, err := encode(system, nil, args...)
	if err != nil {
		return err
	}
	return system.RemoteCallVoid(ctx, target, method, encoder)
}

// NextArgument decodes the next argument as a value of type T
func NextArgument[T any](decoder *InvocationDecoder) (T, error) {
	var zero T
	value, err := decoder.DecodeNextArgument(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return value.Interface().(T), nil
}

func encode(system *ActorSystem, returnType reflect.Type, args ...any) (*InvocationEncoder, error) {
	encoder := system.NewInvocationEncoder()
	for _, arg := range args {
		if err := encoder.RecordArgument(arg); err != nil {
			return nil, err
		}
	}

	if returnType != nil {
		if err := encoder.RecordReturnType(returnType); err != nil {
			return nil, err
		}
	}

	if err := encoder.RecordErrorType(); err != nil {
		return nil, err
	}

	if err := encoder.DoneRecording(); err != nil {
		return nil, err
	}
	return encoder, nil
}
