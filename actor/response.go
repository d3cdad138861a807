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
	"fmt"
	"reflect"

	"github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/internal/wire"
)

// toResponse encodes the outcome of an inbound call. A panic raised by the
// returned value or error while encoding is reported as an error.
func (x *ActorSystem) toResponse(result methodResult) (response wire.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			response = wire.Response{}
			err = errors.NewPanicError(fmt.Errorf("failed to encode the outcome of the call: %v", r))
		}
	}()

	if result.err != nil {
		return x.errorResponse(result.err), nil
	}

	if !result.hasValue {
		return wire.VoidSuccess(), nil
	}

	data, err := x.serializer.Serialize(result.value.Interface())
	if err != nil {
		return wire.Response{}, fmt.Errorf("failed to serialize the result of type %s: %w", result.value.Type(), err)
	}
	return wire.Success(data), nil
}

// errorResponse carries the error as a structured value when its type is
// registered and serializable, and as its message otherwise.
func (x *ActorSystem) errorResponse(err error) wire.Response {
	name := types.NameOf(err)
	if registered, ok := x.typesRegistry.TypeOf(name); ok && registered == elemType(reflect.TypeOf(err)) {
		if data, serr := x.serializer.Serialize(err); serr == nil {
			return wire.WrappingError(name, data)
		}
	}
	return wire.NonCodableError(types.Name(reflect.TypeOf(err)), err.Error())
}

// toResult decodes the response of an outbound call. A nil expected type
// means the call has no return value.
func (x *ActorSystem) toResult(response wire.Response, expected reflect.Type) (any, error) {
	switch response.Kind {
	case wire.SuccessKind:
		if expected == nil {
			return nil, errors.NewErrSystemError(fmt.Errorf("unexpected return value for a void call"))
		}
		target := reflect.New(expected)
		if err := x.serializer.Deserialize(response.Data, target.Interface()); err != nil {
			return nil, errors.NewErrSystemError(err)
		}
		return target.Elem().Interface(), nil

	case wire.VoidSuccessKind:
		if expected != nil {
			return nil, errors.NewErrSystemError(fmt.Errorf("missing return value of type %s", expected))
		}
		return nil, nil

	case wire.WrappingErrorKind:
		return nil, x.decodeError(response.TypeName, response.Data)

	case wire.NonCodableErrorKind:
		return nil, errors.NewRemoteError(response.TypeName, response.Description)

	case wire.SystemFailureKind:
		return nil, errors.ErrUnknownRemoteActor

	default:
		return nil, errors.NewErrSystemError(fmt.Errorf("unknown response kind %q", response.Kind))
	}
}

// decodeError rebuilds a structured error from its registered type
func (x *ActorSystem) decodeError(typeName string, data []byte) error {
	registered, ok := x.typesRegistry.TypeOf(typeName)
	if !ok {
		return errors.NewRemoteError(typeName, "")
	}

	target := reflect.New(registered)
	if err := x.serializer.Deserialize(data, target.Interface()); err != nil {
		return errors.NewRemoteError(typeName, "")
	}

	if registered.Implements(errorType) {
		return target.Elem().Interface().(error)
	}

	if target.Type().Implements(errorType) {
		return target.Interface().(error)
	}

	return errors.NewRemoteError(typeName, "")
}

func elemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
