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
	"reflect"

	"github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/internal/wire"
	"github.com/tochemey/meshakt/serializer"
)

// InvocationDecoder reads back a recorded call on the executing side.
// Arguments are consumed in the order they were recorded.
type InvocationDecoder struct {
	serializer    serializer.Serializer
	types         types.Registry
	container     wire.RemoteCallContainer
	argumentIndex int
}

func newInvocationDecoder(serializer serializer.Serializer, registry types.Registry, container wire.RemoteCallContainer) *InvocationDecoder {
	return &InvocationDecoder{
		serializer: serializer,
		types:      registry,
		container:  container,
	}
}

// DecodeNextArgument deserializes the next argument into a new value of type t
func (x *InvocationDecoder) DecodeNextArgument(t reflect.Type) (reflect.Value, error) {
	if x.argumentIndex >= len(x.container.Arguments) {
		return reflect.Value{}, errors.NewErrTooFewArguments(x.argumentIndex+1, len(x.container.Arguments))
	}

	data := x.container.Arguments[x.argumentIndex]
	x.argumentIndex++

	target := reflect.New(t)
	if err := x.serializer.Deserialize(data, target.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return target.Elem(), nil
}

// DecodeGenericSubstitutions resolves every recorded type argument
func (x *InvocationDecoder) DecodeGenericSubstitutions() ([]reflect.Type, error) {
	out := make([]reflect.Type, 0, len(x.container.GenericSubstitutions))
	for _, name := range x.container.GenericSubstitutions {
		t, ok := x.resolveType(name)
		if !ok {
			return nil, errors.NewErrInvalidGenericSubstitution(name)
		}
		out = append(out, t)
	}
	return out, nil
}

// DecodeReturnType resolves the recorded return type. It returns nil
// when no return type was recorded or when the name is unknown locally.
func (x *InvocationDecoder) DecodeReturnType() reflect.Type {
	if x.container.ReturnType == nil {
		return nil
	}
	t, _ := x.resolveType(*x.container.ReturnType)
	return t
}

// DecodeErrorType returns the error interface type when the call records one
func (x *InvocationDecoder) DecodeErrorType() reflect.Type {
	if !x.container.Throws {
		return nil
	}
	return reflect.TypeFor[error]()
}

// remaining returns the number of arguments not consumed yet
func (x *InvocationDecoder) remaining() int {
	return len(x.container.Arguments) - x.argumentIndex
}

// resolveType looks the name up in the registry. Pointer names resolve to a
// pointer to the registered element type.
func (x *InvocationDecoder) resolveType(name string) (reflect.Type, bool) {
	if t, ok := x.types.TypeOf(name); ok {
		return t, true
	}
	if len(name) > 1 && name[0] == '*' {
		if elem, ok := x.resolveType(name[1:]); ok {
			return reflect.PointerTo(elem), true
		}
	}
	return nil, false
}
