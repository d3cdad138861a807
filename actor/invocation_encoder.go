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

// InvocationEncoder records the parts of a call before it is sent:
// generic substitutions, arguments in order, return type and error type.
type InvocationEncoder struct {
	serializer serializer.Serializer
	container  wire.RemoteCallContainer
	done       bool
}

// NewInvocationEncoder creates an encoder using the system serializer
func (x *ActorSystem) NewInvocationEncoder() *InvocationEncoder {
	return &InvocationEncoder{
		serializer: x.serializer,
		container: wire.RemoteCallContainer{
			Arguments:            make([][]byte, 0),
			GenericSubstitutions: make([]string, 0),
		},
	}
}

// RecordGenericSubstitution appends the wire name of a type argument
func (x *InvocationEncoder) RecordGenericSubstitution(t reflect.Type) error {
	if x.done {
		return errors.ErrEncodingDone
	}
	name, err := types.MangledName(t)
	if err != nil {
		return err
	}
	x.container.GenericSubstitutions = append(x.container.GenericSubstitutions, name)
	return nil
}

// RecordArgument serializes and appends the next argument
func (x *InvocationEncoder) RecordArgument(value any) error {
	if x.done {
		return errors.ErrEncodingDone
	}
	bytea, err := x.serializer.Serialize(value)
	if err != nil {
		return err
	}
	x.container.Arguments = append(x.container.Arguments, bytea)
	return nil
}

// RecordReturnType records the wire name of the expected result type
func (x *InvocationEncoder) RecordReturnType(t reflect.Type) error {
	if x.done {
		return errors.ErrEncodingDone
	}
	name, err := types.MangledName(t)
	if err != nil {
		return err
	}
	x.container.ReturnType = &name
	return nil
}

// RecordErrorType marks the call as able to fail with an application error
func (x *InvocationEncoder) RecordErrorType() error {
	if x.done {
		return errors.ErrEncodingDone
	}
	x.container.Throws = true
	return nil
}

// DoneRecording seals the encoder
func (x *InvocationEncoder) DoneRecording() error {
	if x.done {
		return errors.ErrEncodingDone
	}
	x.done = true
	return nil
}

// record returns the container addressed to the given method
func (x *InvocationEncoder) record(method string) wire.RemoteCallContainer {
	container := x.container
	container.MethodIdentifier = method
	return container
}
