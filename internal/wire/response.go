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

package wire

import "fmt"

// ResponseKind enumerates the outcomes of a remote call
type ResponseKind string

const (
	// SuccessKind carries the serialized return value
	SuccessKind ResponseKind = "success"
	// VoidSuccessKind marks a successful call without return value
	VoidSuccessKind ResponseKind = "voidSuccess"
	// WrappingErrorKind carries a serialized structured error
	WrappingErrorKind ResponseKind = "wrappingError"
	// NonCodableErrorKind carries a stringified error
	NonCodableErrorKind ResponseKind = "nonCodableError"
	// SystemFailureKind reports that the call could not be serviced at all
	SystemFailureKind ResponseKind = "systemFailure"
)

// Response is the outcome of a remote call
type Response struct {
	Kind        ResponseKind `json:"kind"`
	Data        []byte       `json:"data,omitempty"`
	TypeName    string       `json:"typeName,omitempty"`
	Description string       `json:"description,omitempty"`
}

// Success creates a success response
func Success(data []byte) Response {
	return Response{Kind: SuccessKind, Data: data}
}

// VoidSuccess creates a voidSuccess response
func VoidSuccess() Response {
	return Response{Kind: VoidSuccessKind}
}

// WrappingError creates a wrappingError response
func WrappingError(typeName string, data []byte) Response {
	return Response{Kind: WrappingErrorKind, TypeName: typeName, Data: data}
}

// NonCodableError creates a nonCodableError response
func NonCodableError(typeName, description string) Response {
	return Response{Kind: NonCodableErrorKind, TypeName: typeName, Description: description}
}

// SystemFailure creates a systemFailure response
func SystemFailure() Response {
	return Response{Kind: SystemFailureKind}
}

// Validate checks that the kind is known
func (r Response) Validate() error {
	switch r.Kind {
	case SuccessKind, VoidSuccessKind, WrappingErrorKind, NonCodableErrorKind, SystemFailureKind:
		return nil
	default:
		return fmt.Errorf("unknown response kind %q", r.Kind)
	}
}
