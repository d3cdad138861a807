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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownRemoteActor is returned when an actor id cannot be matched to a local
	// actor nor to any peer known by the directory. It is also how a remote system
	// failure surfaces on the calling side.
	ErrUnknownRemoteActor = errors.New("The remote actor couldn't be resolved.") // nolint

	// ErrWrongTypeResolution is returned when a local actor exists but is not of the requested type.
	ErrWrongTypeResolution = errors.New("The local actor could not be resolved as the provided type.") // nolint

	// ErrNotConnected is returned when a remote call is attempted without a running transport.
	ErrNotConnected = errors.New("The device is not connected to any others.") // nolint

	// ErrActorOwnerNotConnected is returned when the peer hosting the target actor is known
	// but not currently connected.
	ErrActorOwnerNotConnected = errors.New("The device is not connected to the owner of the actor.") // nolint

	// ErrSystemError is returned when a response could not be decoded or resolved.
	ErrSystemError = errors.New("An error occurred while performing remote operations.") // nolint

	// ErrTooFewArguments is returned when an invocation decoder runs out of encoded arguments.
	ErrTooFewArguments = errors.New("too few arguments")

	// ErrInvalidGenericSubstitution is returned when a generic substitution name has no registered type.
	ErrInvalidGenericSubstitution = errors.New("invalid generic substitution")

	// ErrNoMangledName is returned when a type cannot be named for wire transmission.
	ErrNoMangledName = errors.New("type cannot be named for wire transmission")

	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]), with optional
	// hyphens or underscores that are not leading.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when Start is called on a running actor system.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrCallTimeout indicates that a remote call did not receive its response in time.
	ErrCallTimeout = errors.New("remote call timed out")

	// ErrMethodNotFound is returned when the invocation target does not expose the requested method.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidMethodSignature is returned when a method cannot be invoked remotely.
	ErrInvalidMethodSignature = errors.New("invalid method signature")

	// ErrActorNotFound indicates that the specified actor is not hosted locally.
	ErrActorNotFound = errors.New("actor not found")

	// ErrSubscriptionClosed is returned when reading from a canceled subscription.
	ErrSubscriptionClosed = errors.New("subscription is closed")

	// ErrInvalidEnvelope is returned when a tagged payload cannot be decoded.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrPeerNotConnected is returned by transports when the destination peer has no session.
	ErrPeerNotConnected = errors.New("peer is not connected")

	// ErrTransportNotStarted is returned by transports used before Start or after Stop.
	ErrTransportNotStarted = errors.New("transport is not started")

	// ErrEncodingDone is returned when recording into an invocation encoder that is already done.
	ErrEncodingDone = errors.New("invocation encoding is already done")
)

// NewErrTooFewArguments reports how many arguments were requested and how many were encoded
func NewErrTooFewArguments(requested, available int) error {
	return fmt.Errorf("%w: requested argument #%d, only %d encoded", ErrTooFewArguments, requested, available)
}

// NewErrInvalidGenericSubstitution wraps the unresolved type name
func NewErrInvalidGenericSubstitution(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidGenericSubstitution, name)
}

// NewErrNoMangledName wraps the type that could not be named
func NewErrNoMangledName(typ any) error {
	return fmt.Errorf("%w: %v", ErrNoMangledName, typ)
}

// NewErrSystemError joins ErrSystemError with its cause
func NewErrSystemError(err error) error {
	return errors.Join(ErrSystemError, err)
}

// NewErrMethodNotFound wraps the missing method identifier
func NewErrMethodNotFound(method string) error {
	return fmt.Errorf("%w: %s", ErrMethodNotFound, method)
}

// NewErrInvalidMethodSignature wraps the method whose signature cannot be dispatched
func NewErrInvalidMethodSignature(method string, reason string) error {
	return fmt.Errorf("%w: %s (%s)", ErrInvalidMethodSignature, method, reason)
}

// NewErrActorNotFound wraps the actor id that is not hosted locally
func NewErrActorNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrActorNotFound, id)
}

// NewErrPeerNotConnected wraps the unreachable peer
func NewErrPeerNotConnected(peer string) error {
	return fmt.Errorf("%w: %s", ErrPeerNotConnected, peer)
}

// NewErrInvalidEnvelope wraps the decoding failure of a tagged payload
func NewErrInvalidEnvelope(err error) error {
	return errors.Join(ErrInvalidEnvelope, err)
}

// RemoteError is the error produced on the calling side when the error
// returned by a remote method cannot be rebuilt as its concrete type.
type RemoteError struct {
	// TypeName is the wire name of the remote error type
	TypeName string
	// Description is the remote error message. It is empty when the remote
	// error was encoded as a structured value that failed to decode locally.
	Description string
}

// enforce compilation error
var _ error = (*RemoteError)(nil)

// NewRemoteError creates an instance of RemoteError
func NewRemoteError(typeName, description string) *RemoteError {
	return &RemoteError{TypeName: typeName, Description: description}
}

// Error implements the standard error interface
func (e *RemoteError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("Couldn't decode error %s.", e.TypeName)
	}
	return fmt.Sprintf("%s: %s", e.TypeName, e.Description)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InternalError defines an error that is explicit to the application
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an intance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}
