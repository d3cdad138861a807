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

	"github.com/google/uuid"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/future"
	imetric "github.com/tochemey/meshakt/internal/metric"
	"github.com/tochemey/meshakt/internal/wire"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// RemoteCall invokes the method of the target actor with the recorded
// invocation and returns its result decoded as returnType. A nil returnType
// means the method returns no value. Actors ready on this peer are invoked
// in-process.
func (x *ActorSystem) RemoteCall(ctx context.Context, target address.ActorID, method string, encoder *InvocationEncoder, returnType reflect.Type) (any, error) {
	container := encoder.record(method)

	if entry, ok := x.actors.lookup(target); ok {
		if !entry.ready() {
			panic(fmt.Sprintf("actor %s is reserved but not ready yet", target))
		}
		return x.localCall(ctx, entry.instance, container, returnType)
	}

	response, err := x.remoteCall(ctx, target, container)
	if err != nil {
		x.recordOutbound(ctx, outcomeFailure)
		return nil, err
	}

	result, err := x.toResult(response, returnType)
	if err != nil {
		x.recordOutbound(ctx, outcomeFailure)
		return nil, err
	}

	x.recordOutbound(ctx, outcomeSuccess)
	return result, nil
}

// RemoteCallVoid invokes a method that returns no value
func (x *ActorSystem) RemoteCallVoid(ctx context.Context, target address.ActorID, method string, encoder *InvocationEncoder) error {
	_, err := x.RemoteCall(ctx, target, method, encoder, nil)
	return err
}

// remoteCall sends the invocation and waits for the correlated response
func (x *ActorSystem) remoteCall(ctx context.Context, target address.ActorID, container wire.RemoteCallContainer) (wire.Response, error) {
	if !x.started.Load() {
		return wire.Response{}, errors.ErrNotConnected
	}

	peer, ok := x.ownerOf(target)
	if !ok {
		return wire.Response{}, errors.ErrUnknownRemoteActor
	}

	if !x.transport.IsConnected(peer) {
		return wire.Response{}, errors.ErrActorOwnerNotConnected
	}

	callID := uuid.New()
	payload, err := wire.Encode(wire.NewPerformRemoteCall(callID, target, container))
	if err != nil {
		return wire.Response{}, err
	}

	// the continuation is registered before the request leaves so that an
	// early response always finds it
	pending := future.New[wire.Response]()
	x.inflight.Set(callID, pending)
	x.instruments.InflightCalls().Add(ctx, 1)
	defer x.instruments.InflightCalls().Add(ctx, -1)

	if !x.started.Load() {
		x.inflight.Delete(callID)
		return wire.Response{}, errors.ErrNotConnected
	}

	if err := x.transport.Send(ctx, peer, payload); err != nil {
		x.inflight.Delete(callID)
		x.logger.Warnf("%s failed to send call=%s to peer=%s: %v", x.name, callID, peer, err)
		return wire.Response{}, err
	}

	awaitCtx := ctx
	if x.callTimeout > 0 {
		var cancel context.CancelFunc
		awaitCtx, cancel = context.WithTimeout(ctx, x.callTimeout)
		defer cancel()
	}

	response, err := pending.Await(awaitCtx)
	if err != nil {
		x.inflight.Delete(callID)
		if ctx.Err() == nil && awaitCtx.Err() != nil {
			x.logger.Warnf("%s call=%s to actor=%s timed out after %s", x.name, callID, target, x.callTimeout)
			return wire.Response{}, errors.ErrCallTimeout
		}
		return wire.Response{}, err
	}
	return response, nil
}

// localCall executes the invocation on an actor hosted by this peer. Errors
// are returned as they are, without crossing the response envelope.
func (x *ActorSystem) localCall(ctx context.Context, instance any, container wire.RemoteCallContainer, returnType reflect.Type) (any, error) {
	decoder := newInvocationDecoder(x.serializer, x.typesRegistry, container)
	result, err := x.execute(ctx, &invocation{caller: x.transport.LocalPeer(), local: true}, instance, container.MethodIdentifier, decoder)
	if err != nil {
		return nil, err
	}

	if result.err != nil {
		return nil, result.err
	}

	switch {
	case returnType == nil && !result.hasValue:
		return nil, nil
	case returnType == nil || !result.hasValue:
		return nil, errors.NewErrSystemError(fmt.Errorf("method %s result does not match the expected return type", container.MethodIdentifier))
	case !result.value.Type().AssignableTo(returnType):
		return nil, errors.NewErrSystemError(fmt.Errorf("method %s returns %s, expected %s", container.MethodIdentifier, result.value.Type(), returnType))
	default:
		return result.value.Interface(), nil
	}
}

// execute binds the method, resolves the generic substitutions and runs the call
func (x *ActorSystem) execute(ctx context.Context, inv *invocation, instance any, methodName string, decoder *InvocationDecoder) (methodResult, error) {
	m, err := lookupMethod(instance, methodName)
	if err != nil {
		return methodResult{}, err
	}

	generics, err := decoder.DecodeGenericSubstitutions()
	if err != nil {
		return methodResult{}, err
	}

	inv.generics = generics
	return m.call(withInvocation(ctx, inv), decoder)
}

// handleRemoteCall serves an inbound call. Unknown or not ready targets are
// answered right away, the others run on their own goroutine.
func (x *ActorSystem) handleRemoteCall(from string, call *wire.PerformRemoteCall) {
	instance, ok := x.actors.readyActor(call.TargetActorID)
	if !ok {
		x.logger.Infof("%s received call=%s from peer=%s for unknown actor=%s", x.name, call.CallID, from, call.TargetActorID)
		x.reply(from, call.CallID, wire.SystemFailure())
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				x.logger.Error(fmt.Errorf("%s failed to serve call=%s from peer=%s: %w",
					x.name, call.CallID, from, errors.NewPanicError(fmt.Errorf("%v", r))))
				x.reply(from, call.CallID, wire.SystemFailure())
			}
		}()

		decoder := newInvocationDecoder(x.serializer, x.typesRegistry, call.Container)
		inv := &invocation{callID: call.CallID, caller: from}
		result, err := x.execute(x.ctx, inv, instance, call.Container.MethodIdentifier, decoder)
		if err != nil {
			x.logger.Error(fmt.Errorf("%s failed to execute %s on actor=%s for peer=%s: %w",
				x.name, call.Container.MethodIdentifier, call.TargetActorID, from, err))
			x.reply(from, call.CallID, wire.SystemFailure())
			return
		}

		response, err := x.toResponse(result)
		if err != nil {
			x.logger.Error(fmt.Errorf("%s failed to encode the response of call=%s: %w", x.name, call.CallID, err))
			response = wire.SystemFailure()
		}
		x.reply(from, call.CallID, response)
	}()
}

// reply sends the response of an inbound call back to its caller
func (x *ActorSystem) reply(to string, callID uuid.UUID, response wire.Response) {
	x.instruments.InboundCalls().Add(x.ctx, 1, imetric.Outcome(string(response.Kind)))

	payload, err := wire.Encode(wire.NewRemoteCallResponse(callID, response))
	if err != nil {
		x.logger.Error(fmt.Errorf("%s failed to encode the response of call=%s: %w", x.name, callID, err))
		return
	}

	if err := x.transport.Send(x.ctx, to, payload); err != nil {
		x.logger.Errorf("%s failed to reply to call=%s from peer=%s: %v", x.name, callID, to, err)
	}
}

// handleRemoteCallResponse completes the pending call. Responses arriving
// after a timeout or for unknown calls are dropped.
func (x *ActorSystem) handleRemoteCallResponse(from string, response *wire.RemoteCallResponse) {
	pending, ok := x.inflight.Pop(response.CallID)
	if !ok {
		x.logger.Warnf("%s dropped response for unknown call=%s from peer=%s", x.name, response.CallID, from)
		return
	}
	pending.Success(response.Response)
}

func (x *ActorSystem) recordOutbound(ctx context.Context, outcome string) {
	if x.instruments != nil {
		x.instruments.OutboundCalls().Add(ctx, 1, imetric.Outcome(outcome))
	}
}
