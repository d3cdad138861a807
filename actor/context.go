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
	"reflect"

	"github.com/google/uuid"
)

type invocationKey struct{}

// invocation describes the call being executed by an actor method
type invocation struct {
	callID   uuid.UUID
	caller   string
	local    bool
	generics []reflect.Type
}

func withInvocation(ctx context.Context, inv *invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

func invocationFrom(ctx context.Context) (*invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(*invocation)
	return inv, ok && inv != nil
}

// CallerPeer returns the name of the peer that issued the call being
// executed. It is the local peer for in-process calls.
func CallerPeer(ctx context.Context) (string, bool) {
	inv, ok := invocationFrom(ctx)
	if !ok {
		return "", false
	}
	return inv.caller, true
}

// CallID returns the correlation id of the remote call being executed.
// In-process calls have no correlation id.
func CallID(ctx context.Context) (uuid.UUID, bool) {
	inv, ok := invocationFrom(ctx)
	if !ok || inv.local {
		return uuid.Nil, false
	}
	return inv.callID, true
}

// GenericSubstitutions returns the type arguments recorded by the caller
func GenericSubstitutions(ctx context.Context) []reflect.Type {
	inv, ok := invocationFrom(ctx)
	if !ok {
		return nil
	}
	return inv.generics
}
