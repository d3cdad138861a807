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
	"context"
)

// Handler receives one message delivered by a Transport. It returns true
// when it consumed the payload; otherwise the payload is offered to the
// next registered handler.
type Handler func(from string, payload []byte) bool

// Transport delivers opaque byte messages between named peers.
//
// Implementations must deliver the messages sent by one peer to another in
// the order they were sent, and must invoke the handlers once per received
// message. Send and Broadcast never block on the receiver's handlers.
type Transport interface {
	// Start joins the peer network
	Start(ctx context.Context) error
	// Stop leaves the peer network and releases resources
	Stop(ctx context.Context) error
	// LocalPeer returns the name of this peer
	LocalPeer() string
	// Send delivers the payload to the given peer
	Send(ctx context.Context, to string, payload []byte) error
	// Broadcast delivers the payload to every given peer
	Broadcast(ctx context.Context, to []string, payload []byte) error
	// IsConnected returns true when a session with the peer exists
	IsConnected(peer string) bool
	// ConnectedPeers returns the peers with an active session
	ConnectedPeers() []string
	// AddHandler registers a delivery callback. Handlers are invoked in
	// registration order until one consumes the message.
	AddHandler(handler Handler)
	// Events returns the channel where connectivity changes are published.
	// The channel is closed when the transport stops.
	Events() <-chan *Event
}
