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

package local

import (
	"context"
	"errors"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
)

// ErrPeerNameTaken is returned when a running peer already uses the name
var ErrPeerNameTaken = errors.New("peer name is already taken on the network")

const defaultEventsBuffer = 256

// delivery is one message waiting in a peer inbox
type delivery struct {
	from    string
	payload []byte
}

// Transport is the in-process implementation of transport.Transport.
// Every peer owns a single inbox drained by one goroutine, so messages are
// handled in the order they were sent.
type Transport struct {
	network  *Network
	name     string
	handlers *transport.Handlers
	logger   log.Logger

	lifecycle    sync.Mutex
	started      *atomic.Bool
	inbox        *queue.Queue
	drained      chan struct{}
	eventsBuffer int

	eventsMu sync.Mutex
	events   chan *transport.Event
	closed   bool
}

// enforce compilation error
var _ transport.Transport = (*Transport)(nil)

func newTransport(network *Network, name string, opts ...Option) *Transport {
	x := &Transport{
		network:      network,
		name:         name,
		handlers:     transport.NewHandlers(),
		logger:       log.DefaultLogger,
		started:      atomic.NewBool(false),
		eventsBuffer: defaultEventsBuffer,
	}

	for _, opt := range opts {
		opt.Apply(x)
	}

	x.events = make(chan *transport.Event, x.eventsBuffer)
	return x
}

// Start joins the in-process network
func (x *Transport) Start(context.Context) error {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()

	if x.started.Load() {
		return nil
	}

	x.inbox = queue.New(64)
	x.drained = make(chan struct{})

	x.eventsMu.Lock()
	if x.closed {
		x.events = make(chan *transport.Event, x.eventsBuffer)
		x.closed = false
	}
	x.eventsMu.Unlock()

	x.started.Store(true)

	if err := x.network.join(x); err != nil {
		x.started.Store(false)
		x.inbox.Dispose()
		close(x.drained)
		return err
	}

	go x.deliveryLoop(x.inbox, x.drained)
	x.logger.Infof("local transport %s started", x.name)
	return nil
}

// Stop leaves the network. Pending inbox messages are dropped.
func (x *Transport) Stop(context.Context) error {
	x.lifecycle.Lock()
	defer x.lifecycle.Unlock()

	if !x.started.Load() {
		return nil
	}

	x.network.leave(x)
	x.started.Store(false)
	x.inbox.Dispose()
	<-x.drained

	x.eventsMu.Lock()
	close(x.events)
	x.closed = true
	x.eventsMu.Unlock()

	x.logger.Infof("local transport %s stopped", x.name)
	return nil
}

// LocalPeer returns the name of this peer
func (x *Transport) LocalPeer() string {
	return x.name
}

// Send delivers the payload to the given peer
func (x *Transport) Send(_ context.Context, to string, payload []byte) error {
	if !x.started.Load() {
		return gerrors.ErrTransportNotStarted
	}

	target, ok := x.network.route(x.name, to)
	if !ok {
		return gerrors.NewErrPeerNotConnected(to)
	}

	copied := make([]byte, len(payload))
	copy(copied, payload)
	if err := target.inbox.Put(&delivery{from: x.name, payload: copied}); err != nil {
		return gerrors.NewErrPeerNotConnected(to)
	}
	return nil
}

// Broadcast delivers the payload to every given peer
func (x *Transport) Broadcast(ctx context.Context, to []string, payload []byte) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, peer := range to {
		eg.Go(func() error {
			return x.Send(ctx, peer, payload)
		})
	}
	return eg.Wait()
}

// IsConnected returns true when the peer is reachable
func (x *Transport) IsConnected(peer string) bool {
	if !x.started.Load() {
		return false
	}
	_, ok := x.network.route(x.name, peer)
	return ok
}

// ConnectedPeers returns the reachable peers
func (x *Transport) ConnectedPeers() []string {
	if !x.started.Load() {
		return nil
	}
	return x.network.connectedPeers(x.name)
}

// AddHandler registers a delivery callback
func (x *Transport) AddHandler(handler transport.Handler) {
	x.handlers.Add(handler)
}

// Events returns the connectivity events channel. A restarted transport
// publishes on a new channel.
func (x *Transport) Events() <-chan *transport.Event {
	x.eventsMu.Lock()
	defer x.eventsMu.Unlock()
	return x.events
}

// emit publishes an event without blocking the network
func (x *Transport) emit(event *transport.Event) {
	x.eventsMu.Lock()
	defer x.eventsMu.Unlock()
	if !x.started.Load() {
		return
	}
	select {
	case x.events <- event:
	default:
		x.logger.Warnf("local transport %s dropped (%s) event for peer=%s", x.name, event.Type, event.Peer)
	}
}

func (x *Transport) deliveryLoop(inbox *queue.Queue, drained chan struct{}) {
	defer close(drained)
	for {
		items, err := inbox.Get(1)
		if err != nil {
			return
		}
		for _, item := range items {
			message := item.(*delivery)
			if !x.handlers.Dispatch(message.from, message.payload) {
				x.logger.Debugf("local transport %s: no handler consumed message from %s", x.name, message.from)
			}
		}
	}
}
