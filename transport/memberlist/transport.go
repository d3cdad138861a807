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

package memberlist

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/flowchartsman/retry"
	"github.com/hashicorp/memberlist"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/errorschain"
	"github.com/tochemey/meshakt/internal/xsync"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
)

const defaultEventsBuffer = 256

// Transport implements transport.Transport on top of a memberlist gossip
// cluster. Membership drives connectivity: a peer is connected while
// memberlist reports it alive. Messages travel as memberlist reliable user
// messages, one TCP stream each.
//
// Delivery order between two peers is best effort: two messages sent back to
// back travel on distinct streams and may be handed to the receiver out of
// order. A receiver can then briefly hold a stale actor advertisement until
// the next one arrives.
type Transport struct {
	config       *Config
	logger       log.Logger
	handlers     *transport.Handlers
	eventsBuffer int

	mu         sync.Mutex
	started    *atomic.Bool
	memberlist *memberlist.Memberlist
	inbox      *queue.Queue
	stopCh     chan struct{}
	wg         sync.WaitGroup

	// sendLocks serializes the sends towards the same peer
	locksMu   sync.Mutex
	sendLocks *xsync.Map[string, *sync.Mutex]

	eventsMu sync.Mutex
	events   chan *transport.Event
	closed   bool
}

// enforce compilation error
var _ transport.Transport = (*Transport)(nil)

// NewTransport creates an instance of Transport
func NewTransport(config *Config, opts ...Option) (*Transport, error) {
	if config == nil {
		return nil, fmt.Errorf("memberlist transport config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	x := &Transport{
		config:       config,
		logger:       log.DefaultLogger,
		handlers:     transport.NewHandlers(),
		eventsBuffer: defaultEventsBuffer,
		started:      atomic.NewBool(false),
		sendLocks:    xsync.NewMap[string, *sync.Mutex](),
	}

	for _, opt := range opts {
		opt.Apply(x)
	}

	x.events = make(chan *transport.Event, x.eventsBuffer)
	return x, nil
}

// Start creates the memberlist and joins the seeds
func (x *Transport) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return nil
	}

	x.eventsMu.Lock()
	if x.closed {
		x.events = make(chan *transport.Event, x.eventsBuffer)
		x.closed = false
	}
	x.eventsMu.Unlock()

	inbox := queue.New(64)
	eventsCh := make(chan memberlist.NodeEvent, x.eventsBuffer)

	mconfig := memberlist.DefaultLANConfig()
	mconfig.Name = x.config.Name
	mconfig.BindAddr = x.config.BindAddr
	mconfig.BindPort = x.config.BindPort
	mconfig.AdvertisePort = x.config.BindPort
	mconfig.Delegate = newDelegate(inbox)
	mconfig.Events = &memberlist.ChannelEventDelegate{Ch: eventsCh}
	mconfig.LogOutput = newLogWriter(x.logger)

	mlist, err := memberlist.Create(mconfig)
	if err != nil {
		inbox.Dispose()
		x.logger.Error(fmt.Errorf("failed to create memberlist: %w", err))
		return err
	}

	if len(x.config.Seeds) > 0 {
		retrier := retry.NewRetrier(x.config.MaxJoinAttempts, x.config.JoinRetryInterval, x.config.JoinRetryInterval)
		if err := retrier.RunContext(ctx, func(context.Context) error {
			_, err := mlist.Join(x.config.Seeds)
			return err
		}); err != nil {
			x.logger.Error(fmt.Errorf("%s failed to join seeds [%s]: %w", x.config.Name, strings.Join(x.config.Seeds, ","), err))
			inbox.Dispose()
			_ = mlist.Shutdown()
			return err
		}
	}

	x.memberlist = mlist
	x.inbox = inbox
	x.stopCh = make(chan struct{})
	x.started.Store(true)

	x.wg.Add(2)
	go x.eventsListener(eventsCh, x.stopCh)
	go x.deliveryLoop(inbox)

	x.logger.Infof("memberlist transport %s started on %s:%d", x.config.Name, x.config.BindAddr, x.config.BindPort)
	return nil
}

// Stop leaves the cluster and releases resources. Pending inbound
// messages are dropped.
func (x *Transport) Stop(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil
	}

	x.started.Store(false)

	err := errorschain.
		New(errorschain.ReturnFirst()).
		AddStepError("leave", x.memberlist.Leave(x.config.LeaveTimeout)).
		AddStepError("shutdown", x.memberlist.Shutdown()).
		Error()

	close(x.stopCh)
	x.inbox.Dispose()
	x.wg.Wait()

	x.eventsMu.Lock()
	close(x.events)
	x.closed = true
	x.eventsMu.Unlock()

	if err != nil {
		x.logger.Error(fmt.Errorf("memberlist transport %s failed to stop: %w", x.config.Name, err))
		return err
	}

	x.logger.Infof("memberlist transport %s stopped", x.config.Name)
	return nil
}

// LocalPeer returns the name of this peer
func (x *Transport) LocalPeer() string {
	return x.config.Name
}

// Send delivers the payload to the given peer
func (x *Transport) Send(_ context.Context, to string, payload []byte) error {
	if !x.started.Load() {
		return gerrors.ErrTransportNotStarted
	}

	node := x.member(to)
	if node == nil {
		return gerrors.NewErrPeerNotConnected(to)
	}

	frame, err := encodeFrame(x.config.Name, payload)
	if err != nil {
		return err
	}

	lock := x.sendLock(to)
	lock.Lock()
	defer lock.Unlock()
	return x.memberlist.SendReliable(node, frame)
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

// IsConnected returns true when memberlist reports the peer alive
func (x *Transport) IsConnected(peer string) bool {
	return x.member(peer) != nil
}

// ConnectedPeers returns the alive peers, sorted by name
func (x *Transport) ConnectedPeers() []string {
	if !x.started.Load() {
		return nil
	}

	var peers []string
	for _, node := range x.memberlist.Members() {
		if node.Name == x.config.Name || node.State != memberlist.StateAlive {
			continue
		}
		peers = append(peers, node.Name)
	}
	slices.Sort(peers)
	return peers
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

// member returns the alive remote node with the given name
func (x *Transport) member(peer string) *memberlist.Node {
	if !x.started.Load() || peer == x.config.Name {
		return nil
	}
	for _, node := range x.memberlist.Members() {
		if node.Name == peer && node.State == memberlist.StateAlive {
			return node
		}
	}
	return nil
}

func (x *Transport) sendLock(peer string) *sync.Mutex {
	x.locksMu.Lock()
	defer x.locksMu.Unlock()
	lock, ok := x.sendLocks.Get(peer)
	if !ok {
		lock = &sync.Mutex{}
		x.sendLocks.Set(peer, lock)
	}
	return lock
}

// eventsListener maps memberlist membership changes to peer events
func (x *Transport) eventsListener(eventsCh chan memberlist.NodeEvent, stopCh chan struct{}) {
	defer x.wg.Done()
	for {
		select {
		case event := <-eventsCh:
			if event.Node == nil || event.Node.Name == x.config.Name {
				continue
			}

			var eventType transport.EventType
			switch event.Event {
			case memberlist.NodeJoin:
				eventType = transport.PeerConnected
			case memberlist.NodeLeave:
				eventType = transport.PeerDisconnected
				x.sendLocks.Delete(event.Node.Name)
			default:
				continue
			}

			x.logger.Debugf("%s received (%s) for peer=%s", x.config.Name, eventType, event.Node.Name)
			x.emit(transport.NewEvent(event.Node.Name, eventType))
		case <-stopCh:
			return
		}
	}
}

func (x *Transport) emit(event *transport.Event) {
	x.eventsMu.Lock()
	defer x.eventsMu.Unlock()
	if x.closed {
		return
	}
	select {
	case x.events <- event:
	default:
		x.logger.Warnf("memberlist transport %s dropped (%s) event for peer=%s", x.config.Name, event.Type, event.Peer)
	}
}

func (x *Transport) deliveryLoop(inbox *queue.Queue) {
	defer x.wg.Done()
	for {
		items, err := inbox.Get(1)
		if err != nil {
			return
		}
		for _, item := range items {
			from, payload, err := decodeFrame(item.([]byte))
			if err != nil {
				x.logger.Warnf("memberlist transport %s dropped message: %v", x.config.Name, err)
				continue
			}
			if !x.handlers.Dispatch(from, payload) {
				x.logger.Debugf("memberlist transport %s: no handler consumed message from %s", x.config.Name, from)
			}
		}
	}
}
