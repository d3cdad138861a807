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

package nats

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/ticker"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
)

const (
	defaultEventsBuffer = 256

	fromHeader     = "Meshakt-From"
	presenceHeader = "Meshakt-Presence"

	presenceJoin  = "join"
	presenceAlive = "alive"
	presenceLeave = "leave"
)

// Transport implements transport.Transport over a NATS server.
//
// Every peer subscribes to its own direct subject and to the namespace
// presence subject. Peers announce themselves on the presence subject at
// start, then periodically. A peer is connected from its first
// announcement until it leaves or stays silent longer than PeerTimeout.
type Transport struct {
	config       *Config
	logger       log.Logger
	handlers     *transport.Handlers
	eventsBuffer int

	mu            sync.Mutex
	started       *atomic.Bool
	connection    *nats.Conn
	subscriptions []*nats.Subscription
	heartbeat     *ticker.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup

	peersMu   sync.Mutex
	connected mapset.Set[string]
	lastSeen  map[string]time.Time

	eventsMu sync.Mutex
	events   chan *transport.Event
	closed   bool
}

// enforce compilation error
var _ transport.Transport = (*Transport)(nil)

// NewTransport creates an instance of Transport
func NewTransport(config *Config, opts ...Option) (*Transport, error) {
	if config == nil {
		return nil, fmt.Errorf("nats transport config is required")
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
		connected:    mapset.NewThreadUnsafeSet[string](),
		lastSeen:     make(map[string]time.Time),
	}

	for _, opt := range opts {
		opt.Apply(x)
	}

	x.events = make(chan *transport.Event, x.eventsBuffer)
	return x, nil
}

// Start connects to the NATS server and announces the peer
func (x *Transport) Start(context.Context) error {
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

	opts := nats.GetDefaultOptions()
	opts.Url = x.config.URL
	opts.Name = x.config.PeerName
	opts.ReconnectWait = 2 * time.Second
	opts.MaxReconnect = -1

	var connection *nats.Conn
	retrier := retry.NewRetrier(5, 100*time.Millisecond, opts.ReconnectWait)
	if err := retrier.Run(func() error {
		var err error
		connection, err = opts.Connect()
		return err
	}); err != nil {
		x.logger.Error(fmt.Errorf("%s failed to connect to %s: %w", x.config.PeerName, x.config.URL, err))
		return err
	}

	x.connection = connection
	x.stopCh = make(chan struct{})
	x.started.Store(true)

	direct, err := connection.Subscribe(x.config.peerSubject(x.config.PeerName), x.onDirectMessage)
	if err != nil {
		x.started.Store(false)
		connection.Close()
		return err
	}

	presence, err := connection.Subscribe(x.config.presenceSubject(), x.onPresence)
	if err != nil {
		x.started.Store(false)
		connection.Close()
		return err
	}

	x.subscriptions = []*nats.Subscription{direct, presence}
	if err := x.announce(presenceJoin); err != nil {
		x.started.Store(false)
		connection.Close()
		return err
	}

	x.heartbeat = ticker.New(x.config.HeartbeatInterval, 0)
	x.heartbeat.Start()
	x.wg.Add(1)
	go x.heartbeatLoop(x.stopCh)

	x.logger.Infof("nats transport %s started on %s", x.config.PeerName, x.config.URL)
	return nil
}

// Stop announces the departure and closes the connection
func (x *Transport) Stop(context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil
	}

	x.started.Store(false)
	close(x.stopCh)
	x.heartbeat.Stop()
	x.wg.Wait()

	var err error
	if !x.connection.IsClosed() {
		for _, subscription := range x.subscriptions {
			if subscription.IsValid() {
				_ = subscription.Unsubscribe()
			}
		}

		if err = x.announce(presenceLeave); err == nil {
			err = x.connection.Flush()
		}
	}
	x.connection.Close()

	x.peersMu.Lock()
	x.connected.Clear()
	clear(x.lastSeen)
	x.peersMu.Unlock()

	x.eventsMu.Lock()
	close(x.events)
	x.closed = true
	x.eventsMu.Unlock()

	if err != nil {
		x.logger.Error(fmt.Errorf("nats transport %s failed to announce its departure: %w", x.config.PeerName, err))
		return err
	}

	x.logger.Infof("nats transport %s stopped", x.config.PeerName)
	return nil
}

// LocalPeer returns the name of this peer
func (x *Transport) LocalPeer() string {
	return x.config.PeerName
}

// Send publishes the payload on the peer direct subject
func (x *Transport) Send(_ context.Context, to string, payload []byte) error {
	if !x.started.Load() {
		return gerrors.ErrTransportNotStarted
	}

	if !x.IsConnected(to) {
		return gerrors.NewErrPeerNotConnected(to)
	}

	message := nats.NewMsg(x.config.peerSubject(to))
	message.Header.Set(fromHeader, x.config.PeerName)
	message.Data = payload
	return x.connection.PublishMsg(message)
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

// IsConnected returns true when the peer announced itself recently
func (x *Transport) IsConnected(peer string) bool {
	if !x.started.Load() {
		return false
	}
	x.peersMu.Lock()
	defer x.peersMu.Unlock()
	return x.connected.Contains(peer)
}

// ConnectedPeers returns the connected peers, sorted by name
func (x *Transport) ConnectedPeers() []string {
	if !x.started.Load() {
		return nil
	}
	x.peersMu.Lock()
	peers := x.connected.ToSlice()
	x.peersMu.Unlock()
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

// onDirectMessage is invoked sequentially by the direct subscription
func (x *Transport) onDirectMessage(message *nats.Msg) {
	from := message.Header.Get(fromHeader)
	if from == "" {
		x.logger.Warnf("nats transport %s dropped a message without sender", x.config.PeerName)
		return
	}

	if !x.handlers.Dispatch(from, message.Data) {
		x.logger.Debugf("nats transport %s: no handler consumed message from %s", x.config.PeerName, from)
	}
}

func (x *Transport) onPresence(message *nats.Msg) {
	peer := message.Header.Get(fromHeader)
	if peer == "" || peer == x.config.PeerName {
		return
	}

	switch kind := message.Header.Get(presenceHeader); kind {
	case presenceLeave:
		x.peerLost(peer)
	case presenceJoin, presenceAlive:
		x.peerSeen(peer)
		if kind == presenceJoin {
			// let the newcomer know about us without waiting for the next heartbeat
			if err := x.announce(presenceAlive); err != nil {
				x.logger.Warnf("nats transport %s failed to greet peer=%s: %v", x.config.PeerName, peer, err)
			}
		}
	default:
		x.logger.Warnf("nats transport %s received an unknown presence (%s) from peer=%s", x.config.PeerName, kind, peer)
	}
}

// peerSeen records the announcement and returns true when the peer is new
func (x *Transport) peerSeen(peer string) bool {
	x.peersMu.Lock()
	defer x.peersMu.Unlock()

	x.lastSeen[peer] = time.Now()
	if !x.connected.Add(peer) {
		return false
	}

	x.logger.Debugf("nats transport %s connected to peer=%s", x.config.PeerName, peer)
	x.emit(transport.NewEvent(peer, transport.PeerConnected))
	return true
}

func (x *Transport) peerLost(peer string) {
	x.peersMu.Lock()
	defer x.peersMu.Unlock()
	x.disconnectLocked(peer)
}

func (x *Transport) disconnectLocked(peer string) {
	delete(x.lastSeen, peer)
	if !x.connected.Contains(peer) {
		return
	}
	x.connected.Remove(peer)
	x.logger.Debugf("nats transport %s disconnected from peer=%s", x.config.PeerName, peer)
	x.emit(transport.NewEvent(peer, transport.PeerDisconnected))
}

// sweep disconnects the peers that stayed silent longer than PeerTimeout
func (x *Transport) sweep(now time.Time) {
	x.peersMu.Lock()
	defer x.peersMu.Unlock()
	for peer, seen := range x.lastSeen {
		if now.Sub(seen) > x.config.PeerTimeout {
			x.disconnectLocked(peer)
		}
	}
}

func (x *Transport) announce(kind string) error {
	message := nats.NewMsg(x.config.presenceSubject())
	message.Header.Set(fromHeader, x.config.PeerName)
	message.Header.Set(presenceHeader, kind)
	return x.connection.PublishMsg(message)
}

func (x *Transport) heartbeatLoop(stopCh chan struct{}) {
	defer x.wg.Done()
	for {
		select {
		case now := <-x.heartbeat.Ticks:
			if err := x.announce(presenceAlive); err != nil {
				x.logger.Warnf("nats transport %s failed to send heartbeat: %v", x.config.PeerName, err)
			}
			x.sweep(now)
		case <-stopCh:
			return
		}
	}
}

func (x *Transport) emit(event *transport.Event) {
	x.eventsMu.Lock()
	defer x.eventsMu.Unlock()
	if x.closed || !x.started.Load() {
		return
	}
	select {
	case x.events <- event:
	default:
		x.logger.Warnf("nats transport %s dropped (%s) event for peer=%s", x.config.PeerName, event.Type, event.Peer)
	}
}
