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
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/errorschain"
	"github.com/tochemey/meshakt/internal/future"
	imetric "github.com/tochemey/meshakt/internal/metric"
	"github.com/tochemey/meshakt/internal/ticker"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/internal/validation"
	"github.com/tochemey/meshakt/internal/wire"
	"github.com/tochemey/meshakt/internal/xsync"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/serializer"
	"github.com/tochemey/meshakt/transport"
)

const (
	// DefaultAdvertiseInterval is the default period of the actors advertisement
	DefaultAdvertiseInterval = 5 * time.Second
	// DefaultAdvertiseTolerance is the default random delay added to each advertisement period
	DefaultAdvertiseTolerance = time.Second
)

var systemNamePattern = regexp.MustCompile("^[a-zA-Z0-9][a-zA-Z0-9-_]*$")

// ActorSystem hosts actors on a peer and lets them call and be called by the
// actors of the other peers reachable through the transport.
//
// The system keeps four pieces of shared state, each behind its own lock:
// the local actors registry, the advertised set, the directory of remote
// actors and the table of calls waiting for their response. No lock is held
// while sending over the transport.
type ActorSystem struct {
	name      string
	transport transport.Transport
	logger    log.Logger

	serializer          serializer.Serializer
	typesRegistry       types.Registry
	advertiseInterval   time.Duration
	advertiseTolerance  time.Duration
	callTimeout         time.Duration
	peerEvictionTimeout time.Duration
	meterProvider       metric.MeterProvider
	peerEventsHandler   func(*transport.Event)

	actors       *actorsRegistry
	directory    *directory
	advertised   *xsync.Map[address.ActorID, []byte]
	inflight     *xsync.Map[uuid.UUID, *future.Future[wire.Response]]
	receptionist *Receptionist

	mu           sync.Mutex
	started      *atomic.Bool
	handlerOnce  sync.Once
	ctx          context.Context
	cancel       context.CancelFunc
	ticker       *ticker.Ticker
	stopSignal   chan struct{}
	loops        sync.WaitGroup
	instruments  *imetric.RuntimeMetric
	registration metric.Registration
}

// NewActorSystem creates an actor system named after the application that
// exchanges messages through the given transport.
func NewActorSystem(name string, tr transport.Transport, opts ...Option) (*ActorSystem, error) {
	system := &ActorSystem{
		name:               name,
		transport:          tr,
		logger:             log.DefaultLogger,
		serializer:         serializer.NewJSON(),
		typesRegistry:      types.GlobalRegistry,
		advertiseInterval:  DefaultAdvertiseInterval,
		advertiseTolerance: DefaultAdvertiseTolerance,
		actors:             newActorsRegistry(),
		directory:          newDirectory(),
		advertised:         xsync.NewMap[address.ActorID, []byte](),
		inflight:           xsync.NewMap[uuid.UUID, *future.Future[wire.Response]](),
		started:            atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddValidator(validation.NewPatternValidator(systemNamePattern, name, errors.ErrInvalidActorSystemName)).
		AddAssertion(tr != nil, "transport is required").
		AddAssertion(system.logger != nil, "logger is required").
		AddAssertion(system.serializer != nil, "serializer is required").
		AddValidator(validation.NewPositiveDurationValidator("advertiseInterval", system.advertiseInterval)).
		AddValidator(validation.NewNonNegativeDurationValidator("advertiseTolerance", system.advertiseTolerance)).
		AddValidator(validation.NewNonNegativeDurationValidator("callTimeout", system.callTimeout)).
		AddValidator(validation.NewNonNegativeDurationValidator("peerEvictionTimeout", system.peerEvictionTimeout)).
		Validate(); err != nil {
		return nil, err
	}

	system.receptionist = newReceptionist(system)
	return system, nil
}

// Name returns the actor system name
func (x *ActorSystem) Name() string {
	return x.name
}

// LocalPeer returns the name of the peer hosting this actor system
func (x *ActorSystem) LocalPeer() string {
	return x.transport.LocalPeer()
}

// Logger returns the actor system logger
func (x *ActorSystem) Logger() log.Logger {
	return x.logger
}

// Running returns true when the actor system is started
func (x *ActorSystem) Running() bool {
	return x.started.Load()
}

// Receptionist returns the actor discovery service of the system
func (x *ActorSystem) Receptionist() *Receptionist {
	return x.receptionist
}

// ConnectedPeers returns the peers currently reachable
func (x *ActorSystem) ConnectedPeers() []string {
	return x.transport.ConnectedPeers()
}

// RegisterTypes registers the actor, argument and error types whose names
// are received from the network.
func (x *ActorSystem) RegisterTypes(values ...any) {
	x.typesRegistry.Register(values...)
}

// Start starts the transport, the peer events listener and the advertisement loop
func (x *ActorSystem) Start(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.started.Load() {
		return errors.ErrActorSystemAlreadyStarted
	}

	x.logger.Infof("%s actor system starting on peer=%s...", x.name, x.transport.LocalPeer())

	x.handlerOnce.Do(func() {
		x.transport.AddHandler(x.handle)
	})

	if err := x.setupMetrics(); err != nil {
		x.logger.Error(fmt.Errorf("%s actor system failed to start: %w", x.name, err))
		return err
	}

	// messages can arrive as soon as the transport is up
	x.ctx, x.cancel = context.WithCancel(context.Background())
	x.started.Store(true)

	if err := x.transport.Start(ctx); err != nil {
		x.started.Store(false)
		x.cancel()
		err = errorschain.
			New(errorschain.ReturnAll()).
			AddStepError("transport", err).
			AddErrorFn(x.unregisterMetrics).
			Error()
		x.logger.Error(fmt.Errorf("%s actor system failed to start: %w", x.name, err))
		return err
	}

	x.stopSignal = make(chan struct{})
	x.ticker = ticker.New(x.advertiseInterval, x.advertiseTolerance)

	x.loops.Add(2)
	go x.peerEventsLoop(x.transport.Events())
	go x.advertisementLoop(x.stopSignal)
	x.ticker.Start()

	x.logger.Infof("%s actor system successfully started", x.name)
	return nil
}

// Stop stops the advertisement loop and the transport. Calls waiting for
// their response fail with ErrNotConnected and subscriptions are canceled.
func (x *ActorSystem) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}

	x.logger.Infof("%s actor system stopping...", x.name)
	x.started.Store(false)

	x.ticker.Stop()
	close(x.stopSignal)
	x.cancel()

	for _, pending := range x.inflight.Reset() {
		pending.Failure(errors.ErrNotConnected)
	}

	err := errorschain.
		New(errorschain.ReturnAll()).
		AddStepError("transport", x.transport.Stop(ctx)).
		AddErrorFn(x.unregisterMetrics).
		Error()

	x.loops.Wait()
	x.receptionist.close()
	x.directory.reset()

	if err != nil {
		x.logger.Error(fmt.Errorf("%s actor system failed to stop: %w", x.name, err))
		return err
	}

	x.logger.Infof("%s actor system successfully stopped", x.name)
	return nil
}

// AssignID allocates the identity of a new actor hosted by this peer.
// The id stays reserved until ActorReady is called with the actor instance.
func (x *ActorSystem) AssignID() address.ActorID {
	id := address.New(x.transport.LocalPeer())
	x.actors.reserve(id)
	x.logger.Debugf("%s assigned actor id=%s", x.name, id)
	return id
}

// ActorReady makes the reserved actor callable. It panics when the id is
// not reserved or the instance is nil.
func (x *ActorSystem) ActorReady(id address.ActorID, instance any) {
	x.actors.ready(id, instance)
	x.typesRegistry.Register(instance)
	x.logger.Debugf("%s actor id=%s of type=%s is ready", x.name, id, types.NameOf(instance))
}

// ResignID releases the actor identity and stops advertising it.
// It panics when the id was never assigned.
func (x *ActorSystem) ResignID(id address.ActorID) {
	x.actors.resign(id)
	x.advertised.Delete(id)
	x.logger.Debugf("%s resigned actor id=%s", x.name, id)
}

// Resolve returns the local actor instance with the given id.
//
// It returns nil without error when the id belongs to a peer known by the
// directory, the actor then being reachable through remote calls.
// Resolving an id that is reserved but not ready panics.
func (x *ActorSystem) Resolve(id address.ActorID, expected reflect.Type) (any, error) {
	instance, found, err := x.actors.resolve(id, expected)
	if found {
		return instance, err
	}

	if _, ok := x.ownerOf(id); ok {
		return nil, nil
	}
	return nil, errors.ErrUnknownRemoteActor
}

// ownerOf returns the remote peer hosting the id according to the directory
func (x *ActorSystem) ownerOf(id address.ActorID) (string, bool) {
	if id.IsBare() {
		return x.directory.ownerOf(id.UUID)
	}
	if id.Peer == x.transport.LocalPeer() {
		return "", false
	}
	return id.Peer, x.directory.knows(id.Peer)
}

// handle is the transport handler of the actor system. It consumes every
// payload tagged for the runtime and leaves the others to the next handlers.
func (x *ActorSystem) handle(from string, payload []byte) bool {
	message, ok, err := wire.Decode(payload)
	if !ok {
		return false
	}

	if err != nil {
		x.logger.Warnf("%s dropped an invalid message from peer=%s: %v", x.name, from, err)
		return true
	}

	if !x.started.Load() {
		x.logger.Debugf("%s is not running, dropped message from peer=%s", x.name, from)
		return true
	}

	switch {
	case message.ActorsAvailable != nil:
		x.receptionist.onActorsAvailable(from, message.ActorsAvailable.Actors)
	case message.PerformRemoteCall != nil:
		x.handleRemoteCall(from, message.PerformRemoteCall)
	case message.RemoteCallResponse != nil:
		x.handleRemoteCallResponse(from, message.RemoteCallResponse)
	}
	return true
}

// peerEventsLoop keeps the directory in line with the transport connectivity
func (x *ActorSystem) peerEventsLoop(events <-chan *transport.Event) {
	defer x.loops.Done()
	for event := range events {
		switch event.Type {
		case transport.PeerConnected:
			x.logger.Infof("%s connected to peer=%s", x.name, event.Peer)
			x.directory.markConnected(event.Peer)
			x.advertiseTo(x.ctx, event.Peer)
		case transport.PeerDisconnected:
			x.logger.Infof("%s disconnected from peer=%s", x.name, event.Peer)
			x.directory.markDisconnected(event.Peer, event.Time)
		}

		if x.peerEventsHandler != nil {
			x.peerEventsHandler(event)
		}
	}
}

func (x *ActorSystem) setupMetrics() error {
	meter := imetric.NewProvider(x.meterProvider).Meter()
	instruments, err := imetric.NewRuntimeMetric(meter)
	if err != nil {
		return err
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(instruments.DirectoryActors(), int64(x.directory.len()))
		observer.ObserveInt64(instruments.RegistryActors(), int64(x.actors.len()))
		return nil
	}, instruments.DirectoryActors(), instruments.RegistryActors())
	if err != nil {
		return err
	}

	x.instruments = instruments
	x.registration = registration
	return nil
}

func (x *ActorSystem) unregisterMetrics() error {
	if x.registration == nil {
		return nil
	}
	err := x.registration.Unregister()
	x.registration = nil
	return err
}
