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
	"iter"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/internal/wire"
)

// Listing is a remote actor discovered through the advertisements
type Listing struct {
	// ID is the actor identity
	ID address.ActorID
	// Type is the wire name of the actor type
	Type string
	// Tag is the opaque value the owner advertised the actor with
	Tag []byte
}

// Receptionist advertises local actors and lets the application discover
// the actors of a given type hosted by the other peers.
type Receptionist struct {
	system *ActorSystem

	// mu orders the directory updates with the subscriptions so that a
	// subscriber never misses nor duplicates a listing
	mu            sync.Mutex
	subscriptions map[uuid.UUID]*Subscription
}

func newReceptionist(system *ActorSystem) *Receptionist {
	return &Receptionist{
		system:        system,
		subscriptions: make(map[uuid.UUID]*Subscription),
	}
}

// StartAdvertising announces the local actor to the other peers from the
// next advertisement on. The actor must be ready on this peer.
func (x *Receptionist) StartAdvertising(id address.ActorID, tag []byte) error {
	return x.system.startAdvertising(id, tag)
}

// StopAdvertising removes the actor from the next advertisements
func (x *Receptionist) StopAdvertising(id address.ActorID) {
	x.system.stopAdvertising(id)
}

// Subscribe returns the listings of the remote actors of the given type.
// The actors already known are listed first, then every actor advertised
// for the first time by its peer. The actor type is registered in the
// types registry.
func (x *Receptionist) Subscribe(actorType any) *Subscription {
	x.system.typesRegistry.Register(actorType)
	subscription := &Subscription{
		id:           uuid.New(),
		actorType:    types.NameOf(actorType),
		listings:     queue.New(16),
		receptionist: x,
		canceled:     atomic.NewBool(false),
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	for _, record := range x.system.directory.records() {
		subscription.offer(record)
	}
	x.subscriptions[subscription.id] = subscription
	return subscription
}

// onActorsAvailable replaces the snapshot of the peer and lists the actors
// seen for the first time
func (x *Receptionist) onActorsAvailable(peer string, records []wire.ActorRecord) {
	x.mu.Lock()
	defer x.mu.Unlock()

	added := x.system.directory.replace(peer, records)
	for _, record := range added {
		if _, ok := x.system.typesRegistry.TypeOf(record.Type); !ok {
			x.system.logger.Debugf("%s skipped actor=%s of unknown type=%s advertised by peer=%s",
				x.system.name, record.ID, record.Type, peer)
			continue
		}

		for _, subscription := range x.subscriptions {
			subscription.offer(record)
		}
	}
}

func (x *Receptionist) remove(id uuid.UUID) {
	x.mu.Lock()
	delete(x.subscriptions, id)
	x.mu.Unlock()
}

// close cancels every subscription
func (x *Receptionist) close() {
	x.mu.Lock()
	subscriptions := x.subscriptions
	x.subscriptions = make(map[uuid.UUID]*Subscription)
	x.mu.Unlock()

	for _, subscription := range subscriptions {
		subscription.dispose()
	}
}

// Subscription is an unbounded stream of listings
type Subscription struct {
	id           uuid.UUID
	actorType    string
	listings     *queue.Queue
	receptionist *Receptionist
	canceled     *atomic.Bool
}

// ID returns the subscription identifier
func (x *Subscription) ID() string {
	return x.id.String()
}

// ActorType returns the wire name of the listed actor type
func (x *Subscription) ActorType() string {
	return x.actorType
}

// Next blocks until the next listing is available. It returns
// ErrSubscriptionClosed once the subscription is canceled.
func (x *Subscription) Next() (Listing, error) {
	items, err := x.listings.Get(1)
	if err != nil {
		return Listing{}, errors.ErrSubscriptionClosed
	}
	return items[0].(Listing), nil
}

// Listings iterates over the listings until the subscription is canceled
func (x *Subscription) Listings() iter.Seq[Listing] {
	return func(yield func(Listing) bool) {
		for {
			listing, err := x.Next()
			if err != nil || !yield(listing) {
				return
			}
		}
	}
}

// Cancel stops the subscription. Pending listings are dropped.
func (x *Subscription) Cancel() {
	x.receptionist.remove(x.id)
	x.dispose()
}

func (x *Subscription) dispose() {
	if x.canceled.CompareAndSwap(false, true) {
		x.listings.Dispose()
	}
}

// offer queues the record when it matches the subscribed type
func (x *Subscription) offer(record wire.ActorRecord) {
	if record.Type != x.actorType || x.canceled.Load() {
		return
	}
	_ = x.listings.Put(Listing{ID: record.ID, Type: record.Type, Tag: record.Tag})
}
