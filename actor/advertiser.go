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
	"slices"
	"strings"
	"time"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
	imetric "github.com/tochemey/meshakt/internal/metric"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/internal/wire"
)

// startAdvertising adds a ready local actor to the advertised set
func (x *ActorSystem) startAdvertising(id address.ActorID, tag []byte) error {
	entry, ok := x.actors.lookup(id)
	if !ok || !entry.ready() {
		return errors.NewErrActorNotFound(id.String())
	}
	x.advertised.Set(entry.id, tag)
	return nil
}

func (x *ActorSystem) stopAdvertising(id address.ActorID) {
	if entry, ok := x.actors.lookup(id); ok {
		id = entry.id
	}
	x.advertised.Delete(id)
}

// advertisement builds the records of the advertised actors, sorted by id
func (x *ActorSystem) advertisement() []wire.ActorRecord {
	var records []wire.ActorRecord
	x.advertised.Range(func(id address.ActorID, tag []byte) {
		instance, ok := x.actors.readyActor(id)
		if !ok {
			return
		}
		records = append(records, wire.ActorRecord{
			Type: types.NameOf(instance),
			ID:   id,
			Tag:  tag,
		})
	})

	slices.SortFunc(records, func(a, b wire.ActorRecord) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return records
}

// advertisementLoop broadcasts the advertised actors on every tick
func (x *ActorSystem) advertisementLoop(stop chan struct{}) {
	defer x.loops.Done()
	for {
		select {
		case <-x.ticker.Ticks:
			x.broadcastAdvertisement(x.ctx)
			x.evictPeers(time.Now())
		case <-stop:
			return
		}
	}
}

// broadcastAdvertisement sends the advertised actors to every connected peer
func (x *ActorSystem) broadcastAdvertisement(ctx context.Context) {
	peers := x.transport.ConnectedPeers()
	if len(peers) == 0 {
		return
	}

	records := x.advertisement()
	if len(records) == 0 {
		return
	}

	payload, err := wire.Encode(wire.NewActorsAvailable(records))
	if err != nil {
		x.logger.Errorf("%s failed to encode the actors advertisement: %v", x.name, err)
		return
	}

	if err := x.transport.Broadcast(ctx, peers, payload); err != nil {
		x.logger.Errorf("%s failed to advertise %d actors: %v", x.name, len(records), err)
		x.instruments.Advertisements().Add(ctx, 1, imetric.Outcome(outcomeFailure))
		return
	}

	x.logger.Debugf("%s advertised %d actors to %d peers", x.name, len(records), len(peers))
	x.instruments.Advertisements().Add(ctx, 1, imetric.Outcome(outcomeSuccess))
}

// advertiseTo sends the advertised actors to a peer that just connected
func (x *ActorSystem) advertiseTo(ctx context.Context, peer string) {
	records := x.advertisement()
	if len(records) == 0 {
		return
	}

	payload, err := wire.Encode(wire.NewActorsAvailable(records))
	if err != nil {
		x.logger.Errorf("%s failed to encode the actors advertisement: %v", x.name, err)
		return
	}

	if err := x.transport.Send(ctx, peer, payload); err != nil {
		x.logger.Errorf("%s failed to advertise actors to peer=%s: %v", x.name, peer, err)
	}
}

// evictPeers drops the directory entries of peers disconnected for too long
func (x *ActorSystem) evictPeers(now time.Time) {
	if x.peerEvictionTimeout <= 0 {
		return
	}
	for _, peer := range x.directory.evict(now.Add(-x.peerEvictionTimeout)) {
		x.logger.Infof("%s evicted the actors of peer=%s", x.name, peer)
	}
}
