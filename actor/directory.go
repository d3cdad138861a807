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
	"slices"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/internal/wire"
)

// peerSnapshot is the latest advertisement received from a peer
type peerSnapshot struct {
	records        []wire.ActorRecord
	ids            mapset.Set[address.ActorID]
	connected      bool
	disconnectedAt time.Time
}

// directory is the view of the actors hosted by the other peers.
// Each advertisement replaces the whole snapshot of its sender.
type directory struct {
	mu    sync.RWMutex
	peers map[string]*peerSnapshot
}

func newDirectory() *directory {
	return &directory{
		peers: make(map[string]*peerSnapshot),
	}
}

// replace stores the advertised records of the peer and returns the records
// that were not part of its previous snapshot, in advertisement order.
// A known peer keeps its connectivity state: only the transport events
// and eviction change it.
func (x *directory) replace(peer string, records []wire.ActorRecord) []wire.ActorRecord {
	ids := mapset.NewThreadUnsafeSetWithSize[address.ActorID](len(records))
	unique := make([]wire.ActorRecord, 0, len(records))
	for _, record := range records {
		if ids.Add(record.ID) {
			unique = append(unique, record)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	next := &peerSnapshot{
		records:   unique,
		ids:       ids,
		connected: true,
	}

	previous := mapset.NewThreadUnsafeSet[address.ActorID]()
	if snapshot, ok := x.peers[peer]; ok {
		previous = snapshot.ids
		next.connected = snapshot.connected
		next.disconnectedAt = snapshot.disconnectedAt
	}

	x.peers[peer] = next

	added := ids.Difference(previous)
	seen := make([]wire.ActorRecord, 0, added.Cardinality())
	for _, record := range unique {
		if added.Contains(record.ID) {
			seen = append(seen, record)
		}
	}
	return seen
}

// knows returns true when the peer advertised at least once and was not evicted
func (x *directory) knows(peer string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.peers[peer]
	return ok
}

// ownerOf returns the peer whose snapshot holds the given uuid
func (x *directory) ownerOf(id uuid.UUID) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for peer, snapshot := range x.peers {
		for _, record := range snapshot.records {
			if record.ID.UUID == id {
				return peer, true
			}
		}
	}
	return "", false
}

// markConnected flags a known peer as reachable again
func (x *directory) markConnected(peer string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if snapshot, ok := x.peers[peer]; ok {
		snapshot.connected = true
		snapshot.disconnectedAt = time.Time{}
	}
}

// markDisconnected keeps the snapshot of the peer and records when it was lost
func (x *directory) markDisconnected(peer string, at time.Time) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if snapshot, ok := x.peers[peer]; ok && snapshot.connected {
		snapshot.connected = false
		snapshot.disconnectedAt = at
	}
}

// evict drops the peers disconnected before the given deadline
func (x *directory) evict(deadline time.Time) []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	var evicted []string
	for peer, snapshot := range x.peers {
		if !snapshot.connected && snapshot.disconnectedAt.Before(deadline) {
			delete(x.peers, peer)
			evicted = append(evicted, peer)
		}
	}
	slices.Sort(evicted)
	return evicted
}

// records returns every known remote record, grouped by peer name
func (x *directory) records() []wire.ActorRecord {
	x.mu.RLock()
	defer x.mu.RUnlock()

	peers := make([]string, 0, len(x.peers))
	for peer := range x.peers {
		peers = append(peers, peer)
	}
	slices.Sort(peers)

	var out []wire.ActorRecord
	for _, peer := range peers {
		out = append(out, x.peers[peer].records...)
	}
	return out
}

// len returns the number of known remote actors
func (x *directory) len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	total := 0
	for _, snapshot := range x.peers {
		total += len(snapshot.records)
	}
	return total
}

func (x *directory) reset() {
	x.mu.Lock()
	clear(x.peers)
	x.mu.Unlock()
}
