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
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/errors"
)

// managedActor is an entry of the local registry.
// A nil instance means the id is reserved and the actor not ready yet.
type managedActor struct {
	id       address.ActorID
	instance any
}

func (x *managedActor) ready() bool {
	return x.instance != nil
}

// actorsRegistry holds the actors hosted by this peer, keyed by uuid
type actorsRegistry struct {
	mu     sync.RWMutex
	actors map[uuid.UUID]*managedActor
}

func newActorsRegistry() *actorsRegistry {
	return &actorsRegistry{
		actors: make(map[uuid.UUID]*managedActor),
	}
}

// reserve records a freshly assigned id
func (x *actorsRegistry) reserve(id address.ActorID) {
	x.mu.Lock()
	x.actors[id.UUID] = &managedActor{id: id}
	x.mu.Unlock()
}

// ready attaches the instance to a reserved id. It panics when the id is
// not reserved since the actor lifecycle only moves forward.
func (x *actorsRegistry) ready(id address.ActorID, instance any) {
	if instance == nil {
		panic(fmt.Sprintf("actor %s cannot be made ready with a nil instance", id))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.lookupLocked(id)
	switch {
	case !ok:
		panic(fmt.Sprintf("actor %s is not reserved", id))
	case entry.ready():
		panic(fmt.Sprintf("actor %s is already ready", id))
	}
	entry.instance = instance
}

// resign removes the id. It panics when the id was never assigned.
func (x *actorsRegistry) resign(id address.ActorID) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.lookupLocked(id)
	if !ok {
		panic(fmt.Sprintf("actor %s is not assigned", id))
	}
	delete(x.actors, entry.id.UUID)
}

// lookup returns the entry of a locally assigned id, reserved or ready
func (x *actorsRegistry) lookup(id address.ActorID) (managedActor, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	entry, ok := x.lookupLocked(id)
	if !ok {
		return managedActor{}, false
	}
	return *entry, true
}

// readyActor returns the instance of a ready actor
func (x *actorsRegistry) readyActor(id address.ActorID) (any, bool) {
	entry, ok := x.lookup(id)
	if !ok || !entry.ready() {
		return nil, false
	}
	return entry.instance, true
}

// resolve returns the ready instance hosted locally. found is false when the
// id is not assigned here. Resolving a reserved id panics.
func (x *actorsRegistry) resolve(id address.ActorID, expected reflect.Type) (instance any, found bool, err error) {
	entry, ok := x.lookup(id)
	if !ok {
		return nil, false, nil
	}

	if !entry.ready() {
		panic(fmt.Sprintf("actor %s is reserved but not ready yet", id))
	}

	if expected != nil && !reflect.TypeOf(entry.instance).AssignableTo(expected) {
		return nil, true, errors.ErrWrongTypeResolution
	}
	return entry.instance, true, nil
}

func (x *actorsRegistry) len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.actors)
}

// lookupLocked matches the uuid and, unless the id is bare, the peer
func (x *actorsRegistry) lookupLocked(id address.ActorID) (*managedActor, bool) {
	entry, ok := x.actors[id.UUID]
	if !ok || (!id.IsBare() && entry.id.Peer != id.Peer) {
		return nil, false
	}
	return entry, true
}
