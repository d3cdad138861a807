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
	"sort"
	"sync"

	"github.com/tochemey/meshakt/transport"
)

type link struct {
	a, b string
}

func newLink(a, b string) link {
	if a > b {
		a, b = b, a
	}
	return link{a: a, b: b}
}

// Network is an in-process peer network. Every transport created from the
// same Network can reach the others once started, unless their link has
// been cut with Partition.
type Network struct {
	mu          sync.RWMutex
	members     map[string]*Transport
	partitioned map[link]struct{}
}

// NewNetwork creates an empty in-process network
func NewNetwork() *Network {
	return &Network{
		members:     make(map[string]*Transport),
		partitioned: make(map[link]struct{}),
	}
}

// NewTransport creates a transport for the named peer on this network
func (n *Network) NewTransport(name string, opts ...Option) *Transport {
	return newTransport(n, name, opts...)
}

// Partition cuts the link between two peers. Both sides observe a
// PeerDisconnected event when they are running.
func (n *Network) Partition(a, b string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := newLink(a, b)
	if _, ok := n.partitioned[key]; ok {
		return
	}
	wasLinked := n.linkedLocked(a, b)
	n.partitioned[key] = struct{}{}
	if wasLinked {
		n.members[a].emit(transport.NewEvent(b, transport.PeerDisconnected))
		n.members[b].emit(transport.NewEvent(a, transport.PeerDisconnected))
	}
}

// Heal restores the link between two peers
func (n *Network) Heal(a, b string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	key := newLink(a, b)
	if _, ok := n.partitioned[key]; !ok {
		return
	}
	delete(n.partitioned, key)
	if n.linkedLocked(a, b) {
		n.members[a].emit(transport.NewEvent(b, transport.PeerConnected))
		n.members[b].emit(transport.NewEvent(a, transport.PeerConnected))
	}
}

// Peers returns the running peers of the network
func (n *Network) Peers() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	peers := make([]string, 0, len(n.members))
	for name := range n.members {
		peers = append(peers, name)
	}
	sort.Strings(peers)
	return peers
}

func (n *Network) join(member *Transport) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.members[member.name]; ok {
		return ErrPeerNameTaken
	}
	n.members[member.name] = member
	for name, other := range n.members {
		if name == member.name || !n.linkedLocked(name, member.name) {
			continue
		}
		other.emit(transport.NewEvent(member.name, transport.PeerConnected))
		member.emit(transport.NewEvent(name, transport.PeerConnected))
	}
	return nil
}

func (n *Network) leave(member *Transport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.members[member.name] != member {
		return
	}
	for name, other := range n.members {
		if name == member.name || !n.linkedLocked(name, member.name) {
			continue
		}
		other.emit(transport.NewEvent(member.name, transport.PeerDisconnected))
	}
	delete(n.members, member.name)
}

func (n *Network) route(from, to string) (*Transport, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.linkedLocked(from, to) {
		return nil, false
	}
	return n.members[to], true
}

func (n *Network) connectedPeers(from string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	peers := make([]string, 0, len(n.members))
	for name := range n.members {
		if name != from && n.linkedLocked(from, name) {
			peers = append(peers, name)
		}
	}
	sort.Strings(peers)
	return peers
}

// linkedLocked must be called with the lock held
func (n *Network) linkedLocked(a, b string) bool {
	if a == b {
		return false
	}
	if _, ok := n.members[a]; !ok {
		return false
	}
	if _, ok := n.members[b]; !ok {
		return false
	}
	_, cut := n.partitioned[newLink(a, b)]
	return !cut
}
