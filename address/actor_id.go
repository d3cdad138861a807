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

package address

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ActorID identifies an actor across the whole peer network.
// UUID makes the identity unique while Peer names the hosting peer and is
// used for routing. An ActorID is a comparable value and is never mutated
// once assigned.
//
// An empty Peer denotes a bare identifier: calls are then routed to the peer
// whose advertisement contains the UUID.
type ActorID struct {
	UUID uuid.UUID `json:"uuid" cbor:"1,keyasint"`
	Peer string    `json:"peer" cbor:"2,keyasint"`
}

// New creates a fresh ActorID hosted by the given peer
func New(peer string) ActorID {
	return ActorID{
		UUID: uuid.New(),
		Peer: peer,
	}
}

// NewBare creates a fresh ActorID without a peer label
func NewBare() ActorID {
	return ActorID{UUID: uuid.New()}
}

// Parse parses the string form produced by String
func Parse(s string) (ActorID, error) {
	raw, peer, _ := strings.Cut(s, "@")
	id, err := uuid.Parse(raw)
	if err != nil {
		return ActorID{}, fmt.Errorf("invalid actor id %q: %w", s, err)
	}
	return ActorID{UUID: id, Peer: peer}, nil
}

// String returns the uuid@peer form of the id
func (x ActorID) String() string {
	if x.Peer == "" {
		return x.UUID.String()
	}
	return x.UUID.String() + "@" + x.Peer
}

// Equals is a convenient method to compare two ids
func (x ActorID) Equals(other ActorID) bool {
	return x == other
}

// IsZero returns true when the id has never been assigned
func (x ActorID) IsZero() bool {
	return x.UUID == uuid.Nil && x.Peer == ""
}

// IsBare returns true when the id carries no peer label
func (x ActorID) IsBare() bool {
	return x.Peer == ""
}
