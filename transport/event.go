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

package transport

import "time"

// EventType defines the connectivity event type
type EventType int

const (
	// PeerConnected is emitted when a session with a peer is established
	PeerConnected EventType = iota
	// PeerDisconnected is emitted when a session with a peer is lost
	PeerDisconnected
)

// String returns the string representation of the event type
func (x EventType) String() string {
	switch x {
	case PeerConnected:
		return "PeerConnected"
	case PeerDisconnected:
		return "PeerDisconnected"
	default:
		return "Unknown"
	}
}

// Event is a connectivity change notification
type Event struct {
	Peer string
	Type EventType
	Time time.Time
}

// NewEvent creates an Event stamped with the current time
func NewEvent(peer string, eventType EventType) *Event {
	return &Event{
		Peer: peer,
		Type: eventType,
		Time: time.Now().UTC(),
	}
}
