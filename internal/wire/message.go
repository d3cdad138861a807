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

package wire

import (
	"github.com/google/uuid"

	"github.com/tochemey/meshakt/address"
)

// ActorRecord is the advertised unit of a hosted actor
type ActorRecord struct {
	// Type is the fully qualified type name of the actor
	Type string `json:"type"`
	// ID is the actor identity
	ID address.ActorID `json:"id"`
	// Tag is an application defined annotation. It is not required to be unique.
	Tag []byte `json:"tag"`
}

// RemoteCallContainer is the marshaled form of one invocation
type RemoteCallContainer struct {
	MethodIdentifier     string   `json:"methodIdentifier"`
	Arguments            [][]byte `json:"arguments"`
	GenericSubstitutions []string `json:"genericSubstitutions"`
	ReturnType           *string  `json:"returnType,omitempty"`
	Throws               bool     `json:"throwing"`
}

// ActorsAvailable is a full-replacement snapshot of the actors advertised by one peer
type ActorsAvailable struct {
	Actors []ActorRecord `json:"actors"`
}

// PerformRemoteCall asks the receiving peer to execute an invocation
type PerformRemoteCall struct {
	CallID        uuid.UUID           `json:"callID"`
	TargetActorID address.ActorID     `json:"targetActorID"`
	Container     RemoteCallContainer `json:"container"`
}

// RemoteCallResponse carries the outcome of a PerformRemoteCall
type RemoteCallResponse struct {
	CallID   uuid.UUID `json:"callID"`
	Response Response  `json:"response"`
}

// Message is the payload of the wire envelope. Exactly one field is set.
type Message struct {
	ActorsAvailable    *ActorsAvailable    `json:"actorsAvailable,omitempty"`
	PerformRemoteCall  *PerformRemoteCall  `json:"performRemoteCall,omitempty"`
	RemoteCallResponse *RemoteCallResponse `json:"remoteCallResponse,omitempty"`
}

// NewActorsAvailable creates an actorsAvailable message
func NewActorsAvailable(actors []ActorRecord) *Message {
	if actors == nil {
		actors = []ActorRecord{}
	}
	return &Message{ActorsAvailable: &ActorsAvailable{Actors: actors}}
}

// NewPerformRemoteCall creates a performRemoteCall message
func NewPerformRemoteCall(callID uuid.UUID, target address.ActorID, container RemoteCallContainer) *Message {
	return &Message{PerformRemoteCall: &PerformRemoteCall{
		CallID:        callID,
		TargetActorID: target,
		Container:     container,
	}}
}

// NewRemoteCallResponse creates a remoteCallResponse message
func NewRemoteCallResponse(callID uuid.UUID, response Response) *Message {
	return &Message{RemoteCallResponse: &RemoteCallResponse{
		CallID:   callID,
		Response: response,
	}}
}

// variants returns the number of variants set on the message
func (m *Message) variants() int {
	count := 0
	if m.ActorsAvailable != nil {
		count++
	}
	if m.PerformRemoteCall != nil {
		count++
	}
	if m.RemoteCallResponse != nil {
		count++
	}
	return count
}
