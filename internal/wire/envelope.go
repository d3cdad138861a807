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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	gerrors "github.com/tochemey/meshakt/errors"
)

const (
	// DataTag marks the envelopes of this runtime on a shared channel
	DataTag = "meshakt"

	tagKey = "__data_tag__"
)

// envelope is the tagged object written on the wire
type envelope struct {
	Tag   string          `json:"__data_tag__"`
	Value json.RawMessage `json:"value"`
}

// Encode wraps the message into a tagged envelope
func Encode(message *Message) ([]byte, error) {
	if message == nil || message.variants() != 1 {
		return nil, gerrors.NewErrInvalidEnvelope(errors.New("message must carry exactly one variant"))
	}

	value, err := json.Marshal(message)
	if err != nil {
		return nil, gerrors.NewErrInvalidEnvelope(err)
	}

	return json.Marshal(envelope{Tag: DataTag, Value: value})
}

// Decode unwraps a tagged envelope. ok is false when the payload does not
// belong to this runtime: not a JSON object, tag missing, or another tag.
// Such payloads are left to other consumers and produce no error.
// A payload carrying our tag that fails to decode returns ErrInvalidEnvelope.
func Decode(payload []byte) (message *Message, ok bool, err error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false, nil
	}

	rawTag, found := fields[tagKey]
	if !found {
		return nil, false, nil
	}

	var tag string
	if err := json.Unmarshal(rawTag, &tag); err != nil || tag != DataTag {
		return nil, false, nil
	}

	rawValue, found := fields["value"]
	if !found {
		return nil, true, gerrors.NewErrInvalidEnvelope(errors.New("missing value"))
	}

	message = new(Message)
	if err := json.Unmarshal(rawValue, message); err != nil {
		return nil, true, gerrors.NewErrInvalidEnvelope(err)
	}

	if message.variants() != 1 {
		return nil, true, gerrors.NewErrInvalidEnvelope(fmt.Errorf("expected one message variant, got %d", message.variants()))
	}

	if message.RemoteCallResponse != nil {
		if err := message.RemoteCallResponse.Response.Validate(); err != nil {
			return nil, true, gerrors.NewErrInvalidEnvelope(err)
		}
	}

	return message, true, nil
}
