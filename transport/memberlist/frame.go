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

package memberlist

import (
	"encoding/binary"
	"errors"
	"math"
)

var errMalformedFrame = errors.New("malformed frame")

// encodeFrame prefixes the payload with the sender name since memberlist
// does not tell the receiver who sent a user message.
//
//	[uint16 name length][name][payload]
func encodeFrame(from string, payload []byte) ([]byte, error) {
	if len(from) > math.MaxUint16 {
		return nil, errMalformedFrame
	}
	frame := make([]byte, 2+len(from)+len(payload))
	binary.BigEndian.PutUint16(frame, uint16(len(from)))
	copy(frame[2:], from)
	copy(frame[2+len(from):], payload)
	return frame, nil
}

func decodeFrame(frame []byte) (from string, payload []byte, err error) {
	if len(frame) < 2 {
		return "", nil, errMalformedFrame
	}
	size := int(binary.BigEndian.Uint16(frame))
	if len(frame) < 2+size {
		return "", nil, errMalformedFrame
	}
	return string(frame[2 : 2+size]), frame[2+size:], nil
}
