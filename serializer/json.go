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

package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSerializeFailed is returned when a value cannot be encoded
	ErrSerializeFailed = errors.New("serializer: failed to serialize value")
	// ErrDeserializeFailed is returned when bytes cannot be decoded into the target
	ErrDeserializeFailed = errors.New("serializer: failed to deserialize value")
)

// JSON is the default Serializer. It relies on the standard encoding/json
// rules, so values must expose their state through exported fields or
// implement json.Marshaler and json.Unmarshaler.
type JSON struct{}

// enforce compilation error
var _ Serializer = (*JSON)(nil)

// NewJSON returns a JSON serializer
func NewJSON() *JSON {
	return &JSON{}
}

// Name returns json
func (*JSON) Name() string {
	return "json"
}

// Serialize encodes value as JSON
func (*JSON) Serialize(value any) ([]byte, error) {
	bytea, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}
	return bytea, nil
}

// Deserialize decodes the JSON data into target
func (*JSON) Deserialize(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}
	return nil
}
