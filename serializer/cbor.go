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
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8RejectInvalid,
	}
)

// CBOR is a compact binary Serializer based on the Concise Binary Object
// Representation. It honors `cbor` struct tags and falls back to `json` tags.
//
// CBOR is stateless and safe for concurrent use.
type CBOR struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

// enforce compilation error
var _ Serializer = (*CBOR)(nil)

// NewCBOR returns a CBOR serializer
func NewCBOR() *CBOR {
	encMode, _ := cborEncOpts.EncMode()
	decMode, _ := cborDecOpts.DecMode()
	return &CBOR{encMode: encMode, decMode: decMode}
}

// Name returns cbor
func (*CBOR) Name() string {
	return "cbor"
}

// Serialize encodes value as CBOR
func (x *CBOR) Serialize(value any) ([]byte, error) {
	bytea, err := x.encMode.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}
	return bytea, nil
}

// Deserialize decodes the CBOR data into target
func (x *CBOR) Deserialize(data []byte, target any) error {
	if err := x.decMode.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}
	return nil
}
