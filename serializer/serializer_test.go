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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Owner   string `json:"owner"`
	Balance int64  `json:"balance"`
}

func TestSerializers(t *testing.T) {
	serializers := []Serializer{NewJSON(), NewCBOR()}
	for _, serializer := range serializers {
		t.Run("With "+serializer.Name()+" struct value", func(t *testing.T) {
			bytea, err := serializer.Serialize(&account{Owner: "alice", Balance: 42})
			require.NoError(t, err)

			var actual account
			require.NoError(t, serializer.Deserialize(bytea, &actual))
			assert.Equal(t, account{Owner: "alice", Balance: 42}, actual)
		})
		t.Run("With "+serializer.Name()+" scalar value", func(t *testing.T) {
			bytea, err := serializer.Serialize("hello")
			require.NoError(t, err)

			var actual string
			require.NoError(t, serializer.Deserialize(bytea, &actual))
			assert.Equal(t, "hello", actual)
		})
		t.Run("With "+serializer.Name()+" type mismatch", func(t *testing.T) {
			bytea, err := serializer.Serialize("hello")
			require.NoError(t, err)

			var actual int
			err = serializer.Deserialize(bytea, &actual)
			require.ErrorIs(t, err, ErrDeserializeFailed)
		})
		t.Run("With "+serializer.Name()+" unsupported value", func(t *testing.T) {
			_, err := serializer.Serialize(make(chan int))
			require.ErrorIs(t, err, ErrSerializeFailed)
		})
	}
}
