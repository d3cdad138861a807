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
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorID(t *testing.T) {
	t.Run("With new id", func(t *testing.T) {
		id := New("alpha")
		require.False(t, id.IsZero())
		require.False(t, id.IsBare())
		assert.Equal(t, "alpha", id.Peer)
		assert.NotEqual(t, uuid.Nil, id.UUID)
		assert.Equal(t, id.UUID.String()+"@alpha", id.String())
	})
	t.Run("With unique ids", func(t *testing.T) {
		seen := make(map[ActorID]struct{})
		for range 100 {
			id := New("alpha")
			_, ok := seen[id]
			require.False(t, ok)
			seen[id] = struct{}{}
		}
	})
	t.Run("With equality", func(t *testing.T) {
		id := New("alpha")
		clone := ActorID{UUID: id.UUID, Peer: "alpha"}
		other := ActorID{UUID: id.UUID, Peer: "beta"}
		assert.True(t, id.Equals(clone))
		assert.False(t, id.Equals(other))
	})
	t.Run("With bare id", func(t *testing.T) {
		id := NewBare()
		require.True(t, id.IsBare())
		assert.Equal(t, id.UUID.String(), id.String())
	})
	t.Run("With zero id", func(t *testing.T) {
		var id ActorID
		assert.True(t, id.IsZero())
	})
	t.Run("With parse", func(t *testing.T) {
		id := New("alpha")
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)

		bare := NewBare()
		parsed, err = Parse(bare.String())
		require.NoError(t, err)
		assert.Equal(t, bare, parsed)

		_, err = Parse("not-a-uuid@alpha")
		require.Error(t, err)
	})
	t.Run("With JSON form", func(t *testing.T) {
		id := New("alpha")
		bytea, err := json.Marshal(id)
		require.NoError(t, err)
		assert.JSONEq(t, `{"uuid":"`+id.UUID.String()+`","peer":"alpha"}`, string(bytea))
	})
}
