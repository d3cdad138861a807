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

package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/internal/wire"
	"github.com/tochemey/meshakt/transport/local"
)

func TestDirectory(t *testing.T) {
	t.Run("With first advertisement", func(t *testing.T) {
		dir := newDirectory()
		first := wire.ActorRecord{Type: "counter", ID: address.New("beta")}
		second := wire.ActorRecord{Type: "counter", ID: address.New("beta")}

		added := dir.replace("beta", []wire.ActorRecord{first, second, first})
		assert.Equal(t, []wire.ActorRecord{first, second}, added)
		assert.Equal(t, 2, dir.len())
		assert.True(t, dir.knows("beta"))
		assert.False(t, dir.knows("gamma"))
	})
	t.Run("With replaced snapshot", func(t *testing.T) {
		dir := newDirectory()
		first := wire.ActorRecord{Type: "counter", ID: address.New("beta")}
		second := wire.ActorRecord{Type: "counter", ID: address.New("beta")}
		third := wire.ActorRecord{Type: "counter", ID: address.New("beta")}

		dir.replace("beta", []wire.ActorRecord{first, second})
		added := dir.replace("beta", []wire.ActorRecord{second, third})
		assert.Equal(t, []wire.ActorRecord{third}, added)
		assert.Equal(t, []wire.ActorRecord{second, third}, dir.records())

		_, ok := dir.ownerOf(first.ID.UUID)
		assert.False(t, ok)

		// an empty advertisement keeps the peer known
		assert.Empty(t, dir.replace("beta", nil))
		assert.True(t, dir.knows("beta"))
		assert.Zero(t, dir.len())
	})
	t.Run("With records grouped by peer", func(t *testing.T) {
		dir := newDirectory()
		gamma := wire.ActorRecord{Type: "counter", ID: address.New("gamma")}
		beta := wire.ActorRecord{Type: "counter", ID: address.New("beta")}

		dir.replace("gamma", []wire.ActorRecord{gamma})
		dir.replace("beta", []wire.ActorRecord{beta})
		assert.Equal(t, []wire.ActorRecord{beta, gamma}, dir.records())

		owner, ok := dir.ownerOf(gamma.ID.UUID)
		require.True(t, ok)
		assert.Equal(t, "gamma", owner)
	})
	t.Run("With eviction", func(t *testing.T) {
		dir := newDirectory()
		now := time.Now()
		dir.replace("beta", []wire.ActorRecord{{Type: "counter", ID: address.New("beta")}})
		dir.replace("gamma", []wire.ActorRecord{{Type: "counter", ID: address.New("gamma")}})

		assert.Empty(t, dir.evict(now))

		dir.markDisconnected("beta", now.Add(-time.Minute))
		dir.markDisconnected("gamma", now)
		assert.Equal(t, []string{"beta"}, dir.evict(now.Add(-time.Second)))
		assert.False(t, dir.knows("beta"))
		assert.True(t, dir.knows("gamma"))

		dir.markConnected("gamma")
		assert.Empty(t, dir.evict(now.Add(time.Hour)))

		dir.reset()
		assert.Zero(t, dir.len())
		assert.False(t, dir.knows("gamma"))
	})
	t.Run("With advertisement received after the disconnection", func(t *testing.T) {
		dir := newDirectory()
		now := time.Now()
		record := wire.ActorRecord{Type: "counter", ID: address.New("beta")}
		dir.replace("beta", []wire.ActorRecord{record})
		dir.markDisconnected("beta", now.Add(-time.Hour))

		// a late advertisement does not bring the peer back online
		assert.Empty(t, dir.replace("beta", []wire.ActorRecord{record}))
		assert.Equal(t, []string{"beta"}, dir.evict(now))
		assert.False(t, dir.knows("beta"))

		dir.replace("beta", []wire.ActorRecord{record})
		dir.markDisconnected("beta", now.Add(-time.Hour))
		dir.markConnected("beta")
		dir.replace("beta", []wire.ActorRecord{record})
		assert.Empty(t, dir.evict(now))
		assert.True(t, dir.knows("beta"))
	})
	t.Run("With unknown peer events", func(t *testing.T) {
		dir := newDirectory()
		dir.markConnected("beta")
		dir.markDisconnected("beta", time.Now())
		assert.False(t, dir.knows("beta"))
	})
}

func TestEviction(t *testing.T) {
	network := local.NewNetwork()
	alpha := newTestSystem(t, network, "alpha", WithPeerEvictionTimeout(100*time.Millisecond))
	beta := newTestSystem(t, network, "beta")
	startSystems(t, alpha, beta)

	id, _ := Spawn(beta, newCounter)
	require.NoError(t, beta.Receptionist().StartAdvertising(id, nil))
	discover(t, alpha, new(Counter), id)

	network.Partition("alpha", "beta")
	require.Eventually(t, func() bool {
		_, err := alpha.Resolve(id, nil)
		return err != nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Zero(t, alpha.directory.len())
}
