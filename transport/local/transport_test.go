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

package local

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) handler(from string, payload []byte) bool {
	r.mu.Lock()
	r.messages = append(r.messages, from+":"+string(payload))
	r.mu.Unlock()
	return true
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

func nextEvent(t *testing.T, events <-chan *transport.Event) *transport.Event {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestTransport(t *testing.T) {
	t.Run("With connectivity events", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))

		require.NoError(t, alpha.Start(ctx))
		require.NoError(t, beta.Start(ctx))

		event := nextEvent(t, alpha.Events())
		assert.Equal(t, "beta", event.Peer)
		assert.Equal(t, transport.PeerConnected, event.Type)

		event = nextEvent(t, beta.Events())
		assert.Equal(t, "alpha", event.Peer)
		assert.Equal(t, transport.PeerConnected, event.Type)

		assert.True(t, alpha.IsConnected("beta"))
		assert.False(t, alpha.IsConnected("alpha"))
		assert.Equal(t, []string{"beta"}, alpha.ConnectedPeers())
		assert.Equal(t, []string{"alpha", "beta"}, network.Peers())

		require.NoError(t, beta.Stop(ctx))
		event = nextEvent(t, alpha.Events())
		assert.Equal(t, "beta", event.Peer)
		assert.Equal(t, transport.PeerDisconnected, event.Type)
		assert.False(t, alpha.IsConnected("beta"))
		assert.Empty(t, beta.ConnectedPeers())

		require.NoError(t, alpha.Stop(ctx))
		_, open := <-alpha.Events()
		assert.False(t, open)
	})
	t.Run("With ordered delivery", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))

		rec := new(recorder)
		beta.AddHandler(rec.handler)

		require.NoError(t, alpha.Start(ctx))
		require.NoError(t, beta.Start(ctx))

		expected := make([]string, 0, 100)
		for i := range 100 {
			payload := fmt.Sprintf("m%d", i)
			expected = append(expected, "alpha:"+payload)
			require.NoError(t, alpha.Send(ctx, "beta", []byte(payload)))
		}

		require.Eventually(t, func() bool {
			return len(rec.received()) == 100
		}, time.Second, 10*time.Millisecond)
		assert.Equal(t, expected, rec.received())

		require.NoError(t, alpha.Stop(ctx))
		require.NoError(t, beta.Stop(ctx))
	})
	t.Run("With broadcast", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))
		gamma := network.NewTransport("gamma", WithLogger(log.DiscardLogger))

		betaRec, gammaRec := new(recorder), new(recorder)
		beta.AddHandler(betaRec.handler)
		gamma.AddHandler(gammaRec.handler)

		for _, tr := range []*Transport{alpha, beta, gamma} {
			require.NoError(t, tr.Start(ctx))
		}

		require.NoError(t, alpha.Broadcast(ctx, alpha.ConnectedPeers(), []byte("hello")))
		require.Eventually(t, func() bool {
			return len(betaRec.received()) == 1 && len(gammaRec.received()) == 1
		}, time.Second, 10*time.Millisecond)

		err := alpha.Broadcast(ctx, []string{"beta", "delta"}, []byte("hello"))
		require.ErrorIs(t, err, gerrors.ErrPeerNotConnected)

		for _, tr := range []*Transport{alpha, beta, gamma} {
			require.NoError(t, tr.Stop(ctx))
		}
	})
	t.Run("With partition and heal", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))
		require.NoError(t, alpha.Start(ctx))
		require.NoError(t, beta.Start(ctx))
		nextEvent(t, alpha.Events())
		nextEvent(t, beta.Events())

		network.Partition("alpha", "beta")
		network.Partition("alpha", "beta")
		event := nextEvent(t, alpha.Events())
		assert.Equal(t, transport.PeerDisconnected, event.Type)
		event = nextEvent(t, beta.Events())
		assert.Equal(t, transport.PeerDisconnected, event.Type)

		err := alpha.Send(ctx, "beta", []byte("lost"))
		require.ErrorIs(t, err, gerrors.ErrPeerNotConnected)
		assert.False(t, alpha.IsConnected("beta"))

		network.Heal("alpha", "beta")
		network.Heal("alpha", "beta")
		event = nextEvent(t, alpha.Events())
		assert.Equal(t, transport.PeerConnected, event.Type)
		assert.True(t, alpha.IsConnected("beta"))

		require.NoError(t, alpha.Stop(ctx))
		require.NoError(t, beta.Stop(ctx))
	})
	t.Run("With unhandled messages", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))
		beta.AddHandler(func(string, []byte) bool { return false })

		rec := new(recorder)
		beta.AddHandler(rec.handler)

		require.NoError(t, alpha.Start(ctx))
		require.NoError(t, beta.Start(ctx))
		require.NoError(t, alpha.Send(ctx, "beta", []byte("pass-through")))
		require.Eventually(t, func() bool {
			return len(rec.received()) == 1
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, alpha.Stop(ctx))
		require.NoError(t, beta.Stop(ctx))
	})
	t.Run("With transport not started", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		err := alpha.Send(ctx, "beta", []byte("hello"))
		require.ErrorIs(t, err, gerrors.ErrTransportNotStarted)
		assert.Nil(t, alpha.ConnectedPeers())
		assert.False(t, alpha.IsConnected("beta"))
		require.NoError(t, alpha.Stop(ctx))
	})
	t.Run("With duplicate peer name", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		first := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		second := network.NewTransport("alpha", WithLogger(log.DiscardLogger), WithEventsBuffer(8))
		require.NoError(t, first.Start(ctx))
		require.ErrorIs(t, second.Start(ctx), ErrPeerNameTaken)
		require.NoError(t, first.Stop(ctx))
	})
	t.Run("With restart", func(t *testing.T) {
		ctx := context.TODO()
		network := NewNetwork()
		alpha := network.NewTransport("alpha", WithLogger(log.DiscardLogger))
		beta := network.NewTransport("beta", WithLogger(log.DiscardLogger))
		require.NoError(t, beta.Start(ctx))
		require.NoError(t, alpha.Start(ctx))
		require.NoError(t, alpha.Stop(ctx))
		require.NoError(t, alpha.Start(ctx))

		event := nextEvent(t, alpha.Events())
		assert.Equal(t, "beta", event.Peer)
		assert.Equal(t, transport.PeerConnected, event.Type)

		require.NoError(t, alpha.Stop(ctx))
		require.NoError(t, beta.Stop(ctx))
	})
}
