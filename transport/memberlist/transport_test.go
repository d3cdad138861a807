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
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	gerrors "github.com/tochemey/meshakt/errors"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
)

type inbox struct {
	mu       sync.Mutex
	messages []string
}

func (x *inbox) handler(from string, payload []byte) bool {
	x.mu.Lock()
	x.messages = append(x.messages, from+":"+string(payload))
	x.mu.Unlock()
	return true
}

func (x *inbox) received() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]string, len(x.messages))
	copy(out, x.messages)
	return out
}

func newTestTransport(t *testing.T, name string, seeds ...string) (*Transport, string) {
	t.Helper()
	port := dynaport.Get(1)[0]
	config := NewConfig(name, "127.0.0.1", port, seeds...)
	config.JoinRetryInterval = 100 * time.Millisecond
	config.LeaveTimeout = time.Second

	x, err := NewTransport(config, WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	return x, net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

func awaitEvent(t *testing.T, events <-chan *transport.Event, eventType transport.EventType) *transport.Event {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == eventType {
				return event
			}
		case <-timeout:
			t.Fatalf("no %s event received", eventType)
			return nil
		}
	}
}

func TestConfig(t *testing.T) {
	t.Run("With valid config", func(t *testing.T) {
		config := NewConfig("alpha", "127.0.0.1", 7946)
		assert.NoError(t, config.Validate())
	})
	t.Run("With missing name", func(t *testing.T) {
		config := NewConfig("", "127.0.0.1", 7946)
		assert.EqualError(t, config.Validate(), "the [Name] is required")
	})
	t.Run("With invalid port", func(t *testing.T) {
		config := NewConfig("alpha", "127.0.0.1", 0)
		assert.EqualError(t, config.Validate(), "BindPort is invalid")
	})
	t.Run("With invalid retry interval", func(t *testing.T) {
		config := NewConfig("alpha", "127.0.0.1", 7946)
		config.JoinRetryInterval = 0
		assert.Error(t, config.Validate())
	})
	t.Run("With nil config", func(t *testing.T) {
		x, err := NewTransport(nil)
		assert.Error(t, err)
		assert.Nil(t, x)
	})
}

func TestFrame(t *testing.T) {
	t.Run("With valid frame", func(t *testing.T) {
		frame, err := encodeFrame("alpha", []byte("hello"))
		require.NoError(t, err)
		from, payload, err := decodeFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, "alpha", from)
		assert.Equal(t, []byte("hello"), payload)
	})
	t.Run("With truncated frame", func(t *testing.T) {
		_, _, err := decodeFrame([]byte{0})
		assert.ErrorIs(t, err, errMalformedFrame)
		_, _, err = decodeFrame([]byte{0, 10, 'a'})
		assert.ErrorIs(t, err, errMalformedFrame)
	})
}

func TestLogWriter(t *testing.T) {
	writer := newLogWriter(log.DiscardLogger)
	message := []byte("2024/01/01 00:00:00 [DEBUG] memberlist: Stream connection from=127.0.0.1:1234\n")
	n, err := writer.Write(message)
	require.NoError(t, err)
	assert.Equal(t, len(message), n)
}

func TestTransport(t *testing.T) {
	t.Run("With two peers", func(t *testing.T) {
		ctx := context.TODO()

		alpha, alphaAddr := newTestTransport(t, "alpha")
		require.NoError(t, alpha.Start(ctx))

		beta, _ := newTestTransport(t, "beta", alphaAddr)
		received := new(inbox)
		beta.AddHandler(received.handler)
		require.NoError(t, beta.Start(ctx))

		event := awaitEvent(t, alpha.Events(), transport.PeerConnected)
		assert.Equal(t, "beta", event.Peer)

		require.Eventually(t, func() bool {
			return alpha.IsConnected("beta") && beta.IsConnected("alpha")
		}, 5*time.Second, 50*time.Millisecond)
		assert.Equal(t, []string{"beta"}, alpha.ConnectedPeers())
		assert.False(t, alpha.IsConnected("alpha"))

		for i := range 5 {
			require.NoError(t, alpha.Send(ctx, "beta", fmt.Appendf(nil, "message-%d", i)))
		}
		require.NoError(t, alpha.Broadcast(ctx, []string{"beta"}, []byte("broadcast")))

		require.Eventually(t, func() bool {
			return len(received.received()) == 6
		}, 5*time.Second, 50*time.Millisecond)
		assert.Contains(t, received.received(), "alpha:broadcast")

		err := alpha.Send(ctx, "gamma", []byte("nope"))
		assert.ErrorIs(t, err, gerrors.ErrPeerNotConnected)

		require.NoError(t, beta.Stop(ctx))
		event = awaitEvent(t, alpha.Events(), transport.PeerDisconnected)
		assert.Equal(t, "beta", event.Peer)

		require.NoError(t, alpha.Stop(ctx))
		_, ok := <-alpha.Events()
		for ok {
			_, ok = <-alpha.Events()
		}
	})
	t.Run("With transport not started", func(t *testing.T) {
		alpha, _ := newTestTransport(t, "alpha")
		err := alpha.Send(context.TODO(), "beta", []byte("hello"))
		assert.ErrorIs(t, err, gerrors.ErrTransportNotStarted)
		assert.Empty(t, alpha.ConnectedPeers())
		assert.False(t, alpha.IsConnected("beta"))
		assert.NoError(t, alpha.Stop(context.TODO()))
	})
	t.Run("With unreachable seeds", func(t *testing.T) {
		unused := dynaport.Get(1)[0]
		alpha, _ := newTestTransport(t, "alpha", net.JoinHostPort("127.0.0.1", strconv.Itoa(unused)))
		alpha.config.MaxJoinAttempts = 2
		err := alpha.Start(context.TODO())
		assert.Error(t, err)
		assert.False(t, alpha.started.Load())
	})
}
