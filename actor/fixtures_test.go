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
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/meshakt/address"
	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/transport"
	"github.com/tochemey/meshakt/transport/local"
)

// CounterError is a structured application error
type CounterError struct {
	Reason string `json:"reason"`
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("counter failure: %s", e.Reason)
}

// Counter is the actor used across the tests
type Counter struct {
	id      address.ActorID
	mu      sync.Mutex
	value   int
	release chan struct{}
}

func newCounter(id address.ActorID) *Counter {
	return &Counter{id: id, release: make(chan struct{})}
}

func (c *Counter) Increment(by int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += by
	return c.value
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Counter) Reset() {
	c.mu.Lock()
	c.value = 0
	c.mu.Unlock()
}

func (c *Counter) Divide(by int) (int, error) {
	if by == 0 {
		return 0, &CounterError{Reason: "division by zero"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value /= by
	return c.value, nil
}

func (c *Counter) Fail() error {
	return errors.New("plain failure")
}

func (c *Counter) Explode() {
	panic("boom")
}

func (c *Counter) Caller(ctx context.Context) string {
	peer, _ := CallerPeer(ctx)
	return peer
}

func (c *Counter) TypeArguments(ctx context.Context) []string {
	var names []string
	for _, t := range GenericSubstitutions(ctx) {
		names = append(names, types.Name(t))
	}
	return names
}

func (c *Counter) Wait(ctx context.Context) error {
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Counter) Callback(func()) {}

// Broken returns a nil *brokenError as a non nil error
func (c *Counter) Broken() error {
	var err *brokenError
	return err
}

func (c *Counter) Snapshot() snapshot {
	return snapshot{value: c.Value()}
}

// brokenError dereferences its receiver when formatted
type brokenError struct {
	reason string
}

func (e *brokenError) Error() string {
	return e.reason
}

// snapshot cannot be marshalled
type snapshot struct {
	value int
}

func (s snapshot) MarshalJSON() ([]byte, error) {
	panic(fmt.Sprintf("cannot marshal snapshot %d", s.value))
}

// Greeter is a second actor type
type Greeter struct{}

func (g *Greeter) Greet(name string) string {
	return "hello " + name
}

func testOptions(opts ...Option) []Option {
	return append([]Option{
		WithLogger(log.DiscardLogger),
		WithIsolatedTypes(),
		WithMeterProvider(noop.NewMeterProvider()),
		WithAdvertiseInterval(50*time.Millisecond, 10*time.Millisecond),
	}, opts...)
}

// newTestSystem creates an actor system on the in-process network
func newTestSystem(t *testing.T, network *local.Network, peer string, opts ...Option) *ActorSystem {
	t.Helper()
	tr := network.NewTransport(peer, local.WithLogger(log.DiscardLogger))
	system, err := NewActorSystem("testSystem", tr, testOptions(opts...)...)
	require.NoError(t, err)
	system.RegisterTypes(new(CounterError))
	return system
}

// startSystems starts every system and stops them at the end of the test
func startSystems(t *testing.T, systems ...*ActorSystem) {
	t.Helper()
	for _, system := range systems {
		require.NoError(t, system.Start(context.TODO()))
	}
	t.Cleanup(func() {
		for _, system := range systems {
			if system.Running() {
				_ = system.Stop(context.TODO())
			}
		}
	})
}

// discover waits for the listing of the given actor on the subscriber side
func discover(t *testing.T, subscriber *ActorSystem, actorType any, id address.ActorID) {
	t.Helper()
	subscription := subscriber.Receptionist().Subscribe(actorType)
	defer subscription.Cancel()

	found := make(chan struct{})
	go func() {
		for listing := range subscription.Listings() {
			if listing.ID == id {
				close(found)
				return
			}
		}
	}()

	select {
	case <-found:
	case <-time.After(5 * time.Second):
		t.Fatalf("actor %s was not discovered", id)
	}
}

// mockTransport is a testify mock of transport.Transport
type mockTransport struct {
	mock.Mock
}

var _ transport.Transport = (*mockTransport)(nil)

func (m *mockTransport) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTransport) Stop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTransport) LocalPeer() string {
	return m.Called().String(0)
}

func (m *mockTransport) Send(ctx context.Context, to string, payload []byte) error {
	return m.Called(ctx, to, payload).Error(0)
}

func (m *mockTransport) Broadcast(ctx context.Context, to []string, payload []byte) error {
	return m.Called(ctx, to, payload).Error(0)
}

func (m *mockTransport) IsConnected(peer string) bool {
	return m.Called(peer).Bool(0)
}

func (m *mockTransport) ConnectedPeers() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockTransport) AddHandler(handler transport.Handler) {
	m.Called(handler)
}

func (m *mockTransport) Events() <-chan *transport.Event {
	return m.Called().Get(0).(<-chan *transport.Event)
}
