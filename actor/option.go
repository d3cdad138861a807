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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/meshakt/internal/types"
	"github.com/tochemey/meshakt/log"
	"github.com/tochemey/meshakt/serializer"
	"github.com/tochemey/meshakt/transport"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *ActorSystem)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*ActorSystem)

// Apply applies the actor system's option
func (f OptionFunc) Apply(c *ActorSystem) {
	f(c)
}

// WithLogger sets the actor system custom log
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.logger = logger
	})
}

// WithSerializer sets the serializer used for call arguments, return values
// and structured errors. Every peer of the network must use the same one.
func WithSerializer(serializer serializer.Serializer) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.serializer = serializer
	})
}

// WithAdvertiseInterval sets the period of the actors advertisement and the
// maximum random delay added to each period.
func WithAdvertiseInterval(interval, tolerance time.Duration) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.advertiseInterval = interval
		a.advertiseTolerance = tolerance
	})
}

// WithCallTimeout bounds how long a remote call waits for its response.
// Zero, the default, waits until the caller context is done.
func WithCallTimeout(timeout time.Duration) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.callTimeout = timeout
	})
}

// WithPeerEvictionTimeout removes the actors of a peer from the directory
// once the peer has been disconnected for the given duration.
// Zero, the default, keeps them until the peer advertises again.
func WithPeerEvictionTimeout(timeout time.Duration) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.peerEvictionTimeout = timeout
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider.
// The global provider is used by default.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.meterProvider = provider
	})
}

// WithIsolatedTypes gives the actor system its own types registry instead of
// the process-wide one. Only the builtin types are registered up front.
func WithIsolatedTypes() Option {
	return OptionFunc(func(a *ActorSystem) {
		registry := types.NewRegistry()
		registry.Register(types.Builtins()...)
		a.typesRegistry = registry
	})
}

// WithPeerEventsHandler sets a callback invoked with every connectivity
// change reported by the transport, after the actor system handled it.
func WithPeerEventsHandler(handler func(*transport.Event)) Option {
	return OptionFunc(func(a *ActorSystem) {
		a.peerEventsHandler = handler
	})
}
