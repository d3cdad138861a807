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

package metric

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OutcomeKey is the attribute that qualifies call and advertisement counters
const OutcomeKey = attribute.Key("outcome")

// RuntimeMetric groups the OpenTelemetry instruments of an actor system.
//
// Instruments:
//   - meshakt.calls.outbound    (Int64Counter, attribute outcome)
//   - meshakt.calls.inbound     (Int64Counter, attribute outcome)
//   - meshakt.calls.inflight    (Int64UpDownCounter)
//   - meshakt.advertisements    (Int64Counter, attribute outcome)
//   - meshakt.directory.actors  (Int64ObservableGauge)
//   - meshakt.registry.actors   (Int64ObservableGauge)
type RuntimeMetric struct {
	outboundCalls   metric.Int64Counter
	inboundCalls    metric.Int64Counter
	inflightCalls   metric.Int64UpDownCounter
	advertisements  metric.Int64Counter
	directoryActors metric.Int64ObservableGauge
	registryActors  metric.Int64ObservableGauge
}

// NewRuntimeMetric creates the instruments using the provided Meter.
// It returns an error if any instrument cannot be created.
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	var instruments RuntimeMetric
	var err error

	if instruments.outboundCalls, err = meter.Int64Counter(
		"meshakt.calls.outbound",
		metric.WithDescription("Total number of remote calls issued by the actor system"),
	); err != nil {
		return nil, err
	}

	if instruments.inboundCalls, err = meter.Int64Counter(
		"meshakt.calls.inbound",
		metric.WithDescription("Total number of remote calls served by the actor system"),
	); err != nil {
		return nil, err
	}

	if instruments.inflightCalls, err = meter.Int64UpDownCounter(
		"meshakt.calls.inflight",
		metric.WithDescription("Number of outbound calls waiting for their response"),
	); err != nil {
		return nil, err
	}

	if instruments.advertisements, err = meter.Int64Counter(
		"meshakt.advertisements",
		metric.WithDescription("Total number of actor advertisements broadcast"),
	); err != nil {
		return nil, err
	}

	if instruments.directoryActors, err = meter.Int64ObservableGauge(
		"meshakt.directory.actors",
		metric.WithDescription("Number of remote actors known from peer advertisements"),
	); err != nil {
		return nil, err
	}

	if instruments.registryActors, err = meter.Int64ObservableGauge(
		"meshakt.registry.actors",
		metric.WithDescription("Number of actors hosted locally"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// OutboundCalls returns the counter of issued remote calls
func (x *RuntimeMetric) OutboundCalls() metric.Int64Counter {
	return x.outboundCalls
}

// InboundCalls returns the counter of served remote calls
func (x *RuntimeMetric) InboundCalls() metric.Int64Counter {
	return x.inboundCalls
}

// InflightCalls returns the up-down counter of pending outbound calls
func (x *RuntimeMetric) InflightCalls() metric.Int64UpDownCounter {
	return x.inflightCalls
}

// Advertisements returns the counter of advertisement broadcasts
func (x *RuntimeMetric) Advertisements() metric.Int64Counter {
	return x.advertisements
}

// DirectoryActors returns the gauge of remote actors known by the directory.
//
// Use with Meter.RegisterCallback to observe the current value periodically.
func (x *RuntimeMetric) DirectoryActors() metric.Int64ObservableGauge {
	return x.directoryActors
}

// RegistryActors returns the gauge of locally hosted actors.
//
// Use with Meter.RegisterCallback to observe the current value periodically.
func (x *RuntimeMetric) RegistryActors() metric.Int64ObservableGauge {
	return x.registryActors
}

// Outcome returns the measurement option carrying the given outcome
func Outcome(outcome string) metric.MeasurementOption {
	return metric.WithAttributes(OutcomeKey.String(outcome))
}
