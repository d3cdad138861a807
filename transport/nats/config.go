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

package nats

import (
	"errors"
	"regexp"
	"time"

	"github.com/tochemey/meshakt/internal/validation"
)

var (
	// ErrInvalidPeerName is returned when the peer name cannot be used as a NATS subject token
	ErrInvalidPeerName = errors.New("invalid peer name, must contain only [a-zA-Z0-9] plus non-leading '-' or '_'")
	// ErrInvalidNamespace is returned when the namespace is not a valid NATS subject prefix
	ErrInvalidNamespace = errors.New("invalid namespace, must be dot-separated [a-zA-Z0-9_-] tokens")
)

var (
	peerNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)
	namespacePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(\.[a-zA-Z0-9_-]+)*$`)
)

// Config defines the NATS transport settings
type Config struct {
	// URL is the NATS server address in the format nats://host:port
	URL string
	// Namespace prefixes every subject used by the transport. Peers only
	// see each other within the same namespace.
	Namespace string
	// PeerName is the name of this peer. It must be unique in the namespace.
	PeerName string
	// HeartbeatInterval is the delay between two presence announcements
	HeartbeatInterval time.Duration
	// PeerTimeout is how long a silent peer stays connected
	PeerTimeout time.Duration
}

// NewConfig creates a Config with the default presence settings
func NewConfig(url, namespace, peerName string) *Config {
	return &Config{
		URL:               url,
		Namespace:         namespace,
		PeerName:          peerName,
		HeartbeatInterval: time.Second,
		PeerTimeout:       5 * time.Second,
	}
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("URL", x.URL)).
		AddValidator(validation.NewEmptyStringValidator("Namespace", x.Namespace)).
		AddValidator(validation.NewEmptyStringValidator("PeerName", x.PeerName)).
		AddValidator(validation.NewPatternValidator(namespacePattern, x.Namespace, ErrInvalidNamespace)).
		AddValidator(validation.NewPatternValidator(peerNamePattern, x.PeerName, ErrInvalidPeerName)).
		AddValidator(validation.NewPositiveDurationValidator("HeartbeatInterval", x.HeartbeatInterval)).
		AddAssertion(x.PeerTimeout > x.HeartbeatInterval, "PeerTimeout must be greater than HeartbeatInterval").
		Validate()
}

func (x *Config) presenceSubject() string {
	return x.Namespace + ".presence"
}

func (x *Config) peerSubject(peer string) string {
	return x.Namespace + ".peer." + peer
}
