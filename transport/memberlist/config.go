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
	"time"

	"github.com/tochemey/meshakt/internal/validation"
)

// Config defines the memberlist transport settings
type Config struct {
	// Name is the peer name. It must be unique across the network.
	Name string
	// BindAddr is the address the gossip and message listeners bind to
	BindAddr string
	// BindPort is the port the gossip and message listeners bind to
	BindPort int
	// Seeds are the host:port addresses of peers to join at start
	Seeds []string
	// MaxJoinAttempts caps the number of join attempts against the seeds
	MaxJoinAttempts int
	// JoinRetryInterval is the delay between two join attempts
	JoinRetryInterval time.Duration
	// LeaveTimeout bounds the graceful leave broadcast on Stop
	LeaveTimeout time.Duration
}

// NewConfig creates a Config with the default join and leave settings
func NewConfig(name, bindAddr string, bindPort int, seeds ...string) *Config {
	return &Config{
		Name:              name,
		BindAddr:          bindAddr,
		BindPort:          bindPort,
		Seeds:             seeds,
		MaxJoinAttempts:   5,
		JoinRetryInterval: time.Second,
		LeaveTimeout:      3 * time.Second,
	}
}

// Validate checks the configuration
func (x *Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("Name", x.Name)).
		AddValidator(validation.NewEmptyStringValidator("BindAddr", x.BindAddr)).
		AddAssertion(x.BindPort > 0 && x.BindPort < 65536, "BindPort is invalid").
		AddAssertion(x.MaxJoinAttempts > 0, "MaxJoinAttempts must be greater than zero").
		AddValidator(validation.NewPositiveDurationValidator("JoinRetryInterval", x.JoinRetryInterval)).
		AddValidator(validation.NewPositiveDurationValidator("LeaveTimeout", x.LeaveTimeout)).
		Validate()
}
