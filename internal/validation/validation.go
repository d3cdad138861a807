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

package validation

import "go.uber.org/multierr"

// Validator checks one configuration value
type Validator interface {
	Validate() error
}

// ValidatorFunc adapts a plain function to a Validator
type ValidatorFunc func() error

// Validate calls f
func (f ValidatorFunc) Validate() error {
	return f()
}

// Chain runs a list of validators and reports their violations as a
// single error. A chain can be validated many times.
type Chain struct {
	failFast   bool
	validators []Validator
}

// ChainOption configures a Chain at creation time
type ChainOption func(*Chain)

// FailFast stops the validation on the first violation
func FailFast() ChainOption {
	return func(c *Chain) { c.failFast = true }
}

// AllErrors reports every violation. This is the default.
func AllErrors() ChainOption {
	return func(c *Chain) { c.failFast = false }
}

// New creates a Chain
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddValidator appends the validator to the chain
func (c *Chain) AddValidator(v Validator) *Chain {
	c.validators = append(c.validators, v)
	return c
}

// AddAssertion appends a check that fails with message when isTrue is false
func (c *Chain) AddAssertion(isTrue bool, message string) *Chain {
	return c.AddValidator(NewBooleanValidator(isTrue, message))
}

// Validate runs the validators in order
func (c *Chain) Validate() error {
	var violations error
	for _, v := range c.validators {
		if err := v.Validate(); err != nil {
			if c.failFast {
				return err
			}
			violations = multierr.Append(violations, err)
		}
	}
	return violations
}
