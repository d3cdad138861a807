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

package errorschain

import (
	"fmt"

	"go.uber.org/multierr"
)

// Chain collects the errors of a sequence of steps, typically the start or
// shutdown of the collaborators of an actor system. Steps are reported in
// the order they were added.
type Chain struct {
	returnFirst bool
	errs        []error
}

// ChainOption configures a Chain at creation time
type ChainOption func(*Chain)

// ReturnFirst makes the chain report only its first error. Steps added with
// AddErrorFn after a failure are skipped.
func ReturnFirst() ChainOption {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes the chain report every error, combined
func ReturnAll() ChainOption {
	return func(c *Chain) { c.returnFirst = false }
}

// New creates a Chain
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddError records the outcome of a step that already ran. Nil errors are ignored.
func (c *Chain) AddError(err error) *Chain {
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// AddErrors records the outcome of several steps, in order
func (c *Chain) AddErrors(errs ...error) *Chain {
	for _, err := range errs {
		c.AddError(err)
	}
	return c
}

// AddErrorFn runs the step and records its error
func (c *Chain) AddErrorFn(step func() error) *Chain {
	if c.returnFirst && len(c.errs) > 0 {
		return c
	}
	return c.AddError(step())
}

// AddStepError records the error of the named step, prefixed with its name
func (c *Chain) AddStepError(step string, err error) *Chain {
	if err == nil {
		return c
	}
	return c.AddError(fmt.Errorf("%s: %w", step, err))
}

// Error returns nil when every step succeeded
func (c *Chain) Error() error {
	if len(c.errs) == 0 {
		return nil
	}
	if c.returnFirst {
		return c.errs[0]
	}
	return multierr.Combine(c.errs...)
}
