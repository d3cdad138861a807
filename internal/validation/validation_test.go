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

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var lowercase = regexp.MustCompile(`^[a-z]+$`)

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddAssertion() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddAssertion(true, "")
	s.Assert().Len(chain.validators, 1)
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with single validator", func() {
		chain := New()
		chain.AddValidator(NewEmptyStringValidator("field", ""))
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and FailFast option", func() {
		chain := New(FailFast())
		chain.
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with repeated validation", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("field", "")).
			AddValidator(ValidatorFunc(func() error { return nil }))
		s.Assert().EqualError(chain.Validate(), "the [field] is required")
		s.Assert().EqualError(chain.Validate(), "the [field] is required")
	})
	s.Run("with multiple validators and AllErrors option", func() {
		chain := New(AllErrors())
		chain.
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
	s.Run("with passing validators", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("field", "value")).
			AddValidator(NewPositiveDurationValidator("interval", time.Second)).
			AddValidator(NewNonNegativeDurationValidator("timeout", 0)).
			AddValidator(NewPatternValidator(lowercase, "peer", nil)).
			AddAssertion(true, "true")
		s.Assert().NoError(chain.Validate())
	})
}

func (s *validationTestSuite) TestValidators() {
	s.Run("boolean validator", func() {
		s.Assert().NoError(NewBooleanValidator(true, "").Validate())
		s.Assert().EqualError(NewBooleanValidator(false, "failed").Validate(), "failed")
	})
	s.Run("duration validators", func() {
		s.Assert().Error(NewPositiveDurationValidator("interval", 0).Validate())
		s.Assert().Error(NewPositiveDurationValidator("interval", -time.Second).Validate())
		s.Assert().Error(NewNonNegativeDurationValidator("timeout", -time.Second).Validate())
		s.Assert().NoError(NewNonNegativeDurationValidator("timeout", time.Second).Validate())
	})
	s.Run("pattern validator", func() {
		custom := errors.New("custom")
		s.Assert().ErrorIs(NewPatternValidator(lowercase, "Peer 1", custom).Validate(), custom)
		s.Assert().EqualError(NewPatternValidator(lowercase, "Peer 1", nil).Validate(), `"Peer 1" does not match ^[a-z]+$`)
	})
	s.Run("blank string validator", func() {
		s.Assert().Error(NewEmptyStringValidator("name", "   ").Validate())
	})
}
