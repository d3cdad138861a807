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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsChain(t *testing.T) {
	t.Run("With ReturnFirst", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		chain := New(ReturnFirst()).AddError(nil).AddError(e1).AddError(e2)
		require.ErrorIs(t, chain.Error(), e1)
		assert.NotErrorIs(t, chain.Error(), e2)
	})
	t.Run("With no error", func(t *testing.T) {
		require.NoError(t, New(ReturnFirst()).AddError(nil).Error())
		require.NoError(t, New().AddErrors(nil, nil).Error())
	})
	t.Run("With AddErrors", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		actual := New(ReturnAll()).AddErrors(e1, nil, e2).Error()
		require.ErrorIs(t, actual, e1)
		require.ErrorIs(t, actual, e2)
	})
	t.Run("With ReturnAll", func(t *testing.T) {
		actual := New(ReturnAll()).
			AddError(errors.New("err1")).
			AddError(errors.New("err2")).
			AddError(nil).
			Error()
		require.EqualError(t, actual, "err1; err2")
	})
	t.Run("With steps run in order", func(t *testing.T) {
		var ran []string
		step := func(name string, err error) func() error {
			return func() error {
				ran = append(ran, name)
				return err
			}
		}

		failure := errors.New("transport down")
		err := New(ReturnAll()).
			AddErrorFn(step("transport", failure)).
			AddErrorFn(step("metrics", nil)).
			Error()
		require.ErrorIs(t, err, failure)
		assert.Equal(t, []string{"transport", "metrics"}, ran)

		ran = nil
		err = New(ReturnFirst()).
			AddErrorFn(step("transport", failure)).
			AddErrorFn(step("metrics", nil)).
			Error()
		require.ErrorIs(t, err, failure)
		assert.Equal(t, []string{"transport"}, ran)
	})
	t.Run("With named steps", func(t *testing.T) {
		failure := errors.New("timeout")
		err := New().
			AddStepError("leave", failure).
			AddStepError("shutdown", nil).
			Error()
		require.ErrorIs(t, err, failure)
		assert.EqualError(t, err, "leave: timeout")
	})
}
