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

package ticker

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Ticker defines time ticker that delivers ticks at intervals.
// Each period lasts the interval plus a random delay within the tolerance,
// which spreads the ticks of many peers started at the same time.
type Ticker struct {
	Ticks     chan time.Time
	intervals time.Duration
	tolerance time.Duration
	mutex     sync.Mutex
	ticking   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// New creates an instance of Ticker that ticks every intervals.
// Ticks are dropped when the receiver is not ready.
func New(intervals, tolerance time.Duration) *Ticker {
	if intervals <= 0 {
		panic("intervals must be greater than zero")
	}
	if tolerance < 0 {
		panic("tolerance must not be negative")
	}
	return &Ticker{
		Ticks:     make(chan time.Time),
		intervals: intervals,
		tolerance: tolerance,
	}
}

// Start the ticker. Ticks are delivered on the ticker's
// channel until Stop is called
func (t *Ticker) Start() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.ticking {
		t.stopCh = make(chan struct{})
		t.stoppedCh = make(chan struct{})
		go t.tickingLoop(t.stopCh, t.stoppedCh)
		t.ticking = true
	}
}

// Stop stops the ticker. No ticks will be delivered on ticker's channel
// after Stop returns and before Start is call again
func (t *Ticker) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.ticking {
		t.ticking = false
		close(t.stopCh)
		<-t.stoppedCh
	}
}

// Ticking returns true when the ticker is ticking
// and false when it is stopped
func (t *Ticker) Ticking() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.ticking
}

func (t *Ticker) next() time.Duration {
	if t.tolerance == 0 {
		return t.intervals
	}
	return t.intervals + rand.N(t.tolerance+1)
}

func (t *Ticker) tickingLoop(stopCh, stoppedCh chan struct{}) {
	defer close(stoppedCh)
	timer := time.NewTimer(t.next())
	defer timer.Stop()
	for {
		select {
		case tc := <-timer.C:
			select {
			case t.Ticks <- tc:
			case <-stopCh:
				return
			default:
			}
			timer.Reset(t.next())
		case <-stopCh:
			return
		}
	}
}
