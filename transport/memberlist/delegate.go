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
	"github.com/Workiva/go-datastructures/queue"
	"github.com/hashicorp/memberlist"
)

// delegate hands user messages over to the transport inbox.
// The transport carries no gossip state.
type delegate struct {
	inbox *queue.Queue
}

// enforce compilation error
var _ memberlist.Delegate = (*delegate)(nil)

func newDelegate(inbox *queue.Queue) *delegate {
	return &delegate{inbox: inbox}
}

// NodeMeta is used to retrieve meta-data about the current node
// when broadcasting an alive message.
func (d *delegate) NodeMeta(int) []byte {
	return nil
}

// NotifyMsg is called when a user-data message is received.
// The buffer is reused by memberlist once the call returns.
func (d *delegate) NotifyMsg(bytea []byte) {
	frame := make([]byte, len(bytea))
	copy(frame, bytea)
	_ = d.inbox.Put(frame)
}

// GetBroadcasts is called when user data messages can be broadcast.
func (d *delegate) GetBroadcasts(int, int) [][]byte {
	return nil
}

// LocalState is used for a TCP Push/Pull.
func (d *delegate) LocalState(bool) []byte {
	return nil
}

// MergeRemoteState is invoked after a TCP Push/Pull.
func (d *delegate) MergeRemoteState([]byte, bool) {}
