/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package iocconfig

import (
	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
)

// EventCallback consumes one Event. It runs on the Conles worker goroutine
// (async delivery) or on the poster's own goroutine (sync delivery); it
// must not block on anything the runtime itself could be holding a lock
// for.
type EventCallback func(evt *descriptor.Event)

// CmdCallback executes one Command and must drive it to a terminal status
// via cmd.Succeed/cmd.Fail before returning.
type CmdCallback func(cmd *descriptor.Command)

// DataCallback is invoked when data arrives on a receive-by-callback link.
type DataCallback func(link id.LinkId, data *descriptor.Data)

// EventArgs configures a link's event subscription.
type EventArgs struct {
	// IDs restricts delivery to these EventIDs; nil/empty means "all".
	IDs []descriptor.EventID
	Cb  EventCallback
	Priv any
}

// CmdArgs configures a link's command execution.
type CmdArgs struct {
	IDs []descriptor.CmdID
	Cb  CmdCallback
	Priv any
}

// Supports reports whether cmdID is one this executor declared, or true
// unconditionally when IDs is empty (an executor with no declared set
// accepts every command id).
func (a CmdArgs) Supports(cmdID descriptor.CmdID) bool {
	if len(a.IDs) == 0 {
		return true
	}
	for _, v := range a.IDs {
		if v == cmdID {
			return true
		}
	}
	return false
}

// DataArgs configures a link's data reception.
type DataArgs struct {
	Cb   DataCallback
	Priv any
}

// UsageArgs groups the three optional argument bags a Service or connecting
// client may supply, one per capability it intends to use. It is a plain
// value type: copying it copies the pointers, never the pointees, the way
// the teacher's option structs are threaded through without deep copies.
type UsageArgs struct {
	Evt *EventArgs
	Cmd *CmdArgs
	Dat *DataArgs
}

// ServiceArgs is the full configuration passed to OnlineService.
type ServiceArgs struct {
	URI   URI
	Usage UsageRole
	Flags ServiceFlag
	UsageArgs
}

// ConnArgs is the full configuration passed to ConnectService.
type ConnArgs struct {
	URI   URI
	Usage UsageRole
	UsageArgs
}

// Merge returns a UsageArgs with every nil bag of a filled in from o,
// leaving a's own bags untouched where it already declared one. Used to
// combine the accepting service's declared callbacks with the connecting
// client's on the single shared Link a local-style backend hands both
// sides, without either one silently overriding the other.
func (a UsageArgs) Merge(o UsageArgs) UsageArgs {
	out := a
	if out.Evt == nil {
		out.Evt = o.Evt
	}
	if out.Cmd == nil {
		out.Cmd = o.Cmd
	}
	if out.Dat == nil {
		out.Dat = o.Dat
	}
	return out
}
