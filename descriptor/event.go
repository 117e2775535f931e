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

package descriptor

import "github.com/nabbar/ioc-core/id"

// EventID names a class of event. Producers and consumers agree on these
// out of band; the runtime treats them as opaque integers.
type EventID uint64

// Event is a fire-and-forget message posted to a subscription queue.
type Event struct {
	Common

	EvtID EventID

	// Payload is an opaque, producer-owned blob. The runtime never
	// inspects it; the in-process paths pass the slice along as is, while
	// the nats backend serializes it into the message it publishes.
	Payload []byte
}

// NewEvent builds an Event descriptor ready to post.
func NewEvent(src id.LinkId, evtID EventID, payload []byte) *Event {
	return &Event{
		Common:  NewCommon(src),
		EvtID:   evtID,
		Payload: payload,
	}
}
