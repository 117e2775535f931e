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

// Package conles implements the connectionless event subsystem: a fixed
// table of subscription slots, a single subscription mutex, and a
// dedicated worker goroutine that drains queued events so posting never
// runs a consumer's callback on the producer's own stack for async
// delivery. Sync delivery instead calls matching callbacks straight from
// PostEvent, with the subscription mutex dropped for the duration of each
// callback - grounded on the teacher's cluster package rule of never
// holding a lock across a dispatch into user code.
package conles

import (
	"context"
	"reflect"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/queue"
)

// MaxSubscribers bounds how many Conles subscriptions may be live at once,
// whichever links they were made on.
const MaxSubscribers = 16

type slot struct {
	used   bool
	linkID id.LinkId
	args   iocconfig.EventArgs
	q      *queue.Queue
}

func (s *slot) matches(evtID descriptor.EventID) bool {
	if len(s.args.IDs) == 0 {
		return true
	}
	for _, id := range s.args.IDs {
		if id == evtID {
			return true
		}
	}
	return false
}

// sameSubscriber reports whether a and b identify the same subscription
// record, per the spec's (callback, private-data) identity - not the link
// id a subscriber happens to call sub_evt on. Conles is publish-subscribe
// over the reserved auto-link, so distinct subscribers legitimately share
// that one link id; only a genuine duplicate (cb, priv) pair is a conflict.
func sameSubscriber(a, b iocconfig.EventArgs) bool {
	return sameCallback(a.Cb, b.Cb) && samePriv(a.Priv, b.Priv)
}

// sameCallback compares two EventCallback values by underlying function
// pointer, the way the teacher's own errors/code.go resolves a function
// value's identity via reflect rather than direct ==, which Go disallows
// between two non-nil func values.
func sameCallback(a, b iocconfig.EventCallback) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// samePriv compares two caller-supplied private-data values. Priv is an
// any and may hold a dynamic type that isn't comparable with ==, in which
// case it can never collide with anything and is treated as distinct
// rather than panicking the caller.
func samePriv(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Dispatcher owns the subscription table and the async worker that drains
// it.
type Dispatcher struct {
	log ioclog.Logger

	mu    sync.Mutex
	slots [MaxSubscribers]slot

	wake chan struct{}
	done chan struct{}

	// drain serializes the background worker pass against an explicit
	// ForceProcEvt call, so the two never race to dequeue the same event.
	drain *semaphore.Weighted
}

// New returns a Dispatcher with its worker goroutine already running.
// Callers must call Close to stop it.
func New(log ioclog.Logger) *Dispatcher {
	if log == nil {
		log = ioclog.Discard()
	}
	d := &Dispatcher{
		log:   log,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		drain: semaphore.NewWeighted(1),
	}
	go d.worker()
	return d
}

// Close stops the background worker. Subscriptions are left untouched;
// callers are expected to Unsubscribe each link themselves.
func (d *Dispatcher) Close() {
	close(d.done)
}

// Subscribe registers linkID for event delivery matching args.IDs (or all
// events if args.IDs is empty).
func (d *Dispatcher) Subscribe(linkID id.LinkId, args iocconfig.EventArgs) error {
	if args.Cb == nil {
		return iocerr.New(iocerr.CodeInvalidParam, "event subscription requires a callback")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	free := -1
	for i := range d.slots {
		if d.slots[i].used && sameSubscriber(d.slots[i].args, args) {
			return iocerr.New(iocerr.CodeConflictEventConsumer, "this callback/private-data pair already has an event subscription")
		}
		if !d.slots[i].used && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return iocerr.New(iocerr.CodeTooManyEventConsumer, "no free subscription slot")
	}

	d.slots[free] = slot{used: true, linkID: linkID, args: args, q: queue.New()}
	return nil
}

// Unsubscribe removes the subscription matching linkID and args's
// (callback, private-data) identity. linkID alone is not enough to pick a
// slot unambiguously: Conles lets distinct subscribers share the reserved
// auto-link, so the same pairing Subscribe used to detect a conflict is
// used here to find the one record to remove.
func (d *Dispatcher) Unsubscribe(linkID id.LinkId, args iocconfig.EventArgs) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.slots {
		if d.slots[i].used && d.slots[i].linkID == linkID && sameSubscriber(d.slots[i].args, args) {
			d.slots[i] = slot{}
			return nil
		}
	}
	return iocerr.New(iocerr.CodeNoEventConsumer, "link has no matching event subscription")
}

// PostEvent delivers evt to every matching subscriber. In Sync mode each
// matching callback runs before PostEvent returns, in the caller's
// goroutine, with the subscription mutex released for the call. In Async
// mode the event is enqueued on each matching subscriber's queue and the
// worker goroutine is nudged to drain it.
func (d *Dispatcher) PostEvent(evt *descriptor.Event, opt iocconfig.Option) error {
	if opt.IsSync() {
		return d.postSync(evt)
	}
	return d.postAsync(evt)
}

func (d *Dispatcher) postSync(evt *descriptor.Event) error {
	d.mu.Lock()
	var targets []iocconfig.EventCallback
	for i := range d.slots {
		if d.slots[i].used && d.slots[i].matches(evt.EvtID) {
			targets = append(targets, d.slots[i].args.Cb)
		}
	}
	d.mu.Unlock()

	if len(targets) == 0 {
		return iocerr.Newf(iocerr.CodeNoEventConsumer, "no subscriber matches event id %d", evt.EvtID)
	}
	for _, cb := range targets {
		cb(evt)
	}
	return nil
}

func (d *Dispatcher) postAsync(evt *descriptor.Event) error {
	d.mu.Lock()

	var targets []int
	for i := range d.slots {
		if d.slots[i].used && d.slots[i].matches(evt.EvtID) {
			if d.slots[i].q.IsFull() {
				d.mu.Unlock()
				return iocerr.New(iocerr.CodeTooManyQueued, "a matching subscriber's queue is at capacity")
			}
			targets = append(targets, i)
		}
	}

	if len(targets) == 0 {
		d.mu.Unlock()
		return iocerr.Newf(iocerr.CodeNoEventConsumer, "no subscriber matches event id %d", evt.EvtID)
	}

	// Capacity was checked for every matching slot above, under the same
	// lock, before any of them received a copy - so a caller that retries
	// after TOO_MANY_QUEUED never sees an earlier subscriber double-fed.
	for _, i := range targets {
		_ = d.slots[i].q.EnqueueLast(evt)
	}
	d.mu.Unlock()

	d.Wakeup()
	return nil
}

// Wakeup nudges the worker goroutine to run a drain pass. The worker has
// no timer of its own: it drains only after a Wakeup (postAsync calls one).
func (d *Dispatcher) Wakeup() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// ForceDrain synchronously drains every queued event across every
// subscription, on the caller's goroutine, and blocks until the queues are
// empty. It is the barrier operation a caller uses before relying on every
// previously posted async event having been delivered.
func (d *Dispatcher) ForceDrain(ctx context.Context) error {
	if err := d.drain.Acquire(ctx, 1); err != nil {
		return iocerr.Newf(iocerr.CodeTimeout, "force drain: %v", err)
	}
	defer d.drain.Release(1)

	for {
		evt, cb := d.popOne()
		if cb == nil {
			return nil
		}
		cb(evt)
	}
}

// popOne dequeues a single event from the first non-empty slot and returns
// its callback, or (nil, nil) if every queue is empty.
func (d *Dispatcher) popOne() (*descriptor.Event, func(*descriptor.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.slots {
		if !d.slots[i].used {
			continue
		}
		if evt := d.slots[i].q.DequeueFirst(); evt != nil {
			return evt, d.slots[i].args.Cb
		}
	}
	return nil, nil
}

func (d *Dispatcher) worker() {
	for {
		select {
		case <-d.done:
			return
		case <-d.wake:
		}

		_ = d.drain.Acquire(context.Background(), 1)
		for {
			evt, cb := d.popOne()
			if cb == nil {
				break
			}
			cb(evt)
		}
		d.drain.Release(1)
	}
}
