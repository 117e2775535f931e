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

// Package queue implements the bounded event-descriptor ring buffer each
// Conles subscription owns. It carries no lock of its own: every exported
// method assumes the caller already holds the subscription's mutex, the
// same contract the teacher's atomic.Map wrappers use for their internal
// slices (lock at the call site, keep the data structure itself dumb).
package queue

import (
	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/iocerr"
)

// MaxQueued bounds how many pending events a single subscription may hold
// before PostEvent starts returning CodeTooManyQueued.
const MaxQueued = 20

// Queue is a fixed-capacity FIFO of *descriptor.Event.
type Queue struct {
	buf    [MaxQueued]*descriptor.Event
	head   int
	count  int
	queued uint64
	proced uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// IsEmpty reports whether the queue currently holds no event.
func (q *Queue) IsEmpty() bool {
	return q.count == 0
}

// IsFull reports whether the queue is at MaxQueued capacity.
func (q *Queue) IsFull() bool {
	return q.count == MaxQueued
}

// Len returns the number of events currently queued.
func (q *Queue) Len() int {
	return q.count
}

// EnqueueLast appends evt to the tail of the queue.
func (q *Queue) EnqueueLast(evt *descriptor.Event) error {
	if q.IsFull() {
		return iocerr.New(iocerr.CodeTooManyQueued, "subscription queue is at capacity")
	}
	tail := (q.head + q.count) % MaxQueued
	q.buf[tail] = evt
	q.count++
	q.queued++
	return nil
}

// DequeueFirst removes and returns the head event, or nil if empty.
func (q *Queue) DequeueFirst() *descriptor.Event {
	if q.IsEmpty() {
		return nil
	}
	evt := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % MaxQueued
	q.count--
	q.proced++
	return evt
}

// Pending reports how many events have been queued but not yet
// dequeued/processed, computed with modular (wraparound-safe) subtraction
// over the uint64 counters so a long-lived queue never misreports after
// either counter wraps.
func (q *Queue) Pending() uint64 {
	return q.queued - q.proced
}

// Counters returns the raw lifetime queued/processed counts, mostly useful
// for diagnostics and tests.
func (q *Queue) Counters() (queued, proced uint64) {
	return q.queued, q.proced
}
