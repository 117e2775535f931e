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

package conles_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/conles"
	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/queue"
)

var _ = Describe("Dispatcher", func() {
	var d *conles.Dispatcher

	BeforeEach(func() {
		d = conles.New(ioclog.Discard())
	})

	AfterEach(func() {
		d.Close()
	})

	It("delivers a sync post before returning", func() {
		var got *descriptor.Event
		Expect(d.Subscribe(id.LinkId(1), iocconfig.EventArgs{
			Cb: func(evt *descriptor.Event) { got = evt },
		})).To(Succeed())

		evt := descriptor.NewEvent(id.AutoLink, 42, []byte("hi"))
		Expect(d.PostEvent(evt, iocconfig.Blocking(time.Second))).To(Succeed())
		Expect(got).To(Equal(evt))
	})

	It("delivers an async post via the worker goroutine", func() {
		var count int32
		Expect(d.Subscribe(id.LinkId(2), iocconfig.EventArgs{
			Cb: func(*descriptor.Event) { atomic.AddInt32(&count, 1) },
		})).To(Succeed())

		Expect(d.PostEvent(descriptor.NewEvent(id.AutoLink, 1, nil), iocconfig.NonBlocking())).To(Succeed())

		Eventually(func() int32 { return atomic.LoadInt32(&count) }, time.Second).Should(Equal(int32(1)))
	})

	It("filters delivery by subscribed event ids", func() {
		var got []descriptor.EventID
		Expect(d.Subscribe(id.LinkId(3), iocconfig.EventArgs{
			IDs: []descriptor.EventID{7},
			Cb:  func(evt *descriptor.Event) { got = append(got, evt.EvtID) },
		})).To(Succeed())

		err := d.PostEvent(descriptor.NewEvent(id.AutoLink, 9, nil), iocconfig.Blocking(time.Second))
		Expect(iocerr.IsCode(err, iocerr.CodeNoEventConsumer)).To(BeTrue())

		Expect(d.PostEvent(descriptor.NewEvent(id.AutoLink, 7, nil), iocconfig.Blocking(time.Second))).To(Succeed())
		Expect(got).To(Equal([]descriptor.EventID{7}))
	})

	It("rejects a second subscription with the same callback/private-data pair", func() {
		args := iocconfig.EventArgs{Cb: func(*descriptor.Event) {}}
		Expect(d.Subscribe(id.LinkId(4), args)).To(Succeed())

		err := d.Subscribe(id.LinkId(4), args)
		Expect(iocerr.IsCode(err, iocerr.CodeConflictEventConsumer)).To(BeTrue())

		Expect(d.Unsubscribe(id.LinkId(4), args)).To(Succeed())
		Expect(d.Subscribe(id.LinkId(4), args)).To(Succeed())
	})

	It("lets two distinct subscribers share the reserved auto-link", func() {
		firstArgs := iocconfig.EventArgs{IDs: []descriptor.EventID{1}, Cb: func(*descriptor.Event) {}}
		secondArgs := iocconfig.EventArgs{IDs: []descriptor.EventID{2}, Cb: func(*descriptor.Event) {}}

		Expect(d.Subscribe(id.AutoLink, firstArgs)).To(Succeed())
		Expect(d.Subscribe(id.AutoLink, secondArgs)).To(Succeed())
	})

	It("caps subscriptions at MaxSubscribers", func() {
		for i := 0; i < conles.MaxSubscribers; i++ {
			i := i
			args := iocconfig.EventArgs{Cb: func(*descriptor.Event) { _ = i }}
			Expect(d.Subscribe(id.LinkId(100+i), args)).To(Succeed())
		}
		err := d.Subscribe(id.LinkId(999), iocconfig.EventArgs{Cb: func(*descriptor.Event) {}})
		Expect(iocerr.IsCode(err, iocerr.CodeTooManyEventConsumer)).To(BeTrue())
	})

	It("does not deliver to an earlier subscriber with room when a later one is full", func() {
		release := make(chan struct{})
		var aCount int32

		// A subscribes first and only cares about event id 1; its callback
		// blocks the worker on its very first delivery so the test can drive
		// subscriber B's queue to capacity before anything gets drained.
		Expect(d.Subscribe(id.LinkId(6), iocconfig.EventArgs{
			IDs: []descriptor.EventID{1},
			Cb: func(*descriptor.Event) {
				if atomic.AddInt32(&aCount, 1) == 1 {
					<-release
				}
			},
		})).To(Succeed())

		// B subscribes second and matches everything; it is the one driven
		// to capacity.
		Expect(d.Subscribe(id.LinkId(7), iocconfig.EventArgs{
			Cb: func(*descriptor.Event) {},
		})).To(Succeed())

		// This post matches both A and B. The worker dequeues A's copy
		// first (A is the earlier slot) and blocks inside A's callback,
		// leaving B's copy of this same event still queued.
		Expect(d.PostEvent(descriptor.NewEvent(id.AutoLink, 1, nil), iocconfig.NonBlocking())).To(Succeed())
		Eventually(func() int32 { return atomic.LoadInt32(&aCount) }, time.Second).Should(Equal(int32(1)))

		// Fill the rest of B's queue with an id A does not subscribe to, so
		// only B accumulates while the worker stays blocked in A's
		// callback.
		for i := 0; i < queue.MaxQueued-1; i++ {
			Expect(d.PostEvent(descriptor.NewEvent(id.AutoLink, 2, nil), iocconfig.NonBlocking())).To(Succeed())
		}

		// B is now at capacity. A post matching both must fail up front,
		// before A gets a copy - not after.
		err := d.PostEvent(descriptor.NewEvent(id.AutoLink, 1, nil), iocconfig.NonBlocking())
		Expect(iocerr.IsCode(err, iocerr.CodeTooManyQueued)).To(BeTrue())

		close(release)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(d.ForceDrain(ctx)).To(Succeed())

		// Exactly one delivery to A: the original post, never the failed one.
		Expect(atomic.LoadInt32(&aCount)).To(Equal(int32(1)))
	})

	It("force-drains every queued async event as a barrier", func() {
		var count int32
		Expect(d.Subscribe(id.LinkId(5), iocconfig.EventArgs{
			Cb: func(*descriptor.Event) { atomic.AddInt32(&count, 1) },
		})).To(Succeed())

		for i := 0; i < 5; i++ {
			Expect(d.PostEvent(descriptor.NewEvent(id.AutoLink, 1, nil), iocconfig.NonBlocking())).To(Succeed())
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(d.ForceDrain(ctx)).To(Succeed())
		Expect(atomic.LoadInt32(&count)).To(Equal(int32(5)))
	})
})
