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

package queue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/queue"
)

var _ = Describe("Queue", func() {
	It("starts empty", func() {
		q := queue.New()
		Expect(q.IsEmpty()).To(BeTrue())
		Expect(q.DequeueFirst()).To(BeNil())
	})

	It("orders events FIFO", func() {
		q := queue.New()
		e1 := descriptor.NewEvent(id.AutoLink, 1, []byte("a"))
		e2 := descriptor.NewEvent(id.AutoLink, 1, []byte("b"))

		Expect(q.EnqueueLast(e1)).To(Succeed())
		Expect(q.EnqueueLast(e2)).To(Succeed())
		Expect(q.Len()).To(Equal(2))

		Expect(q.DequeueFirst()).To(Equal(e1))
		Expect(q.DequeueFirst()).To(Equal(e2))
		Expect(q.IsEmpty()).To(BeTrue())
	})

	It("rejects enqueue once full", func() {
		q := queue.New()
		for i := 0; i < queue.MaxQueued; i++ {
			Expect(q.EnqueueLast(descriptor.NewEvent(id.AutoLink, 1, nil))).To(Succeed())
		}
		Expect(q.IsFull()).To(BeTrue())

		err := q.EnqueueLast(descriptor.NewEvent(id.AutoLink, 1, nil))
		Expect(err).To(HaveOccurred())
		Expect(iocerr.IsCode(err, iocerr.CodeTooManyQueued)).To(BeTrue())
	})

	It("reports pending count as queued minus processed", func() {
		q := queue.New()
		Expect(q.EnqueueLast(descriptor.NewEvent(id.AutoLink, 1, nil))).To(Succeed())
		Expect(q.Pending()).To(Equal(uint64(1)))
		q.DequeueFirst()
		Expect(q.Pending()).To(Equal(uint64(0)))
	})
})
