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

package descriptor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocerr"
)

var _ = Describe("Data", func() {
	It("rejects a zero-length embedded payload", func() {
		_, err := descriptor.NewData(id.AutoLink, nil)
		Expect(iocerr.IsCode(err, iocerr.CodeZeroData)).To(BeTrue())
	})

	It("rejects a zero-length external buffer", func() {
		_, err := descriptor.NewDataExternal(id.AutoLink, []byte{})
		Expect(iocerr.IsCode(err, iocerr.CodeZeroData)).To(BeTrue())
	})

	It("exposes whichever payload form was populated", func() {
		d, err := descriptor.NewData(id.AutoLink, []byte("hello"))
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Bytes()).To(Equal([]byte("hello")))
		Expect(d.Len()).To(Equal(5))
	})
})

var _ = Describe("Command", func() {
	It("moves through pending to a terminal status", func() {
		cmd := descriptor.NewCommand(id.AutoLink, 1, []byte("req"))
		Expect(cmd.Status()).To(Equal(descriptor.CmdInitialized))

		Expect(cmd.SetStatus(descriptor.CmdPending)).To(Succeed())
		Expect(cmd.Succeed([]byte("resp"))).To(Succeed())
		Expect(cmd.Status()).To(Equal(descriptor.CmdSuccess))
	})

	It("refuses to leave a terminal status once reached", func() {
		cmd := descriptor.NewCommand(id.AutoLink, 1, nil)
		Expect(cmd.Succeed(nil)).To(Succeed())

		err := cmd.Fail(nil)
		Expect(iocerr.IsCode(err, iocerr.CodeBug)).To(BeTrue())
	})
})
