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

package iocerr_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/iocerr"
)

var _ = Describe("Error", func() {
	It("classifies itself by code", func() {
		e := iocerr.New(iocerr.CodeTimeout, "deadline exceeded")
		Expect(e.IsCode(iocerr.CodeTimeout)).To(BeTrue())
		Expect(e.IsCode(iocerr.CodeBug)).To(BeFalse())
	})

	It("walks its parent chain for HasCode", func() {
		root := iocerr.New(iocerr.CodeLinkBroken, "peer vanished")
		wrapped := iocerr.New(iocerr.CodeTimeout, "exec cmd failed", root)

		Expect(wrapped.HasCode(iocerr.CodeTimeout)).To(BeTrue())
		Expect(wrapped.HasCode(iocerr.CodeLinkBroken)).To(BeTrue())
		Expect(wrapped.HasCode(iocerr.CodeBug)).To(BeFalse())
	})

	It("is recognized through the standard errors package", func() {
		var target error = iocerr.New(iocerr.CodeNotExistLink, "gone")
		Expect(iocerr.Is(target)).To(BeTrue())
		Expect(iocerr.Is(errors.New("plain"))).To(BeFalse())
	})

	It("only CodeBug is Fatal", func() {
		Expect(iocerr.New(iocerr.CodeTimeout, "x").Fatal()).To(BeFalse())
		Expect(iocerr.Bug("invariant broken").Fatal()).To(BeTrue())
	})

	It("records a call-site frame", func() {
		e := iocerr.New(iocerr.CodeInvalidParam, "bad arg")
		Expect(e.Frame()).To(ContainSubstring("errors_test.go"))
	})
})
