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

package iocconfig_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/iocconfig"
)

var _ = Describe("URI", func() {
	It("parses scheme, host, port and path", func() {
		u, err := iocconfig.Parse("nats://broker:4222/chat")
		Expect(err).ToNot(HaveOccurred())
		Expect(u.Protocol).To(Equal("nats"))
		Expect(u.Host).To(Equal("broker"))
		Expect(u.Port).To(Equal(uint16(4222)))
		Expect(u.Path).To(Equal("/chat"))
	})

	It("rejects a uri with no scheme separator", func() {
		_, err := iocconfig.Parse("not-a-uri")
		Expect(err).To(HaveOccurred())
	})

	It("treats auto protocol as equal to any concrete protocol at the same endpoint", func() {
		a, _ := iocconfig.Parse("auto://localprocess/svc")
		b, _ := iocconfig.Parse("local://localprocess/svc")
		Expect(a.Equal(b)).To(BeTrue())
	})

	It("round-trips through String", func() {
		u, _ := iocconfig.Parse("local://localprocess:9/svc")
		Expect(iocconfig.URI{Protocol: u.Protocol, Host: u.Host, Port: u.Port, Path: u.Path}.String()).To(Equal("local://localprocess:9/svc"))
	})
})

var _ = Describe("Option", func() {
	It("clamps a negative non-infinite timeout to non-blocking", func() {
		o := iocconfig.Option{Timeout: -5 * time.Second}
		Expect(o.Clamp()).To(Equal(iocconfig.TimeoutNonBlock))
	})

	It("clamps an excessive timeout down to TimeoutMax", func() {
		o := iocconfig.Option{Timeout: 48 * time.Hour}
		Expect(o.Clamp()).To(Equal(iocconfig.TimeoutMax))
	})

	It("leaves TimeoutInfinite untouched", func() {
		o := iocconfig.Option{Timeout: iocconfig.TimeoutInfinite}
		Expect(o.Clamp()).To(Equal(iocconfig.TimeoutInfinite))
	})
})
