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

package ioc_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/conles"
	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioc"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
)

var _ = Describe("Manager", func() {
	var (
		m   *ioc.Manager
		ctx context.Context
	)

	BeforeEach(func() {
		m = ioc.New(ioclog.Discard())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(m.Close()).To(Succeed())
	})

	It("delivers a connectionless event to a subscriber", func() {
		var got []byte
		Expect(m.SubEvt(id.LinkId(1), iocconfig.EventArgs{
			Cb: func(evt *descriptor.Event) { got = evt.Payload },
		})).To(Succeed())

		Expect(m.PostEvt(ctx, id.AutoLink, 1, []byte("ping"), iocconfig.Blocking(time.Second))).To(Succeed())
		Expect(got).To(Equal([]byte("ping")))
	})

	It("drains async events on ForceProcEvt", func() {
		var count int32
		Expect(m.SubEvt(id.LinkId(2), iocconfig.EventArgs{
			Cb: func(*descriptor.Event) { atomic.AddInt32(&count, 1) },
		})).To(Succeed())

		for i := 0; i < 3; i++ {
			Expect(m.PostEvt(ctx, id.AutoLink, 1, nil, iocconfig.NonBlocking())).To(Succeed())
		}

		dctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		Expect(m.ForceProcEvt(dctx)).To(Succeed())
		Expect(atomic.LoadInt32(&count)).To(Equal(int32(3)))
	})

	It("connects a client to a manually-accepted service and exchanges data", func() {
		uri, _ := iocconfig.Parse("auto://localprocess/echo")

		sid, err := m.OnlineService(ctx, iocconfig.ServiceArgs{URI: uri, Usage: iocconfig.DataReceiver})
		Expect(err).ToNot(HaveOccurred())

		var serverLink id.LinkId
		go func() {
			defer GinkgoRecover()
			lid, aerr := m.AcceptClient(ctx, sid)
			Expect(aerr).ToNot(HaveOccurred())
			serverLink = lid
		}()

		clientLink, err := m.ConnectService(ctx, iocconfig.ConnArgs{URI: uri, Usage: iocconfig.DataSender})
		Expect(err).ToNot(HaveOccurred())

		Eventually(func() id.LinkId { return serverLink }, time.Second).ShouldNot(BeZero())
		Expect(m.SendDat(ctx, clientLink, []byte("payload"))).To(Succeed())

		rctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		dat, err := m.RecvDat(rctx, serverLink, iocconfig.Blocking(time.Second))
		Expect(err).ToNot(HaveOccurred())
		Expect(dat.Bytes()).To(Equal([]byte("payload")))
	})

	It("runs a command from initiator to executor and back", func() {
		uri, _ := iocconfig.Parse("auto://localprocess/rpc")

		sid, err := m.OnlineService(ctx, iocconfig.ServiceArgs{
			URI:   uri,
			Usage: iocconfig.CmdExecutor,
			UsageArgs: iocconfig.UsageArgs{
				Cmd: &iocconfig.CmdArgs{
					Cb: func(cmd *descriptor.Command) {
						Expect(cmd.Request).To(Equal([]byte("add 2 2")))
						Expect(cmd.Succeed([]byte("4"))).To(Succeed())
					},
				},
			},
		})
		Expect(err).ToNot(HaveOccurred())

		executorReady := make(chan id.LinkId, 1)
		go func() {
			defer GinkgoRecover()
			lid, aerr := m.AcceptClient(ctx, sid)
			Expect(aerr).ToNot(HaveOccurred())
			executorReady <- lid
		}()

		clientLink, err := m.ConnectService(ctx, iocconfig.ConnArgs{
			URI:   uri,
			Usage: iocconfig.CmdInitiator,
		})
		Expect(err).ToNot(HaveOccurred())

		Eventually(executorReady, time.Second).Should(Receive())

		cmd, err := m.ExecCmd(ctx, clientLink, 99, []byte("add 2 2"), iocconfig.Blocking(time.Second))
		Expect(err).ToNot(HaveOccurred())
		Expect(cmd.Status()).To(Equal(descriptor.CmdSuccess))
		Expect(cmd.Response).To(Equal([]byte("4")))
	})

	It("tears a link down instead of handing it back when auto-subscribe fails", func() {
		uri, _ := iocconfig.Parse("auto://localprocess/full")

		// Exhaust the Conles subscriber table so the service's own
		// auto-subscribe has no free slot left by the time a client connects.
		for i := 0; i < conles.MaxSubscribers; i++ {
			i := i
			Expect(m.SubEvt(id.LinkId(1000+i), iocconfig.EventArgs{
				Cb: func(*descriptor.Event) { _ = i },
			})).To(Succeed())
		}

		sid, err := m.OnlineService(ctx, iocconfig.ServiceArgs{
			URI:   uri,
			Usage: iocconfig.EventConsumer,
			UsageArgs: iocconfig.UsageArgs{
				Evt: &iocconfig.EventArgs{Cb: func(*descriptor.Event) {}},
			},
		})
		Expect(err).ToNot(HaveOccurred())

		acceptErr := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			_, aerr := m.AcceptClient(ctx, sid)
			acceptErr <- aerr
		}()

		_, _ = m.ConnectService(ctx, iocconfig.ConnArgs{URI: uri, Usage: iocconfig.EventProducer})

		var gotErr error
		Eventually(acceptErr, time.Second).Should(Receive(&gotErr))
		Expect(gotErr).To(HaveOccurred())
		Expect(m.GetServiceLinkIds(sid)).To(BeEmpty())
	})
})
