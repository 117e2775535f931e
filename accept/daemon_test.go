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

package accept_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/ioc-core/accept"
	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/registry"
)

// protocolBackendStub implements protocol.Backend with no-op bodies for
// every method a test double doesn't care about, so it only has to
// override the one method its scenario actually exercises.
type protocolBackendStub struct{}

func (protocolBackendStub) Name() string { return "stub" }
func (protocolBackendStub) OnlineService(context.Context, iocconfig.URI, iocconfig.UsageRole, iocconfig.ServiceFlag, iocconfig.UsageArgs) (id.ServiceId, error) {
	return 0, nil
}
func (protocolBackendStub) OfflineService(context.Context, id.ServiceId) error { return nil }
func (protocolBackendStub) AcceptClient(context.Context, id.ServiceId) (id.LinkId, error) {
	return 0, nil
}
func (protocolBackendStub) ConnectService(context.Context, iocconfig.URI, iocconfig.UsageRole, iocconfig.UsageArgs) (id.LinkId, error) {
	return 0, nil
}
func (protocolBackendStub) CloseLink(context.Context, id.LinkId) error             { return nil }
func (protocolBackendStub) PostEvent(context.Context, id.LinkId, *descriptor.Event) error { return nil }
func (protocolBackendStub) SendData(context.Context, id.LinkId, *descriptor.Data) error    { return nil }
func (protocolBackendStub) RecvData(context.Context, id.LinkId, iocconfig.Option) (*descriptor.Data, error) {
	return nil, nil
}
func (protocolBackendStub) ExecCmd(context.Context, id.LinkId, *descriptor.Command, iocconfig.Option) error {
	return nil
}
func (protocolBackendStub) WaitCmd(context.Context, id.LinkId, *descriptor.Command, iocconfig.Option) error {
	return nil
}
func (protocolBackendStub) AckCmd(context.Context, id.LinkId, *descriptor.Command) error { return nil }

// acceptOnceBackend answers the first AcceptClient call with a fixed link
// id, then blocks on ctx until the caller cancels, the way a real backend's
// accept loop would once no further client shows up.
type acceptOnceBackend struct {
	protocolBackendStub
	calls int32
}

func (b *acceptOnceBackend) AcceptClient(ctx context.Context, _ id.ServiceId) (id.LinkId, error) {
	if atomic.AddInt32(&b.calls, 1) == 1 {
		return id.FirstConnectedLinkId(), nil
	}
	<-ctx.Done()
	return 0, iocerr.New(iocerr.CodeTimeout, "accept: context canceled")
}

var _ = Describe("Group.AutoAccept", func() {
	It("calls onAccepted for each link the backend hands back", func() {
		ctx, cancel := context.WithCancel(context.Background())
		g := accept.NewGroup(ctx, ioclog.Discard())
		svc := &registry.Service{ID: 1}
		b := &acceptOnceBackend{}

		accepted := make(chan id.LinkId, 1)
		g.AutoAccept(svc, b, func(lid id.LinkId) { accepted <- lid })

		Eventually(accepted, time.Second).Should(Receive(Equal(id.FirstConnectedLinkId())))
		cancel()
		Expect(g.Wait()).To(Succeed())
	})
})

var _ = Describe("Group.Broadcast", func() {
	It("relays to every accepted link except the source", func() {
		g := accept.NewGroup(context.Background(), ioclog.Discard())
		svc := &registry.Service{ID: 1, AcceptedLinks: []id.LinkId{10, 11, 12}}

		var relayed []id.LinkId
		relay := g.Broadcast(svc, func(target id.LinkId, _ *descriptor.Event) error {
			relayed = append(relayed, target)
			return nil
		})

		Expect(relay(11, descriptor.NewEvent(11, 1, nil))).To(Succeed())
		Expect(relayed).To(ConsistOf(id.LinkId(10), id.LinkId(12)))
	})

	It("reports no event consumer when there is no sibling link to relay to", func() {
		g := accept.NewGroup(context.Background(), ioclog.Discard())
		svc := &registry.Service{ID: 1, AcceptedLinks: []id.LinkId{10}}

		relay := g.Broadcast(svc, func(id.LinkId, *descriptor.Event) error {
			return nil
		})

		err := relay(10, descriptor.NewEvent(10, 1, nil))
		Expect(iocerr.IsCode(err, iocerr.CodeNoEventConsumer)).To(BeTrue())
	})

	It("reports no event consumer when no client has connected at all", func() {
		g := accept.NewGroup(context.Background(), ioclog.Discard())
		svc := &registry.Service{ID: 1}

		relay := g.Broadcast(svc, func(id.LinkId, *descriptor.Event) error {
			return nil
		})

		err := relay(id.AutoLink, descriptor.NewEvent(id.AutoLink, 1, nil))
		Expect(iocerr.IsCode(err, iocerr.CodeNoEventConsumer)).To(BeTrue())
	})
})

var _ = Describe("AutoSubscribe", func() {
	It("is a no-op when no event args were declared", func() {
		called := false
		err := accept.AutoSubscribe(func(id.LinkId, iocconfig.EventArgs) error {
			called = true
			return nil
		}, 5, iocconfig.UsageArgs{})
		Expect(err).ToNot(HaveOccurred())
		Expect(called).To(BeFalse())
	})

	It("subscribes the link when event args are declared", func() {
		var gotLid id.LinkId
		var gotArgs iocconfig.EventArgs
		err := accept.AutoSubscribe(func(lid id.LinkId, args iocconfig.EventArgs) error {
			gotLid = lid
			gotArgs = args
			return nil
		}, 7, iocconfig.UsageArgs{Evt: &iocconfig.EventArgs{IDs: []descriptor.EventID{1}}})

		Expect(err).ToNot(HaveOccurred())
		Expect(gotLid).To(Equal(id.LinkId(7)))
		Expect(gotArgs.IDs).To(Equal([]descriptor.EventID{1}))
	})
})
