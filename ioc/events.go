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

package ioc

import (
	"context"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
)

// SubEvt subscribes lid to the Conles connectionless event subsystem.
// Subscription identity is args's (Cb, Priv) pair, not lid: distinct
// subscribers may legitimately share lid (typically id.AutoLink), the way
// Conles's publish-subscribe fan-out is meant to work.
func (m *Manager) SubEvt(lid id.LinkId, args iocconfig.EventArgs) error {
	return m.evt.Subscribe(lid, args)
}

// UnsubEvt removes the Conles subscription matching lid and args's
// (Cb, Priv) identity.
func (m *Manager) UnsubEvt(lid id.LinkId, args iocconfig.EventArgs) error {
	return m.evt.Unsubscribe(lid, args)
}

// PostEvt posts evt. When src is id.AutoLink the event goes through the
// Conles dispatcher; otherwise it is delivered peer-to-peer through the
// link's backend.
func (m *Manager) PostEvt(ctx context.Context, src id.LinkId, evtID descriptor.EventID, payload []byte, opt iocconfig.Option) error {
	evt := descriptor.NewEvent(src, evtID, payload)

	if src.IsAutoLink() {
		return m.evt.PostEvent(evt, opt)
	}

	backend, err := m.backendFor(src)
	if err != nil {
		return err
	}
	return backend.PostEvent(ctx, src, evt)
}

// BroadcastEvt posts evt to every link accepted by srvID's service other
// than source, provided the service was brought online with
// iocconfig.BroadcastEvent. Fan-out happens only when a caller invokes
// BroadcastEvt; no background daemon republishes events on its own.
func (m *Manager) BroadcastEvt(ctx context.Context, srvID id.ServiceId, source id.LinkId, evtID descriptor.EventID, payload []byte) error {
	svc, err := m.reg.GetService(srvID)
	if err != nil {
		return err
	}
	if !svc.Flags.Has(iocconfig.BroadcastEvent) {
		return iocerr.New(iocerr.CodeNotSupportBroadcastEvent, "service was not brought online with the broadcast flag")
	}

	m.mu.Lock()
	backend := m.svcBackend[srvID]
	m.mu.Unlock()
	if backend == nil {
		return iocerr.New(iocerr.CodeNotExistService, "service was not brought online through this manager")
	}

	relay := m.daemons.Broadcast(svc, func(target id.LinkId, evt *descriptor.Event) error {
		return backend.PostEvent(ctx, target, evt)
	})
	return relay(source, descriptor.NewEvent(source, evtID, payload))
}

// ForceProcEvt synchronously drains every queued Conles event before
// returning, giving a caller a barrier against prior async PostEvt calls.
func (m *Manager) ForceProcEvt(ctx context.Context) error {
	return m.evt.ForceDrain(ctx)
}

// WakeupProcEvt nudges the Conles worker to run a drain pass; the worker
// has no timer of its own and drains only when woken.
func (m *Manager) WakeupProcEvt() {
	m.evt.Wakeup()
}
