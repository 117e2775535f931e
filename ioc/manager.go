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

// Package ioc is the root façade: a Manager ties the registry, the Conles
// dispatcher, the protocol dispatch and the accept daemons together behind
// the external operations an application actually calls. Everything below
// this package is plumbing; Manager is what gets imported.
package ioc

import (
	"context"
	"sync"

	"github.com/nabbar/ioc-core/accept"
	"github.com/nabbar/ioc-core/conles"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/protocol"
	"github.com/nabbar/ioc-core/registry"
	"github.com/nabbar/ioc-core/transport/local"
)

// Manager is the runtime's entry point. A process typically owns exactly
// one.
type Manager struct {
	log ioclog.Logger
	reg *registry.Registry
	dsp *protocol.Dispatch
	evt *conles.Dispatcher

	mu      sync.Mutex
	daemons *accept.Group
	ctx     context.Context
	cancel  context.CancelFunc

	// linkBackend remembers which backend serves each connected-mode
	// link, since the registry itself is transport-agnostic.
	linkBackend map[id.LinkId]protocol.Backend
	svcBackend  map[id.ServiceId]protocol.Backend
}

// New returns a Manager with the local in-process backend registered under
// both "local" and iocconfig.ProtocolAuto resolution. Additional transports
// (e.g. transport/nats) can be registered with RegisterBackend before any
// service goes online.
func New(log ioclog.Logger) *Manager {
	if log == nil {
		log = ioclog.Discard()
	}
	reg := registry.New()
	m := &Manager{
		log:         log,
		reg:         reg,
		dsp:         protocol.New(reg, log),
		evt:         conles.New(log),
		linkBackend: map[id.LinkId]protocol.Backend{},
		svcBackend:  map[id.ServiceId]protocol.Backend{},
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.daemons = accept.NewGroup(m.ctx, log)
	m.RegisterBackend(local.New(reg))
	return m
}

// RegisterBackend adds a transport the "auto" protocol can resolve to.
func (m *Manager) RegisterBackend(b protocol.Backend) {
	m.dsp.Register(b)
}

// Close stops every background daemon and the Conles worker. It does not
// close individual links or services; callers should do that first if a
// clean shutdown matters.
func (m *Manager) Close() error {
	m.cancel()
	m.evt.Close()
	return m.daemons.Wait()
}

// OnlineService brings a service online and, if requested, starts its
// auto-accept daemon.
func (m *Manager) OnlineService(ctx context.Context, args iocconfig.ServiceArgs) (id.ServiceId, error) {
	backend, sid, err := m.dsp.OnlineService(ctx, args.URI, args.Usage, args.Flags, args.UsageArgs)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.svcBackend[sid] = backend
	m.mu.Unlock()

	if args.Flags.Has(iocconfig.AutoAccept) {
		svc, err := m.reg.GetService(sid)
		if err != nil {
			return 0, err
		}
		m.daemons.AutoAccept(svc, backend, func(lid id.LinkId) {
			if err := m.onLinkEstablished(m.ctx, lid, backend, args.UsageArgs); err != nil {
				m.log.Warn("auto-accepted link rejected", ioclog.Fields{"link": lid, "error": err.Error()})
			}
		})
	}
	return sid, nil
}

// OfflineService takes a service down, tearing down every link it
// accepted.
func (m *Manager) OfflineService(ctx context.Context, sid id.ServiceId) error {
	m.mu.Lock()
	backend := m.svcBackend[sid]
	delete(m.svcBackend, sid)
	m.mu.Unlock()

	if backend == nil {
		return iocerr.New(iocerr.CodeNotExistService, "service was not brought online through this manager")
	}
	return backend.OfflineService(ctx, sid)
}

// AcceptClient performs one manual accept on sid. Services that set
// AutoAccept should not also call this.
func (m *Manager) AcceptClient(ctx context.Context, sid id.ServiceId) (id.LinkId, error) {
	m.mu.Lock()
	backend := m.svcBackend[sid]
	m.mu.Unlock()
	if backend == nil {
		return 0, iocerr.New(iocerr.CodeNotExistService, "service was not brought online through this manager")
	}

	svc, err := m.reg.GetService(sid)
	if err != nil {
		return 0, err
	}

	lid, err := backend.AcceptClient(ctx, sid)
	if err != nil {
		return 0, err
	}
	if err := m.onLinkEstablished(ctx, lid, backend, svc.Args); err != nil {
		return 0, err
	}
	return lid, nil
}

// ConnectService connects to a remote/local service as a client.
func (m *Manager) ConnectService(ctx context.Context, args iocconfig.ConnArgs) (id.LinkId, error) {
	backend, lid, err := m.dsp.ConnectService(ctx, args.URI, args.Usage, args.UsageArgs)
	if err != nil {
		return 0, err
	}
	if err := m.onLinkEstablished(ctx, lid, backend, args.UsageArgs); err != nil {
		return 0, err
	}
	return lid, nil
}

// onLinkEstablished wires the new link's backend binding and its
// auto-subscribe behavior. If auto-subscribe fails (e.g. the Conles
// subscriber table is full) the link never existed as far as the caller is
// concerned: it is closed, untracked from its service's accepted-link list,
// and the subscription error is returned rather than swallowed.
func (m *Manager) onLinkEstablished(ctx context.Context, lid id.LinkId, backend protocol.Backend, args iocconfig.UsageArgs) error {
	m.mu.Lock()
	m.linkBackend[lid] = backend
	m.mu.Unlock()

	if err := accept.AutoSubscribe(m.evt.Subscribe, lid, args); err != nil {
		m.log.Warn("auto-subscribe failed, tearing down link", ioclog.Fields{"link": lid, "error": err.Error()})

		m.untrackLink(lid)
		m.mu.Lock()
		delete(m.linkBackend, lid)
		m.mu.Unlock()
		_ = backend.CloseLink(ctx, lid)

		return err
	}
	return nil
}

// untrackLink removes lid from its owning service's accepted-link list,
// before the backend frees the registry entry outright.
func (m *Manager) untrackLink(lid id.LinkId) {
	lnk, err := m.reg.GetLink(lid)
	if err != nil {
		return
	}
	svc, err := m.reg.GetService(lnk.Service)
	if err != nil {
		return
	}
	for i, l := range svc.AcceptedLinks {
		if l == lid {
			svc.AcceptedLinks = append(svc.AcceptedLinks[:i], svc.AcceptedLinks[i+1:]...)
			break
		}
	}
}

// CloseLink closes a connected-mode link and forgets its backend binding.
func (m *Manager) CloseLink(ctx context.Context, lid id.LinkId) error {
	backend, err := m.backendFor(lid)
	if err != nil {
		return err
	}

	if lnk, lerr := m.reg.GetLink(lid); lerr == nil && lnk.Args.Evt != nil {
		_ = m.evt.Unsubscribe(lid, *lnk.Args.Evt)
	}

	m.mu.Lock()
	delete(m.linkBackend, lid)
	m.mu.Unlock()

	return backend.CloseLink(ctx, lid)
}

func (m *Manager) backendFor(lid id.LinkId) (protocol.Backend, error) {
	if lid.IsAutoLink() {
		return nil, iocerr.New(iocerr.CodeInvalidAutoLinkID, "auto-link has no backend, use the event operations instead")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.linkBackend[lid]
	if !ok {
		return nil, iocerr.New(iocerr.CodeNotExistLink, "no such connected-mode link")
	}
	return b, nil
}

// GetLinkState reports a connected-mode link's lifecycle state.
func (m *Manager) GetLinkState(lid id.LinkId) (registry.LinkState, error) {
	lnk, err := m.reg.GetLink(lid)
	if err != nil {
		return 0, err
	}
	return lnk.GetState(), nil
}

// GetLinkConnState is an alias of GetLinkState kept for callers migrating
// from the two differently-named accessors the source this runtime is
// modeled on exposed; both resolve to the same registry state machine.
func (m *Manager) GetLinkConnState(lid id.LinkId) (registry.LinkState, error) {
	return m.GetLinkState(lid)
}

// GetServiceLinkIds lists every link currently bound to sid.
func (m *Manager) GetServiceLinkIds(sid id.ServiceId) []id.LinkId {
	return m.reg.LinksOfService(sid)
}

// GetCapability reports the usage role a link (or the auto-link's Conles
// subsystem, for id.AutoLink) was registered with.
func (m *Manager) GetCapability(lid id.LinkId) (iocconfig.UsageRole, error) {
	if lid.IsAutoLink() {
		return iocconfig.EventProducer | iocconfig.EventConsumer, nil
	}
	lnk, err := m.reg.GetLink(lid)
	if err != nil {
		return 0, err
	}
	return lnk.Usage, nil
}
