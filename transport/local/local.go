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

// Package local is the default Protocol backend: same-process delivery
// with no real wire format, a direct peer-to-peer hookup through the
// shared registry. It is what every connected-mode scenario in this
// repository's test suite runs against; a real transport (see
// transport/nats) only needs to satisfy the same protocol.Backend shape.
package local

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/registry"
)

const Name = "local"

const pollInterval = 5 * time.Millisecond

// pendingConn is a ConnectService call waiting for a matching AcceptClient.
type pendingConn struct {
	usage iocconfig.UsageRole
	args  iocconfig.UsageArgs
	reply chan id.LinkId
}

// Backend implements protocol.Backend entirely over the shared registry.
type Backend struct {
	reg *registry.Registry

	mu      sync.Mutex
	waiting map[string][]*pendingConn
}

// New returns a local Backend bound to reg.
func New(reg *registry.Registry) *Backend {
	return &Backend{reg: reg, waiting: map[string][]*pendingConn{}}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) OnlineService(_ context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, flags iocconfig.ServiceFlag, args iocconfig.UsageArgs) (id.ServiceId, error) {
	if !uri.IsLocalProcess() && uri.Host != iocconfig.HostLoopback {
		return 0, iocerr.New(iocerr.CodeNotSupport, "local backend only serves localprocess/localhost uris")
	}
	svc, err := b.reg.AllocService(uri, usage, flags, args)
	if err != nil {
		return 0, err
	}
	return svc.ID, nil
}

func (b *Backend) OfflineService(_ context.Context, sid id.ServiceId) error {
	for _, lid := range b.reg.LinksOfService(sid) {
		_ = b.reg.FreeLink(lid)
	}
	return b.reg.FreeService(sid)
}

// popWaiting removes and returns the oldest pending connection attempt for
// key, or nil if none is queued yet.
func (b *Backend) popWaiting(key string) *pendingConn {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.waiting[key]
	if len(q) == 0 {
		return nil
	}
	pc := q[0]
	b.waiting[key] = q[1:]
	return pc
}

// AcceptClient blocks until a ConnectService call targets this service's
// URI, then completes the handshake and returns the accepted Link.
func (b *Backend) AcceptClient(ctx context.Context, sid id.ServiceId) (id.LinkId, error) {
	svc, err := b.reg.GetService(sid)
	if err != nil {
		return 0, err
	}
	key := svc.URI.String()

	for {
		if pc := b.popWaiting(key); pc != nil {
			lnk, err := b.reg.AllocLink(svc.ID, pc.usage, svc.Args.Merge(pc.args))
			if err != nil {
				pc.reply <- 0
				return 0, err
			}
			lnk.SetState(registry.LinkStateConnected)
			svc.AcceptedLinks = append(svc.AcceptedLinks, lnk.ID)
			pc.reply <- lnk.ID
			return lnk.ID, nil
		}

		select {
		case <-ctx.Done():
			return 0, iocerr.New(iocerr.CodeTimeout, "accept: deadline exceeded waiting for a client")
		case <-time.After(pollInterval):
		}
	}
}

func (b *Backend) ConnectService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, args iocconfig.UsageArgs) (id.LinkId, error) {
	svc, err := b.reg.FindServiceByURI(uri)
	if err != nil {
		return 0, err
	}

	reply := make(chan id.LinkId, 1)
	key := svc.URI.String()

	b.mu.Lock()
	b.waiting[key] = append(b.waiting[key], &pendingConn{usage: usage, args: args, reply: reply})
	b.mu.Unlock()

	select {
	case lid := <-reply:
		if lid == 0 {
			return 0, iocerr.New(iocerr.CodeLinkBroken, "accept side failed to complete the handshake")
		}
		return lid, nil
	case <-ctx.Done():
		return 0, iocerr.New(iocerr.CodeTimeout, "connect: deadline exceeded waiting for accept")
	}
}

func (b *Backend) CloseLink(_ context.Context, lid id.LinkId) error {
	if lid.IsAutoLink() {
		return nil
	}
	return b.reg.FreeLink(lid)
}

func (b *Backend) PostEvent(_ context.Context, lid id.LinkId, evt *descriptor.Event) error {
	lnk, err := b.reg.GetLink(lid)
	if err != nil {
		return err
	}
	if lnk.Args.Evt == nil || lnk.Args.Evt.Cb == nil {
		return iocerr.New(iocerr.CodeNoEventConsumer, "peer link has no event consumer")
	}
	lnk.Args.Evt.Cb(evt)
	return nil
}

func (b *Backend) SendData(_ context.Context, lid id.LinkId, dat *descriptor.Data) error {
	lnk, err := b.reg.GetLink(lid)
	if err != nil {
		return err
	}
	lnk.Lock()
	lnk.PendingData = append(lnk.PendingData, dat)
	lnk.Unlock()

	if lnk.Args.Dat != nil && lnk.Args.Dat.Cb != nil {
		lnk.Args.Dat.Cb(lid, dat)
	}
	return nil
}

func (b *Backend) RecvData(ctx context.Context, lid id.LinkId, _ iocconfig.Option) (*descriptor.Data, error) {
	lnk, err := b.reg.GetLink(lid)
	if err != nil {
		return nil, err
	}
	for {
		lnk.Lock()
		if len(lnk.PendingData) > 0 {
			dat := lnk.PendingData[0]
			lnk.PendingData = lnk.PendingData[1:]
			lnk.Unlock()
			return dat, nil
		}
		lnk.Unlock()

		select {
		case <-ctx.Done():
			return nil, iocerr.New(iocerr.CodeNoData, "recv: deadline exceeded with no data pending")
		case <-time.After(pollInterval):
		}
	}
}

func (b *Backend) ExecCmd(_ context.Context, lid id.LinkId, cmd *descriptor.Command, _ iocconfig.Option) error {
	lnk, err := b.reg.GetLink(lid)
	if err != nil {
		return err
	}
	if lnk.Args.Cmd == nil || lnk.Args.Cmd.Cb == nil {
		return iocerr.New(iocerr.CodeNotSupport, "peer link has no command executor")
	}
	if !lnk.Args.Cmd.Supports(cmd.CmdIDVal) {
		return iocerr.New(iocerr.CodeNotSupport, "command id not in executor's declared set")
	}
	if err := cmd.SetStatus(descriptor.CmdProcessing); err != nil {
		return err
	}
	lnk.Args.Cmd.Cb(cmd)
	return nil
}

func (b *Backend) WaitCmd(ctx context.Context, _ id.LinkId, cmd *descriptor.Command, _ iocconfig.Option) error {
	for {
		if cmd.Status().IsTerminal() {
			return nil
		}
		select {
		case <-ctx.Done():
			return iocerr.New(iocerr.CodeTimeout, "wait cmd: deadline exceeded")
		case <-time.After(time.Millisecond):
		}
	}
}

func (b *Backend) AckCmd(_ context.Context, _ id.LinkId, cmd *descriptor.Command) error {
	if !cmd.Status().IsTerminal() {
		return iocerr.New(iocerr.CodeNoCmdPending, "command has not reached a terminal status yet")
	}
	return nil
}
