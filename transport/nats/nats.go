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

// Package nats is a Protocol backend demonstrating that the runtime's
// vtable is genuinely transport-agnostic: it moves events, data and
// commands over a real NATS subject hierarchy, while services and links
// are still recorded in the shared registry. It can either dial an
// existing NATS deployment or, for
// tests and standalone demos, embed one via nats-server.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/registry"
)

const Name = "nats"

// connectRequest/connectReply implement the accept/connect handshake over
// a request-reply subject, the NATS idiom for synchronous RPC.
type connectRequest struct {
	Usage iocconfig.UsageRole `json:"usage"`
}

type connectReply struct {
	LinkID id.LinkId `json:"link_id"`
	Error  string    `json:"error,omitempty"`
}

// Backend implements protocol.Backend over a nats.Conn.
type Backend struct {
	reg *registry.Registry
	nc  *nats.Conn
	srv *server.Server

	mu    sync.Mutex
	subs  map[id.LinkId][]*nats.Subscription
	acpts map[id.ServiceId]*nats.Subscription
	pend  map[id.LinkId]chan *descriptor.Data
}

// NewEmbedded starts an in-process NATS server (handy for tests) and
// returns a Backend connected to it.
func NewEmbedded(reg *registry.Registry) (*Backend, error) {
	opts := &server.Options{Host: "127.0.0.1", Port: server.RANDOM_PORT}
	srv, err := server.NewServer(opts)
	if err != nil {
		return nil, iocerr.New(iocerr.CodeNotSupport, "embedded nats server: "+err.Error())
	}
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		return nil, iocerr.New(iocerr.CodeTimeout, "embedded nats server did not become ready")
	}

	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		return nil, iocerr.New(iocerr.CodeNotSupport, "connect to embedded nats: "+err.Error())
	}

	b := newBackend(reg, nc)
	b.srv = srv
	return b, nil
}

// New connects to an existing NATS deployment at url.
func New(reg *registry.Registry, url string) (*Backend, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, iocerr.New(iocerr.CodeNotSupport, "connect to nats: "+err.Error())
	}
	return newBackend(reg, nc), nil
}

func newBackend(reg *registry.Registry, nc *nats.Conn) *Backend {
	return &Backend{
		reg:   reg,
		nc:    nc,
		subs:  map[id.LinkId][]*nats.Subscription{},
		acpts: map[id.ServiceId]*nats.Subscription{},
		pend:  map[id.LinkId]chan *descriptor.Data{},
	}
}

// Close closes the connection without draining, which drops its
// subscriptions and anything still unprocessed, and stops any
// embedded server this Backend started.
func (b *Backend) Close() {
	b.nc.Close()
	if b.srv != nil {
		b.srv.Shutdown()
	}
}

func (b *Backend) Name() string { return Name }

func subjectConnect(uri iocconfig.URI) string { return fmt.Sprintf("ioc.%s.connect", uri.Path) }
func subjectEvt(lid id.LinkId) string         { return fmt.Sprintf("ioc.link.%d.evt", lid) }
func subjectDat(lid id.LinkId) string         { return fmt.Sprintf("ioc.link.%d.dat", lid) }
func subjectCmd(lid id.LinkId) string         { return fmt.Sprintf("ioc.link.%d.cmd", lid) }

func (b *Backend) OnlineService(_ context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, _ iocconfig.ServiceFlag, args iocconfig.UsageArgs) (id.ServiceId, error) {
	svc, err := b.reg.AllocService(uri, usage, 0, args)
	if err != nil {
		return 0, err
	}
	return svc.ID, nil
}

func (b *Backend) OfflineService(_ context.Context, sid id.ServiceId) error {
	b.mu.Lock()
	if sub, ok := b.acpts[sid]; ok {
		_ = sub.Unsubscribe()
		delete(b.acpts, sid)
	}
	b.mu.Unlock()

	for _, lid := range b.reg.LinksOfService(sid) {
		_ = b.reg.FreeLink(lid)
	}
	return b.reg.FreeService(sid)
}

// AcceptClient answers the next connect request published on the service's
// subject and completes the handshake by replying with a freshly allocated
// link id.
func (b *Backend) AcceptClient(ctx context.Context, sid id.ServiceId) (id.LinkId, error) {
	svc, err := b.reg.GetService(sid)
	if err != nil {
		return 0, err
	}

	sub, err := b.nc.SubscribeSync(subjectConnect(svc.URI))
	if err != nil {
		return 0, iocerr.New(iocerr.CodeNotSupport, "subscribe accept subject: "+err.Error())
	}
	defer sub.Unsubscribe()

	msg, err := sub.NextMsgWithContext(ctx)
	if err != nil {
		return 0, iocerr.New(iocerr.CodeTimeout, "accept: "+err.Error())
	}

	var req connectRequest
	_ = json.Unmarshal(msg.Data, &req)

	// A connect request travels over the wire as plain JSON, so it can
	// carry req.Usage but never the client's callbacks; the accepted
	// link's Args come entirely from the service's own declaration.
	lnk, err := b.reg.AllocLink(svc.ID, req.Usage, svc.Args)
	if err != nil {
		_ = b.nc.Publish(msg.Reply, mustJSON(connectReply{Error: err.Error()}))
		return 0, err
	}
	lnk.SetState(registry.LinkStateConnected)
	svc.AcceptedLinks = append(svc.AcceptedLinks, lnk.ID)

	// Subscribe the data subject before replying, so data the client
	// sends right after connecting is buffered rather than lost.
	if _, err := b.ensurePending(lnk.ID); err != nil {
		_ = b.nc.Publish(msg.Reply, mustJSON(connectReply{Error: err.Error()}))
		return 0, err
	}

	if err := b.nc.Publish(msg.Reply, mustJSON(connectReply{LinkID: lnk.ID})); err != nil {
		return 0, iocerr.New(iocerr.CodeLinkBroken, "accept reply: "+err.Error())
	}
	return lnk.ID, nil
}

func (b *Backend) ConnectService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, _ iocconfig.UsageArgs) (id.LinkId, error) {
	payload := mustJSON(connectRequest{Usage: usage})
	msg, err := b.nc.RequestWithContext(ctx, subjectConnect(uri), payload)
	if err != nil {
		return 0, iocerr.New(iocerr.CodeTimeout, "connect: "+err.Error())
	}

	var reply connectReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return 0, iocerr.New(iocerr.CodeLinkBroken, "malformed connect reply: "+err.Error())
	}
	if reply.Error != "" {
		return 0, iocerr.New(iocerr.CodeLinkBroken, reply.Error)
	}
	return reply.LinkID, nil
}

func (b *Backend) CloseLink(_ context.Context, lid id.LinkId) error {
	b.mu.Lock()
	for _, sub := range b.subs[lid] {
		_ = sub.Unsubscribe()
	}
	delete(b.subs, lid)
	delete(b.pend, lid)
	b.mu.Unlock()

	if lid.IsAutoLink() {
		return nil
	}
	return b.reg.FreeLink(lid)
}

func (b *Backend) PostEvent(_ context.Context, lid id.LinkId, evt *descriptor.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return iocerr.New(iocerr.CodeInvalidParam, "marshal event: "+err.Error())
	}
	if err := b.nc.Publish(subjectEvt(lid), data); err != nil {
		return iocerr.New(iocerr.CodeLinkBroken, "publish event: "+err.Error())
	}
	return nil
}

// SubscribeEvents wires a callback to lid's event subject, the NATS
// counterpart of the local backend's direct in-registry callback
// dispatch. Nothing in this module calls it on its own; a caller (such as
// this package's tests) subscribes explicitly.
func (b *Backend) SubscribeEvents(lid id.LinkId, cb iocconfig.EventCallback) error {
	sub, err := b.nc.Subscribe(subjectEvt(lid), func(msg *nats.Msg) {
		var evt descriptor.Event
		if err := json.Unmarshal(msg.Data, &evt); err == nil {
			cb(&evt)
		}
	})
	if err != nil {
		return iocerr.New(iocerr.CodeNotSupport, "subscribe event subject: "+err.Error())
	}
	b.mu.Lock()
	b.subs[lid] = append(b.subs[lid], sub)
	b.mu.Unlock()
	return nil
}

func (b *Backend) SendData(_ context.Context, lid id.LinkId, dat *descriptor.Data) error {
	data, err := json.Marshal(dat)
	if err != nil {
		return iocerr.New(iocerr.CodeInvalidParam, "marshal data: "+err.Error())
	}
	if err := b.nc.Publish(subjectDat(lid), data); err != nil {
		return iocerr.New(iocerr.CodeLinkBroken, "publish data: "+err.Error())
	}
	return nil
}

func (b *Backend) ensurePending(lid id.LinkId) (chan *descriptor.Data, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.pend[lid]; ok {
		return ch, nil
	}

	ch := make(chan *descriptor.Data, 64)
	sub, err := b.nc.Subscribe(subjectDat(lid), func(msg *nats.Msg) {
		var dat descriptor.Data
		if err := json.Unmarshal(msg.Data, &dat); err == nil {
			select {
			case ch <- &dat:
			default:
			}
		}
	})
	if err != nil {
		return nil, iocerr.New(iocerr.CodeNotSupport, "subscribe data subject: "+err.Error())
	}
	b.subs[lid] = append(b.subs[lid], sub)
	b.pend[lid] = ch
	return ch, nil
}

func (b *Backend) RecvData(ctx context.Context, lid id.LinkId, _ iocconfig.Option) (*descriptor.Data, error) {
	ch, err := b.ensurePending(lid)
	if err != nil {
		return nil, err
	}
	select {
	case dat := <-ch:
		return dat, nil
	case <-ctx.Done():
		return nil, iocerr.New(iocerr.CodeNoData, "recv: deadline exceeded with no data pending")
	}
}

// ExecCmd uses NATS request/reply: the executor side must have called
// ServeCmd to answer on the link's command subject.
func (b *Backend) ExecCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command, _ iocconfig.Option) error {
	msg, err := b.nc.RequestWithContext(ctx, subjectCmd(lid), cmd.Request)
	if err != nil {
		return cmd.Fail(iocerr.New(iocerr.CodeCmdExecFailed, "exec cmd: "+err.Error()))
	}
	return cmd.Succeed(msg.Data)
}

// ServeCmd subscribes handle to answer command requests addressed to lid,
// mirroring the local backend's Args.Cmd.Cb dispatch but over NATS
// request/reply instead of a direct function call.
func (b *Backend) ServeCmd(lid id.LinkId, handle func(request []byte) (response []byte)) error {
	sub, err := b.nc.Subscribe(subjectCmd(lid), func(msg *nats.Msg) {
		resp := handle(msg.Data)
		_ = b.nc.Publish(msg.Reply, resp)
	})
	if err != nil {
		return iocerr.New(iocerr.CodeNotSupport, "subscribe command subject: "+err.Error())
	}
	b.mu.Lock()
	b.subs[lid] = append(b.subs[lid], sub)
	b.mu.Unlock()
	return nil
}

// WaitCmd is a no-op: ExecCmd over request/reply already blocks until the
// executor answers, so there is nothing left to wait for here.
func (b *Backend) WaitCmd(_ context.Context, _ id.LinkId, cmd *descriptor.Command, _ iocconfig.Option) error {
	if !cmd.Status().IsTerminal() {
		return iocerr.New(iocerr.CodeNoCmdPending, "command was not driven through ExecCmd")
	}
	return nil
}

func (b *Backend) AckCmd(_ context.Context, _ id.LinkId, cmd *descriptor.Command) error {
	if !cmd.Status().IsTerminal() {
		return iocerr.New(iocerr.CodeNoCmdPending, "command has not reached a terminal status yet")
	}
	return nil
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
