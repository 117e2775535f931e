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

// Package accept holds the helpers a Service with AutoAccept or
// BroadcastEvent flags needs: a daemon loop that keeps calling AcceptClient
// so the application never has to, and a fan-out helper that delivers one
// event to every sibling link of the same service. The auto-accept loop is
// a plain goroutine coordinated with golang.org/x/sync's errgroup, the way
// the teacher's cluster package runs its daemons; the fan-out helper runs
// on its caller's goroutine.
package accept

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/protocol"
	"github.com/nabbar/ioc-core/registry"
)

// retryDelay is how long the auto-accept loop sleeps after an accept
// attempt fails for a reason other than context cancellation, before
// retrying. It is deliberately short and busy-looking - the source this
// runtime is modeled on polls at the same cadence - but every sleep is a
// select against ctx.Done so shutdown is immediate rather than waiting out
// the sleep.
const retryDelay = 10 * time.Millisecond

// Group supervises every background daemon for one IOC runtime instance.
type Group struct {
	log ioclog.Logger
	eg  *errgroup.Group
	ctx context.Context
}

// NewGroup returns a Group whose daemons all stop when ctx is canceled or
// Wait returns a non-nil error.
func NewGroup(ctx context.Context, log ioclog.Logger) *Group {
	eg, ctx := errgroup.WithContext(ctx)
	if log == nil {
		log = ioclog.Discard()
	}
	return &Group{log: log, eg: eg, ctx: ctx}
}

// Wait blocks until every daemon started on this group has returned, and
// returns the first non-nil error any of them produced.
func (g *Group) Wait() error {
	return g.eg.Wait()
}

// AutoAccept starts the auto-accept daemon for svc on backend. onAccepted
// is called with each newly accepted link id, typically to wire its
// auto-subscribe behavior.
func (g *Group) AutoAccept(svc *registry.Service, backend protocol.Backend, onAccepted func(id.LinkId)) {
	g.eg.Go(func() error {
		for {
			select {
			case <-g.ctx.Done():
				return nil
			default:
			}

			lid, err := backend.AcceptClient(g.ctx, svc.ID)
			if err != nil {
				if g.ctx.Err() != nil {
					return nil
				}
				if !iocerr.IsCode(err, iocerr.CodeTimeout) {
					g.log.Warn("auto-accept attempt failed", ioclog.Fields{"service": svc.ID, "error": err.Error()})
				}
				select {
				case <-g.ctx.Done():
					return nil
				case <-time.After(retryDelay):
				}
				continue
			}

			g.log.Debug("auto-accepted client", ioclog.Fields{"service": svc.ID, "link": lid})
			if onAccepted != nil {
				onAccepted(lid)
			}
		}
	})
}

// Broadcast returns the fan-out function for a BroadcastEvent service: the
// returned closure calls relay for every accepted link of svc other than
// source. Broadcast starts no goroutine and does not subscribe; fan-out
// happens only when a caller invokes the closure with an event. The
// returned closure reports CodeNoEventConsumer when source has no sibling
// accepted link to relay to - broadcasting before any client has connected
// is an error, not a silent no-op.
func (g *Group) Broadcast(svc *registry.Service, relay func(target id.LinkId, evt *descriptor.Event) error) func(source id.LinkId, evt *descriptor.Event) error {
	return func(source id.LinkId, evt *descriptor.Event) error {
		delivered := 0
		for _, target := range svc.AcceptedLinks {
			if target == source {
				continue
			}
			delivered++
			if err := relay(target, evt); err != nil {
				g.log.Warn("broadcast relay failed", ioclog.Fields{"service": svc.ID, "target": target, "error": err.Error()})
			}
		}
		if delivered == 0 {
			return iocerr.New(iocerr.CodeNoEventConsumer, "no accepted link to broadcast to")
		}
		return nil
	}
}

// AutoSubscribe wires lid into subscribe using args.Evt, when args declares
// an event argument bag (args.Evt non-nil); it is a no-op otherwise, and
// the usage role is not consulted. Both accept
// and connect call this right after the handshake completes, per the
// "subscribe as part of accept/connect, not as a separate step" design.
func AutoSubscribe(subscribe func(id.LinkId, iocconfig.EventArgs) error, lid id.LinkId, args iocconfig.UsageArgs) error {
	if args.Evt == nil {
		return nil
	}
	return subscribe(lid, *args.Evt)
}
